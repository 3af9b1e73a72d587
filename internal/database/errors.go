package database

import "errors"

var (
	ErrNotFound               = errors.New("record not found")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrDuplicateEmail         = errors.New("email already in use")
)
