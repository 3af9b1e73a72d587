package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every service. Returned errors wrap exactly one of
// these, so transports classify them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrItemUnavailable = errors.New("item unavailable")
	ErrAccessDenied    = errors.New("access denied")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrAlreadyApproved = fmt.Errorf("%w: ALREADY_APPROVED", ErrConflict)
	ErrAlreadyRejected = fmt.Errorf("%w: ALREADY_REJECTED", ErrConflict)
)
