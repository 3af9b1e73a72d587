package models

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// IsTerminal is true for statuses that can no longer be decided.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s BookingStatus) String() string {
	return string(s)
}

// StateFilter classifies bookings relative to a point in time and/or their status.
type StateFilter string

const (
	StateAll      StateFilter = "ALL"
	StateCurrent  StateFilter = "CURRENT"
	StatePast     StateFilter = "PAST"
	StateFuture   StateFilter = "FUTURE"
	StateWaiting  StateFilter = "WAITING"
	StateRejected StateFilter = "REJECTED"
)

// ParseStateFilter accepts any letter case; an empty value means ALL.
func ParseStateFilter(raw string) (StateFilter, error) {
	v := StateFilter(strings.ToUpper(strings.TrimSpace(raw)))
	switch v {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return v, nil
	default:
		return "", fmt.Errorf("unknown state: %s", raw)
	}
}

// Matches evaluates the filter for a single booking at the given instant.
// CURRENT is start-inclusive and end-exclusive; PAST and FUTURE are strict,
// so a booking starting exactly at now is CURRENT and one ending exactly at now is neither PAST nor CURRENT.
func (f StateFilter) Matches(b *Booking, now time.Time) bool {
	switch f {
	case StateCurrent:
		return !b.Start.After(now) && b.End.After(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return true
	}
}

const (
	// HeaderUserID carries the id of the acting user on every request.
	HeaderUserID = "X-Sharer-User-Id"

	// MetadataUserID is the gRPC metadata key equivalent of HeaderUserID.
	MetadataUserID = "x-sharer-user-id"

	// DefaultUserRateLimit requests per user per window
	DefaultUserRateLimit = 120

	// DefaultUserRateWindow окно ограничения частоты запросов пользователя
	DefaultUserRateWindow = 60 // секунд
)
