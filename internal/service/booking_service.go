package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of "now" for every operation.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type BookingService struct {
	bookings domain.BookingRepository
	users    domain.UserRepository
	items    domain.ItemRepository
	eventBus domain.EventPublisher
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewBookingService(
	bookings domain.BookingRepository,
	users domain.UserRepository,
	items domain.ItemRepository,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
	opts ...Option,
) *BookingService {
	o := applyOptions(opts)
	return &BookingService{
		bookings: bookings,
		users:    users,
		items:    items,
		eventBus: eventBus,
		now:      o.now,
		logger:   logging.Component(logger, "booking_service"),
	}
}

// CreateBooking registers a WAITING booking of the item for the requester.
func (s *BookingService) CreateBooking(ctx context.Context, requesterID, itemID int64, start, end time.Time) (*models.Booking, error) {
	now := s.now()

	booker, err := s.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, lookupError(err, "user", requesterID)
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, lookupError(err, "item", itemID)
	}

	if !item.Available {
		return nil, fmt.Errorf("%w: item %d is not available for booking", ErrItemUnavailable, itemID)
	}
	if item.OwnerID == requesterID {
		return nil, fmt.Errorf("%w: owner cannot book own item", ErrInvalidRequest)
	}
	if start.Before(now) {
		return nil, fmt.Errorf("%w: start must not be in the past", ErrInvalidRequest)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidRequest)
	}

	booking := &models.Booking{
		ItemID:      item.ID,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		Start:       start,
		End:         end,
		Status:      models.StatusWaiting,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", booker.ID).
		Msg("booking created")

	metrics.IncBookingTransition(string(models.StatusWaiting))
	s.publishEvent(events.EventBookingCreated, booking, requesterID)

	return booking, nil
}

// ApproveBooking decides a WAITING booking. Only the item owner may decide, and only once.
func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, lookupError(err, "booking", bookingID)
	}

	if booking.ItemOwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner may decide booking %d", ErrAccessDenied, bookingID)
	}
	if err := decidedError(booking.Status); err != nil {
		return nil, err
	}

	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}

	err = s.bookings.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, status)
	if errors.Is(err, database.ErrConcurrentModification) {
		// кто-то успел принять решение раньше
		current, gerr := s.bookings.GetBooking(ctx, bookingID)
		if gerr != nil {
			return nil, lookupError(gerr, "booking", bookingID)
		}
		if derr := decidedError(current.Status); derr != nil {
			return nil, derr
		}
		return nil, fmt.Errorf("%w: booking %d was modified concurrently", ErrConflict, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	booking.Status = status
	booking.Version++

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("status", string(status)).
		Msg("booking decided")

	metrics.IncBookingTransition(string(status))
	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.publishEvent(eventType, booking, ownerID)

	return booking, nil
}

// GetBooking returns a booking visible to its booker and to the item owner.
func (s *BookingService) GetBooking(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, lookupError(err, "booking", bookingID)
	}
	if !booking.IsParticipant(requesterID) {
		return nil, fmt.Errorf("%w: user %d is not a participant of booking %d", ErrAccessDenied, requesterID, bookingID)
	}
	return booking, nil
}

func (s *BookingService) ListBookingsForBooker(ctx context.Context, requesterID int64, filter models.StateFilter) ([]*models.Booking, error) {
	return s.list(ctx, models.BookingScope{By: models.ScopeBooker, UserID: requesterID}, filter)
}

func (s *BookingService) ListBookingsForOwner(ctx context.Context, requesterID int64, filter models.StateFilter) ([]*models.Booking, error) {
	return s.list(ctx, models.BookingScope{By: models.ScopeOwner, UserID: requesterID}, filter)
}

func (s *BookingService) list(ctx context.Context, scope models.BookingScope, filter models.StateFilter) ([]*models.Booking, error) {
	now := s.now()

	if _, err := s.users.GetUserByID(ctx, scope.UserID); err != nil {
		return nil, lookupError(err, "user", scope.UserID)
	}

	bookings, err := s.bookings.ListBookings(ctx, scope, filter, now)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedByID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ItemID:      booking.ItemID,
		ItemName:    booking.ItemName,
		OwnerID:     booking.ItemOwnerID,
		BookerID:    booking.BookerID,
		BookerName:  booking.BookerName,
		Status:      string(booking.Status),
		Start:       booking.Start,
		End:         booking.End,
		ChangedByID: changedByID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

// decidedError reports the conflict for a booking that already left WAITING.
func decidedError(status models.BookingStatus) error {
	switch status {
	case models.StatusApproved:
		return ErrAlreadyApproved
	case models.StatusRejected:
		return ErrAlreadyRejected
	default:
		return nil
	}
}

// lookupError translates a store miss into ErrNotFound and wraps anything else.
func lookupError(err error, kind string, id int64) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return fmt.Errorf("get %s %d: %w", kind, id, err)
}
