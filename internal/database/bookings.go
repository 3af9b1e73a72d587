package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `b.id, b.item_id, i.name AS item_name, i.owner_id AS item_owner_id,
	b.booker_id, u.name AS booker_name, b.start_time, b.end_time, b.status,
	b.version, b.created_at, b.updated_at`

const bookingJoins = `FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

// CreateBooking stores a new booking; an empty status is stored as WAITING.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.StatusWaiting
	}

	query := `INSERT INTO bookings (item_id, booker_id, start_time, end_time, status, version, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
		1,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Start = booking.Start.UTC()
	booking.End = booking.End.UTC()
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + ` WHERE b.id = ?`
	if err := db.GetContext(ctx, &booking, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// UpdateBookingStatusWithVersion moves a WAITING booking to a new status if nobody
// changed it since fromVersion was read. Otherwise ErrConcurrentModification is returned.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now().UTC(), id, fromVersion, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// ListBookings returns the bookings in scope that satisfy filter at now,
// newest start first and ties broken by id.
func (db *DB) ListBookings(
	ctx context.Context,
	scope models.BookingScope,
	filter models.StateFilter,
	now time.Time,
) ([]*models.Booking, error) {
	var (
		where string
		args  []interface{}
	)

	switch scope.By {
	case models.ScopeOwner:
		where = "i.owner_id = ?"
	default:
		where = "b.booker_id = ?"
	}
	args = append(args, scope.UserID)

	cond, condArgs := stateCondition(filter, now.UTC())
	if cond != "" {
		where += " AND " + cond
		args = append(args, condArgs...)
	}

	query := `SELECT ` + bookingColumns + ` ` + bookingJoins +
		` WHERE ` + where + ` ORDER BY b.start_time DESC, b.id DESC`

	bookings := []*models.Booking{}
	if err := db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// stateCondition mirrors models.StateFilter.Matches in SQL.
func stateCondition(filter models.StateFilter, now time.Time) (string, []interface{}) {
	switch filter {
	case models.StateCurrent:
		return "b.start_time <= ? AND b.end_time > ?", []interface{}{now, now}
	case models.StatePast:
		return "b.end_time < ?", []interface{}{now}
	case models.StateFuture:
		return "b.start_time > ?", []interface{}{now}
	case models.StateWaiting:
		return "b.status = ?", []interface{}{models.StatusWaiting}
	case models.StateRejected:
		return "b.status = ?", []interface{}{models.StatusRejected}
	default:
		return "", nil
	}
}

// LastBookingStart returns the latest start of a booking of the item that has already begun.
func (db *DB) LastBookingStart(ctx context.Context, itemID int64, now time.Time) (*time.Time, error) {
	query := `SELECT start_time FROM bookings WHERE item_id = ? AND start_time <= ?
              ORDER BY start_time DESC LIMIT 1`
	return db.bookingStart(ctx, query, itemID, now.UTC())
}

// NextBookingStart returns the earliest start of a booking of the item that has not begun yet.
func (db *DB) NextBookingStart(ctx context.Context, itemID int64, now time.Time) (*time.Time, error) {
	query := `SELECT start_time FROM bookings WHERE item_id = ? AND start_time > ?
              ORDER BY start_time ASC LIMIT 1`
	return db.bookingStart(ctx, query, itemID, now.UTC())
}

func (db *DB) bookingStart(ctx context.Context, query string, args ...interface{}) (*time.Time, error) {
	var start time.Time
	if err := db.QueryRowxContext(ctx, query, args...).Scan(&start); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking start: %w", err)
	}
	return &start, nil
}

// HasFinishedBooking reports whether the user has a booking of the item that ended before now.
func (db *DB) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE booker_id = ? AND item_id = ? AND end_time < ?)`
	if err := db.QueryRowxContext(ctx, query, bookerID, itemID, now.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check finished booking: %w", err)
	}
	return exists, nil
}
