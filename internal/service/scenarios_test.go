package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// world wires the real services to one sqlite database and a movable clock.
type world struct {
	now      time.Time
	db       *database.DB
	bus      *events.EventBus
	bookings *BookingService
	users    *UserService
	items    *ItemService
	comments *CommentService
}

func newWorld(t *testing.T, path string) *world {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(path, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	w := &world{now: time.Now().UTC().Truncate(time.Second), db: db, bus: events.NewEventBus()}
	clock := WithClock(func() time.Time { return w.now })

	w.bookings = NewBookingService(db, db, db, w.bus, &logger, clock)
	w.users = NewUserService(db, &logger)
	w.items = NewItemService(db, db, db, db, db, &logger, clock)
	w.comments = NewCommentService(db, db, db, db, &logger, clock)
	return w
}

func boolPtr(v bool) *bool { return &v }

func TestScenarios(t *testing.T) {
	w := newWorld(t, ":memory:")
	ctx := context.Background()
	T := w.now

	var published []string
	for _, typ := range events.Types {
		w.bus.Subscribe(typ, func(e *events.Event) error {
			published = append(published, e.Type)
			return nil
		})
	}

	user1, err := w.users.CreateUser(ctx, "Owner", "owner@example.com")
	require.NoError(t, err)
	user2, err := w.users.CreateUser(ctx, "Booker", "booker@example.com")
	require.NoError(t, err)
	user3, err := w.users.CreateUser(ctx, "Stranger", "stranger@example.com")
	require.NoError(t, err)

	item, err := w.items.CreateItem(ctx, user1.ID, "Drill", "Cordless drill", boolPtr(true), nil)
	require.NoError(t, err)

	// A: user 2 books the item for [T+1h, T+3h]
	booking, err := w.bookings.CreateBooking(ctx, user2.ID, item.ID, T.Add(time.Hour), T.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, booking.Status)

	stored, err := w.items.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Available, "booking must not change availability")

	// B: owner approves, any second decision conflicts
	approved, err := w.bookings.ApproveBooking(ctx, user1.ID, booking.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	_, err = w.bookings.ApproveBooking(ctx, user1.ID, booking.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	_, err = w.bookings.ApproveBooking(ctx, user1.ID, booking.ID, true)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := w.bookings.GetBooking(ctx, user2.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	// C: a third party cannot read the booking
	_, err = w.bookings.GetBooking(ctx, user3.ID, booking.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// D: CURRENT at T+2h, PAST at T+4h
	w.now = T.Add(2 * time.Hour)
	current, err := w.bookings.ListBookingsForOwner(ctx, user1.ID, models.StateCurrent)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, booking.ID, current[0].ID)

	w.now = T.Add(4 * time.Hour)
	current, err = w.bookings.ListBookingsForOwner(ctx, user1.ID, models.StateCurrent)
	require.NoError(t, err)
	assert.Empty(t, current)

	past, err := w.bookings.ListBookingsForOwner(ctx, user1.ID, models.StatePast)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, booking.ID, past[0].ID)

	// the finished booking lets user 2 review the item
	comment, err := w.comments.AddComment(ctx, user2.ID, item.ID, "Works great")
	require.NoError(t, err)
	assert.Equal(t, "Booker", comment.AuthorName)

	_, err = w.comments.AddComment(ctx, user3.ID, item.ID, "Never used it")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	details, err := w.items.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, details.LastBooking)
	assert.True(t, details.LastBooking.Equal(T.Add(time.Hour)))
	assert.Nil(t, details.NextBooking)
	require.Len(t, details.Comments, 1)

	assert.Equal(t, []string{events.EventBookingCreated, events.EventBookingApproved}, published)
}

func TestConcurrentApprove(t *testing.T) {
	w := newWorld(t, filepath.Join(t.TempDir(), "race.db"))
	ctx := context.Background()

	owner, err := w.users.CreateUser(ctx, "Owner", "owner@example.com")
	require.NoError(t, err)
	booker, err := w.users.CreateUser(ctx, "Booker", "booker@example.com")
	require.NoError(t, err)
	item, err := w.items.CreateItem(ctx, owner.ID, "Tent", "Two person tent", boolPtr(true), nil)
	require.NoError(t, err)
	booking, err := w.bookings.CreateBooking(ctx, booker.ID, item.ID, w.now.Add(time.Hour), w.now.Add(2*time.Hour))
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(approved bool) {
			defer wg.Done()
			_, err := w.bookings.ApproveBooking(ctx, owner.ID, booking.ID, approved)
			errs <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, errors.Is(err, ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)
}
