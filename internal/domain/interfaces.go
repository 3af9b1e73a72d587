package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id int64, version int64, status models.BookingStatus) error
	ListBookings(ctx context.Context, scope models.BookingScope, filter models.StateFilter, now time.Time) ([]*models.Booking, error)
	LastBookingStart(ctx context.Context, itemID int64, now time.Time) (*time.Time, error)
	NextBookingStart(ctx context.Context, itemID int64, now time.Time) (*time.Time, error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

type ItemRequestRepository interface {
	CreateItemRequest(ctx context.Context, req *models.ItemRequest) error
	GetItemRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListItemRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	ListOtherItemRequests(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
}

type RateLimitStore interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, requesterID, itemID int64, start, end time.Time) (*models.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error)
	ListBookingsForBooker(ctx context.Context, requesterID int64, filter models.StateFilter) ([]*models.Booking, error)
	ListBookingsForOwner(ctx context.Context, requesterID int64, filter models.StateFilter) ([]*models.Booking, error)
}

type UserService interface {
	CreateUser(ctx context.Context, name, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, name, description string, available *bool, requestID *int64) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, upd models.ItemUpdate) (*models.Item, error)
	GetItem(ctx context.Context, itemID int64) (*models.ItemDetails, error)
	ListOwnerItems(ctx context.Context, ownerID int64) ([]*models.ItemDetails, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
}

type CommentService interface {
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type ItemRequestService interface {
	CreateRequest(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error)
	ListOwnRequests(ctx context.Context, requesterID int64) ([]*models.ItemRequestDetails, error)
	ListOtherRequests(ctx context.Context, requesterID int64) ([]*models.ItemRequestDetails, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequestDetails, error)
}
