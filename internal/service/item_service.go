package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/logging"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	items    domain.ItemRepository
	users    domain.UserRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	requests domain.ItemRequestRepository
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewItemService(
	items domain.ItemRepository,
	users domain.UserRepository,
	bookings domain.BookingRepository,
	comments domain.CommentRepository,
	requests domain.ItemRequestRepository,
	logger *zerolog.Logger,
	opts ...Option,
) *ItemService {
	o := applyOptions(opts)
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
		now:      o.now,
		logger:   logging.Component(logger, "item_service"),
	}
}

// CreateItem lists a new item; a non-nil requestID links it to the request it answers.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, name, description string, available *bool, requestID *int64) (*models.Item, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	case description == "":
		return nil, fmt.Errorf("%w: description is required", ErrInvalidRequest)
	case available == nil:
		return nil, fmt.Errorf("%w: available is required", ErrInvalidRequest)
	}

	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, lookupError(err, "user", ownerID)
	}
	if requestID != nil {
		if _, err := s.requests.GetItemRequestByID(ctx, *requestID); err != nil {
			return nil, lookupError(err, "request", *requestID)
		}
	}

	item := &models.Item{OwnerID: ownerID, Name: name, Description: description, Available: *available, RequestID: requestID}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// UpdateItem applies the non-nil fields of upd. Items of other owners are reported as missing.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, upd models.ItemUpdate) (*models.Item, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, lookupError(err, "item", itemID)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidRequest)
		}
		item.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		if strings.TrimSpace(*upd.Description) == "" {
			return nil, fmt.Errorf("%w: description must not be blank", ErrInvalidRequest)
		}
		item.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, lookupError(err, "item", itemID)
	}
	return item, nil
}

// GetItem returns the item with its booking timeline and comments.
func (s *ItemService) GetItem(ctx context.Context, itemID int64) (*models.ItemDetails, error) {
	now := s.now()

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, lookupError(err, "item", itemID)
	}
	return s.details(ctx, item, now)
}

func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64) ([]*models.ItemDetails, error) {
	now := s.now()

	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, lookupError(err, "user", ownerID)
	}

	items, err := s.items.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	result := make([]*models.ItemDetails, 0, len(items))
	for _, item := range items {
		d, err := s.details(ctx, item, now)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// SearchItems finds available items by name or description. Blank text finds nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string) ([]*models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}

	items, err := s.items.SearchAvailableItems(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

func (s *ItemService) details(ctx context.Context, item *models.Item, now time.Time) (*models.ItemDetails, error) {
	last, err := s.bookings.LastBookingStart(ctx, item.ID, now)
	if err != nil {
		return nil, fmt.Errorf("last booking of item %d: %w", item.ID, err)
	}
	next, err := s.bookings.NextBookingStart(ctx, item.ID, now)
	if err != nil {
		return nil, fmt.Errorf("next booking of item %d: %w", item.ID, err)
	}
	comments, err := s.comments.GetCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("comments of item %d: %w", item.ID, err)
	}

	return &models.ItemDetails{
		Item:        *item,
		LastBooking: last,
		NextBooking: next,
		Comments:    comments,
	}, nil
}
