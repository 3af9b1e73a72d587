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

type CommentService struct {
	comments domain.CommentRepository
	users    domain.UserRepository
	items    domain.ItemRepository
	bookings domain.BookingRepository
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewCommentService(
	comments domain.CommentRepository,
	users domain.UserRepository,
	items domain.ItemRepository,
	bookings domain.BookingRepository,
	logger *zerolog.Logger,
	opts ...Option,
) *CommentService {
	o := applyOptions(opts)
	return &CommentService{
		comments: comments,
		users:    users,
		items:    items,
		bookings: bookings,
		now:      o.now,
		logger:   logging.Component(logger, "comment_service"),
	}
}

// AddComment lets a user review an item once one of their bookings of it has ended.
func (s *CommentService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	now := s.now()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidRequest)
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, lookupError(err, "user", authorID)
	}
	if _, err := s.items.GetItemByID(ctx, itemID); err != nil {
		return nil, lookupError(err, "item", itemID)
	}

	finished, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("check bookings: %w", err)
	}
	if !finished {
		return nil, fmt.Errorf("%w: user %d has no finished booking of item %d", ErrInvalidRequest, authorID, itemID)
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  now,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Msg("comment added")
	return comment, nil
}
