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

type ItemRequestService struct {
	requests domain.ItemRequestRepository
	users    domain.UserRepository
	items    domain.ItemRepository
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewItemRequestService(
	requests domain.ItemRequestRepository,
	users domain.UserRepository,
	items domain.ItemRepository,
	logger *zerolog.Logger,
	opts ...Option,
) *ItemRequestService {
	o := applyOptions(opts)
	return &ItemRequestService{
		requests: requests,
		users:    users,
		items:    items,
		now:      o.now,
		logger:   logging.Component(logger, "request_service"),
	}
}

func (s *ItemRequestService) CreateRequest(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}
	if _, err := s.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, lookupError(err, "user", requesterID)
	}

	req := &models.ItemRequest{RequesterID: requesterID, Description: description, CreatedAt: s.now()}
	if err := s.requests.CreateItemRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create item request: %w", err)
	}

	s.logger.Info().Int64("request_id", req.ID).Int64("requester_id", requesterID).Msg("item request created")
	return req, nil
}

// ListOwnRequests returns the requester's requests with their answers, newest first.
func (s *ItemRequestService) ListOwnRequests(ctx context.Context, requesterID int64) ([]*models.ItemRequestDetails, error) {
	if _, err := s.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, lookupError(err, "user", requesterID)
	}
	reqs, err := s.requests.ListItemRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list item requests: %w", err)
	}
	return s.withItems(ctx, reqs)
}

// ListOtherRequests returns requests made by everyone except the caller, newest first.
func (s *ItemRequestService) ListOtherRequests(ctx context.Context, requesterID int64) ([]*models.ItemRequestDetails, error) {
	if _, err := s.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, lookupError(err, "user", requesterID)
	}
	reqs, err := s.requests.ListOtherItemRequests(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list item requests: %w", err)
	}
	return s.withItems(ctx, reqs)
}

// GetRequest is open to any registered user.
func (s *ItemRequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequestDetails, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, lookupError(err, "user", userID)
	}
	req, err := s.requests.GetItemRequestByID(ctx, requestID)
	if err != nil {
		return nil, lookupError(err, "request", requestID)
	}

	details, err := s.withItems(ctx, []*models.ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// withItems attaches answering items with a single lookup for the whole page.
func (s *ItemRequestService) withItems(ctx context.Context, reqs []*models.ItemRequest) ([]*models.ItemRequestDetails, error) {
	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}

	items, err := s.items.GetItemsByRequests(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("request items: %w", err)
	}
	byRequest := make(map[int64][]*models.Item, len(reqs))
	for _, item := range items {
		if item.RequestID != nil {
			byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
		}
	}

	result := make([]*models.ItemRequestDetails, 0, len(reqs))
	for _, r := range reqs {
		answers := byRequest[r.ID]
		if answers == nil {
			answers = []*models.Item{}
		}
		result = append(result, &models.ItemRequestDetails{ItemRequest: *r, Items: answers})
	}
	return result, nil
}
