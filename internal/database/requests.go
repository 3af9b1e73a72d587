package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const requestColumns = `id, requester_id, description, created_at`

func (db *DB) CreateItemRequest(ctx context.Context, req *models.ItemRequest) error {
	query := `INSERT INTO requests (requester_id, description, created_at) VALUES (?, ?, ?)`
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	req.CreatedAt = req.CreatedAt.UTC()

	result, err := db.ExecContext(ctx, query, req.RequesterID, req.Description, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	req.ID = id
	return nil
}

func (db *DB) GetItemRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var req models.ItemRequest
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`
	if err := db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item request: %w", err)
	}
	return &req, nil
}

// ListItemRequestsByRequester returns the user's own requests, newest first.
func (db *DB) ListItemRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	reqs := []*models.ItemRequest{}
	query := `SELECT ` + requestColumns + ` FROM requests
              WHERE requester_id = ? ORDER BY created_at DESC, id DESC`
	if err := db.SelectContext(ctx, &reqs, query, requesterID); err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return reqs, nil
}

// ListOtherItemRequests returns everyone else's requests, newest first.
func (db *DB) ListOtherItemRequests(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	reqs := []*models.ItemRequest{}
	query := `SELECT ` + requestColumns + ` FROM requests
              WHERE requester_id <> ? ORDER BY created_at DESC, id DESC`
	if err := db.SelectContext(ctx, &reqs, query, requesterID); err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return reqs, nil
}
