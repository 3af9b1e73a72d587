package models

import "time"

type Item struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Available   bool      `db:"available" json:"available"`
	RequestID   *int64    `db:"request_id" json:"request_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ItemUpdate holds the fields of a partial item update; nil means unchanged.
type ItemUpdate struct {
	Name        *string
	Description *string
	Available   *bool
}

// ItemDetails is an item enriched with its booking timeline and comments.
type ItemDetails struct {
	Item
	LastBooking *time.Time
	NextBooking *time.Time
	Comments    []*Comment
}

type Comment struct {
	ID         int64     `db:"id" json:"id"`
	ItemID     int64     `db:"item_id" json:"item_id"`
	AuthorID   int64     `db:"author_id" json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
