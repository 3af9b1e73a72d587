package models

import "time"

type Booking struct {
	ID          int64         `db:"id" json:"id"`
	ItemID      int64         `db:"item_id" json:"item_id"`
	ItemName    string        `db:"item_name" json:"item_name"`
	ItemOwnerID int64         `db:"item_owner_id" json:"item_owner_id"`
	BookerID    int64         `db:"booker_id" json:"booker_id"`
	BookerName  string        `db:"booker_name" json:"booker_name"`
	Start       time.Time     `db:"start_time" json:"start"`
	End         time.Time     `db:"end_time" json:"end"`
	Status      BookingStatus `db:"status" json:"status"` // WAITING, APPROVED, REJECTED
	Version     int64         `db:"version" json:"version"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// IsParticipant reports whether the user is the booker or the owner of the booked item.
func (b *Booking) IsParticipant(userID int64) bool {
	return b.BookerID == userID || b.ItemOwnerID == userID
}

type ScopeKind int

const (
	ScopeBooker ScopeKind = iota
	ScopeOwner
)

// BookingScope selects bookings made by a user or bookings of the items a user owns.
type BookingScope struct {
	By     ScopeKind
	UserID int64
}
