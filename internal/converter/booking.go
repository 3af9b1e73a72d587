package converter

import "shareit/internal/models"

// BookingRequest is the body of a booking creation request.
type BookingRequest struct {
	ItemID int64      `json:"itemId" validate:"required,gt=0"`
	Start  *LocalTime `json:"start" validate:"required"`
	End    *LocalTime `json:"end" validate:"required"`
}

type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingDTO struct {
	ID       int64     `json:"id"`
	Start    LocalTime `json:"start"`
	End      LocalTime `json:"end"`
	Status   string    `json:"status"`
	ItemID   int64     `json:"itemId"`
	BookerID int64     `json:"bookerId"`
	Item     ItemRef   `json:"item"`
	Booker   UserRef   `json:"booker"`
}

func ToBookingDTO(b *models.Booking) BookingDTO {
	return BookingDTO{
		ID:       b.ID,
		Start:    NewLocalTime(b.Start),
		End:      NewLocalTime(b.End),
		Status:   string(b.Status),
		ItemID:   b.ItemID,
		BookerID: b.BookerID,
		Item:     ItemRef{ID: b.ItemID, Name: b.ItemName},
		Booker:   UserRef{ID: b.BookerID, Name: b.BookerName},
	}
}

func ToBookingDTOs(bookings []*models.Booking) []BookingDTO {
	result := make([]BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, ToBookingDTO(b))
	}
	return result
}
