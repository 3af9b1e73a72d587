package converter

import "shareit/internal/models"

// ItemBody serves both creation and partial update; nil fields are absent.
// RequestID is read on creation only.
type ItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

func (r ItemBody) ToUpdate() models.ItemUpdate {
	return models.ItemUpdate{Name: r.Name, Description: r.Description, Available: r.Available}
}

type ItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId"`
}

type ItemWithBookingsDTO struct {
	ItemDTO
	LastBooking *LocalTime   `json:"lastBooking"`
	NextBooking *LocalTime   `json:"nextBooking"`
	Comments    []CommentDTO `json:"comments"`
}

func ToItemDTO(i *models.Item) ItemDTO {
	return ItemDTO{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
		RequestID:   i.RequestID,
	}
}

func ToItemDTOs(items []*models.Item) []ItemDTO {
	result := make([]ItemDTO, 0, len(items))
	for _, i := range items {
		result = append(result, ToItemDTO(i))
	}
	return result
}

func ToItemWithBookingsDTO(d *models.ItemDetails) ItemWithBookingsDTO {
	return ItemWithBookingsDTO{
		ItemDTO:     ToItemDTO(&d.Item),
		LastBooking: localTimePtr(d.LastBooking),
		NextBooking: localTimePtr(d.NextBooking),
		Comments:    ToCommentDTOs(d.Comments),
	}
}

func ToItemWithBookingsDTOs(details []*models.ItemDetails) []ItemWithBookingsDTO {
	result := make([]ItemWithBookingsDTO, 0, len(details))
	for _, d := range details {
		result = append(result, ToItemWithBookingsDTO(d))
	}
	return result
}
