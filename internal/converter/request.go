package converter

import "shareit/internal/models"

type ItemRequestBody struct {
	Description string `json:"description"`
}

// AnswerDTO is an item offered in answer to a request.
type AnswerDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type ItemRequestDTO struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	RequesterID int64       `json:"requesterId"`
	Created     LocalTime   `json:"created"`
	Items       []AnswerDTO `json:"items"`
}

func ToItemRequestDTO(r *models.ItemRequest) ItemRequestDTO {
	return ItemRequestDTO{
		ID:          r.ID,
		Description: r.Description,
		RequesterID: r.RequesterID,
		Created:     NewLocalTime(r.CreatedAt),
		Items:       []AnswerDTO{},
	}
}

func ToItemRequestDetailsDTO(d *models.ItemRequestDetails) ItemRequestDTO {
	dto := ToItemRequestDTO(&d.ItemRequest)
	for _, i := range d.Items {
		dto.Items = append(dto.Items, AnswerDTO{ID: i.ID, Name: i.Name, OwnerID: i.OwnerID})
	}
	return dto
}

func ToItemRequestDetailsDTOs(details []*models.ItemRequestDetails) []ItemRequestDTO {
	result := make([]ItemRequestDTO, 0, len(details))
	for _, d := range details {
		result = append(result, ToItemRequestDetailsDTO(d))
	}
	return result
}
