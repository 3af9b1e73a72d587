package converter

import "shareit/internal/models"

type CommentRequest struct {
	Text string `json:"text"`
}

type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    LocalTime `json:"created"`
}

func ToCommentDTO(c *models.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    NewLocalTime(c.CreatedAt),
	}
}

func ToCommentDTOs(comments []*models.Comment) []CommentDTO {
	result := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		result = append(result, ToCommentDTO(c))
	}
	return result
}
