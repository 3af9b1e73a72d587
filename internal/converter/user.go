package converter

import "shareit/internal/models"

type UserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r UserRequest) ToUpdate() models.UserUpdate {
	return models.UserUpdate{Name: r.Name, Email: r.Email}
}

type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToUserDTO(u *models.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToUserDTOs(users []*models.User) []UserDTO {
	result := make([]UserDTO, 0, len(users))
	for _, u := range users {
		result = append(result, ToUserDTO(u))
	}
	return result
}
