package models

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`   // Отображаемое имя
	Email     string    `db:"email" json:"email"` // Уникальный адрес
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserUpdate holds the fields of a partial user update; nil means unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
}
