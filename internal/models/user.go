package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" form:"username" validate:"required,max=150"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate() {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
}
