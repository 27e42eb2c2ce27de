package models

import "time"

type PushToken struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type SavePushTokenRequest struct {
	Token string `json:"token" validate:"required,min=10"`
}
