package models

import "time"

// BusinessCity is a city a user has registered as an area of operation.
// Unique per (user, city, state); removal deactivates instead of deleting.
type BusinessCity struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CityName  string    `db:"city_name" json:"city_name"`
	State     string    `db:"state" json:"state"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type AddBusinessCityRequest struct {
	CityName string `json:"city_name" validate:"required,min=2,max=100"`
	State    string `json:"state" validate:"required,min=2,max=100"`
}

type RemoveBusinessCityRequest struct {
	CityName string `json:"city_name" validate:"required,min=2,max=100"`
	State    string `json:"state" validate:"required,min=2,max=100"`
}
