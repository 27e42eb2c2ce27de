package models

import (
	"fmt"
	"math"
	"time"
)

// Requirement status constants
const (
	StatusCreated   = "CREATED"
	StatusConfirmed = "CONFIRMED"
	StatusAssigned  = "ASSIGNED"
)

// Trip types
const (
	TripTypeOneway = "ONEWAY"
	TripTypeRound  = "ROUND"
)

// Valid requirement state transitions. CONFIRMED and ASSIGNED are terminal;
// soft-delete is an orthogonal flag, not a status.
var ValidStatusTransitions = map[string][]string{
	StatusCreated:   {StatusConfirmed, StatusAssigned},
	StatusConfirmed: {},
	StatusAssigned:  {},
}

const (
	PickupDateLayout = "2006-01-02"
	PickupTimeLayout = "15:04"
)

type Requirement struct {
	ID           string    `db:"id" json:"id"`
	PostedByID   string    `db:"posted_by_id" json:"posted_by_id"`
	AssignedToID *string   `db:"assigned_to_id" json:"assigned_to_id,omitempty"`
	FromCity     string    `db:"from_city" json:"from_city"`
	ToCity       string    `db:"to_city" json:"to_city"`
	PickupDate   time.Time `db:"pickup_date" json:"pickup_date"`
	PickupTime   string    `db:"pickup_time" json:"pickup_time"`
	CarType      string    `db:"car_type" json:"car_type"`
	TripType     string    `db:"trip_type" json:"trip_type"`
	Budget       *float64  `db:"budget" json:"budget,omitempty"`
	OnlyVerified bool      `db:"only_verified" json:"only_verified"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
	Status       string    `db:"status" json:"status"`
	IsDeleted    bool      `db:"is_deleted" json:"is_deleted"`
	IsReturnTrip bool      `db:"is_return_trip" json:"is_return_trip"`
	ReturnTripID *string   `db:"return_trip_id" json:"return_trip_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequirementRequest struct {
	FromCity     string   `json:"from_city" validate:"required,min=2,max=100"`
	ToCity       string   `json:"to_city" validate:"required,min=2,max=100"`
	PickupDate   string   `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	PickupTime   string   `json:"pickup_time" validate:"required,datetime=15:04"`
	CarType      string   `json:"car_type" validate:"required"`
	TripType     string   `json:"trip_type" validate:"required,oneof=ONEWAY ROUND"`
	Budget       *float64 `json:"budget,omitempty" validate:"omitempty,gt=0"`
	OnlyVerified bool     `json:"only_verified"`
	Comment      string   `json:"comment,omitempty" validate:"omitempty,max=500"`
}

type ConfirmRequirementRequest struct {
	RequirementID string `json:"requirement_id" validate:"required,uuid"`
}

type AssignRequirementRequest struct {
	RequirementID string `json:"requirement_id" validate:"required,uuid"`
	PhoneNumber   string `json:"phone_number" validate:"required,min=10,max=15"`
}

type CreateReturnRequirementRequest struct {
	OriginalRequirementID string   `json:"original_requirement_id,omitempty" validate:"omitempty,uuid"`
	FromCity              string   `json:"from_city,omitempty" validate:"omitempty,min=2,max=100"`
	ToCity                string   `json:"to_city,omitempty" validate:"omitempty,min=2,max=100"`
	CarType               string   `json:"car_type,omitempty"`
	ReturnPickupDate      string   `json:"return_pickup_date" validate:"required,datetime=2006-01-02"`
	ReturnPickupTime      string   `json:"return_pickup_time" validate:"required,datetime=15:04"`
	ReturnBudget          *float64 `json:"return_budget,omitempty" validate:"omitempty,gt=0"`
	OnlyVerified          bool     `json:"only_verified"`
	Comment               string   `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// EditRequirementRequest carries a partial update; only non-nil fields are
// applied.
type EditRequirementRequest struct {
	ID           string   `json:"id" validate:"required,uuid"`
	FromCity     *string  `json:"from_city,omitempty" validate:"omitempty,min=2,max=100"`
	ToCity       *string  `json:"to_city,omitempty" validate:"omitempty,min=2,max=100"`
	PickupDate   *string  `json:"pickup_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PickupTime   *string  `json:"pickup_time,omitempty" validate:"omitempty,datetime=15:04"`
	CarType      *string  `json:"car_type,omitempty"`
	TripType     *string  `json:"trip_type,omitempty" validate:"omitempty,oneof=ONEWAY ROUND"`
	Budget       *float64 `json:"budget,omitempty" validate:"omitempty,gt=0"`
	OnlyVerified *bool    `json:"only_verified,omitempty"`
	Comment      *string  `json:"comment,omitempty" validate:"omitempty,max=500"`
}

type RequirementResponse struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	PostedBy     *UserResponse `json:"posted_by,omitempty"`
	AssignedTo   *UserResponse `json:"assigned_to,omitempty"`
	FromCity     string        `json:"from_city"`
	ToCity       string        `json:"to_city"`
	PickupDate   string        `json:"pickup_date"`
	PickupTime   string        `json:"pickup_time"`
	CarType      string        `json:"car_type"`
	TripType     string        `json:"trip_type"`
	Budget       *float64      `json:"budget,omitempty"`
	OnlyVerified bool          `json:"only_verified"`
	Comment      *string       `json:"comment,omitempty"`
	IsDeleted    bool          `json:"is_deleted"`
	IsReturnTrip bool          `json:"is_return_trip"`
	ReturnTripID *string       `json:"return_trip_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type PaginatedRequirements struct {
	Items      []*RequirementResponse `json:"items"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

func NewPaginatedRequirements(items []*RequirementResponse, total, page, limit int) *PaginatedRequirements {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	if items == nil {
		items = []*RequirementResponse{}
	}
	return &PaginatedRequirements{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

func (r *Requirement) ToResponse() *RequirementResponse {
	return &RequirementResponse{
		ID:           r.ID,
		Status:       r.Status,
		FromCity:     r.FromCity,
		ToCity:       r.ToCity,
		PickupDate:   r.PickupDate.Format(PickupDateLayout),
		PickupTime:   r.PickupTime,
		CarType:      r.CarType,
		TripType:     r.TripType,
		Budget:       r.Budget,
		OnlyVerified: r.OnlyVerified,
		Comment:      r.Comment,
		IsDeleted:    r.IsDeleted,
		IsReturnTrip: r.IsReturnTrip,
		ReturnTripID: r.ReturnTripID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CanTransitionTo checks if a requirement can move to a new status
func (r *Requirement) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidStatusTransitions[r.Status]
	if !exists {
		return false
	}

	for _, state := range validNextStates {
		if state == newStatus {
			return true
		}
	}
	return false
}

// IsOpen returns true if the requirement can still be edited by its poster
func (r *Requirement) IsOpen() bool {
	return r.Status == StatusCreated && !r.IsDeleted
}

// ParsePickupDate parses a calendar date in the wire format.
func ParsePickupDate(value string) (time.Time, error) {
	d, err := time.Parse(PickupDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pickup date %q: %w", value, err)
	}
	return d, nil
}

// CombinePickupDateTime joins a pickup date with a local time-of-day string.
func CombinePickupDateTime(date time.Time, timeOfDay string) (time.Time, error) {
	t, err := time.Parse(PickupTimeLayout, timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pickup time %q: %w", timeOfDay, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
