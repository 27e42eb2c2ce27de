package models

import (
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusCreated, StatusConfirmed, true},
		{StatusCreated, StatusAssigned, true},
		{StatusConfirmed, StatusAssigned, false},
		{StatusConfirmed, StatusCreated, false},
		{StatusAssigned, StatusConfirmed, false},
		{StatusAssigned, StatusCreated, false},
		{"UNKNOWN", StatusConfirmed, false},
	}

	for _, tt := range tests {
		req := &Requirement{Status: tt.from}
		if got := req.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		deleted bool
		want    bool
	}{
		{"created", StatusCreated, false, true},
		{"created but deleted", StatusCreated, true, false},
		{"confirmed", StatusConfirmed, false, false},
		{"assigned", StatusAssigned, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Requirement{Status: tt.status, IsDeleted: tt.deleted}
			if got := req.IsOpen(); got != tt.want {
				t.Errorf("IsOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPaginatedRequirements(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		wantPages int
	}{
		{"exact fit", 20, 10, 2},
		{"partial last page", 25, 10, 3},
		{"single row", 1, 10, 1},
		{"empty", 0, 10, 0},
		{"zero limit", 25, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginatedRequirements(nil, tt.total, 1, tt.limit)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.Items == nil {
				t.Error("Items must never be nil")
			}
		})
	}
}

func TestParsePickupDate(t *testing.T) {
	d, err := ParsePickupDate("2026-03-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 12 {
		t.Errorf("unexpected date %v", d)
	}

	if _, err := ParsePickupDate("12-03-2026"); err == nil {
		t.Error("expected an error for a wrong date layout")
	}
}

func TestCombinePickupDateTime(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	at, err := CombinePickupDateTime(date, "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("got %v, want %v", at, want)
	}

	if _, err := CombinePickupDateTime(date, "2pm"); err == nil {
		t.Error("expected an error for a wrong time layout")
	}
}

func TestRequirementToResponse(t *testing.T) {
	budget := 3500.0
	comment := "luggage space needed"
	req := &Requirement{
		ID:         "req-1",
		PostedByID: "poster",
		FromCity:   "Mumbai",
		ToCity:     "Pune",
		PickupDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		PickupTime: "09:00",
		CarType:    "sedan",
		TripType:   TripTypeOneway,
		Budget:     &budget,
		Comment:    &comment,
		Status:     StatusCreated,
	}

	resp := req.ToResponse()
	if resp.PickupDate != "2026-03-12" {
		t.Errorf("expected wire-format pickup date, got %q", resp.PickupDate)
	}
	if resp.Budget == nil || *resp.Budget != 3500.0 {
		t.Errorf("expected budget carried over, got %v", resp.Budget)
	}
	if resp.PostedBy != nil {
		t.Error("PostedBy is attached by the service layer, not here")
	}
}
