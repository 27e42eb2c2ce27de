package repository

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mumbai", "mumbai"},
		{"  MUMBAI ", "mumbai"},
		{"new delhi", "new delhi"},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCity(tt.in); got != tt.want {
			t.Errorf("NormalizeCity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCitiesDropsEmpty(t *testing.T) {
	got := NormalizeCities([]string{"Mumbai", "  ", "PUNE"})
	want := []string{"mumbai", "pune"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeCities = %v, want %v", got, want)
	}
}

func TestFilterBuildDefault(t *testing.T) {
	f := &RequirementFilter{}
	where, args := f.Build()

	if where != "WHERE is_deleted = false" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestFilterBuildIncludeDeleted(t *testing.T) {
	f := &RequirementFilter{IncludeDeleted: true}
	where, args := f.Build()

	if where != "" || args != nil {
		t.Errorf("expected an empty clause, got %q with %v", where, args)
	}
}

func TestFilterBuildInbox(t *testing.T) {
	f := &RequirementFilter{
		Statuses:            []string{"CREATED", "ASSIGNED"},
		ExcludePosterID:     "user-1",
		CityNames:           []string{" Mumbai ", "PUNE"},
		ExcludeOnlyVerified: true,
	}
	where, args := f.Build()

	for _, clause := range []string{
		"is_deleted = false",
		"status IN (?)",
		"posted_by_id <> ?",
		"(lower(trim(from_city)) IN (?) OR lower(trim(to_city)) IN (?))",
		"only_verified = false",
	} {
		if !strings.Contains(where, clause) {
			t.Errorf("expected clause %q in %q", clause, where)
		}
	}

	want := []interface{}{
		[]string{"CREATED", "ASSIGNED"},
		"user-1",
		[]string{"mumbai", "pune"},
		[]string{"mumbai", "pune"},
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestFilterBuildInvolvedUser(t *testing.T) {
	f := &RequirementFilter{IncludeDeleted: true, InvolvedUserID: "user-1"}
	where, args := f.Build()

	if where != "WHERE (posted_by_id = ? OR assigned_to_id = ?)" {
		t.Errorf("unexpected clause %q", where)
	}
	if !reflect.DeepEqual(args, []interface{}{"user-1", "user-1"}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilterBuildRanges(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	isReturn := true

	f := &RequirementFilter{
		IsReturnTrip:   &isReturn,
		PickupDateFrom: &from,
		PickupDateTo:   &to,
		CreatedFrom:    &from,
		CreatedTo:      &to,
	}
	where, args := f.Build()

	for _, clause := range []string{
		"is_return_trip = ?",
		"pickup_date >= ?",
		"pickup_date <= ?",
		"created_at >= ?",
		"created_at <= ?",
	} {
		if !strings.Contains(where, clause) {
			t.Errorf("expected clause %q in %q", clause, where)
		}
	}
	if len(args) != 5 {
		t.Errorf("expected 5 args, got %d: %v", len(args), args)
	}
	if args[0] != true {
		t.Errorf("expected the return-trip flag first, got %v", args[0])
	}
}

func TestFilterBuildJoinsWithAnd(t *testing.T) {
	f := &RequirementFilter{Statuses: []string{"CREATED"}, ExcludePosterID: "u"}
	where, _ := f.Build()

	if strings.Count(where, " AND ") != 2 {
		t.Errorf("expected 3 clauses joined by AND, got %q", where)
	}
	if !strings.HasPrefix(where, "WHERE ") {
		t.Errorf("clause must start with WHERE, got %q", where)
	}
}
