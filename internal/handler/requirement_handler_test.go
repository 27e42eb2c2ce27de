package handler

import (
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestParseListQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/v1/requirements?status=created&car_types=sedan,%20suv%20,&page=3&limit=20&pickup_date_from=2026-03-01&pickup_date_to=2026-03-31", nil)

	q, err := parseListQuery(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Status != "created" {
		t.Errorf("expected status created, got %q", q.Status)
	}
	if !reflect.DeepEqual(q.CarTypes, []string{"sedan", "suv"}) {
		t.Errorf("expected trimmed car types, got %v", q.CarTypes)
	}
	if q.Page != 3 || q.Limit != 20 {
		t.Errorf("expected page=3 limit=20, got page=%d limit=%d", q.Page, q.Limit)
	}
	if q.PickupDateFrom == nil || q.PickupDateFrom.Day() != 1 {
		t.Errorf("unexpected pickup_date_from %v", q.PickupDateFrom)
	}
	// End-of-range dates cover the whole day.
	if q.PickupDateTo == nil || q.PickupDateTo.Hour() != 23 {
		t.Errorf("expected pickup_date_to widened to end of day, got %v", q.PickupDateTo)
	}
}

func TestParseListQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/requirements", nil)

	q, err := parseListQuery(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("expected defaults page=1 limit=10, got page=%d limit=%d", q.Page, q.Limit)
	}
	if q.CarTypes != nil {
		t.Errorf("expected no car type filter, got %v", q.CarTypes)
	}
	if q.PickupDateFrom != nil || q.CreatedTo != nil {
		t.Error("expected no date filters by default")
	}
}

func TestParseListQueryBadDate(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/requirements?created_from=01-03-2026", nil)

	if _, err := parseListQuery(r); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestParseDateParamEndOfDay(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/requirements?to_date=2026-03-15", nil)

	d, err := parseDateParam(r, "to_date", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 15, 23, 59, 59, 999000000, time.UTC)
	if !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}
}

func TestParseIntParamIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/requirements?page=abc", nil)

	if got := parseIntParam(r, "page", 1); got != 1 {
		t.Errorf("expected fallback to default, got %d", got)
	}
}
