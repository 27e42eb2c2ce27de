package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/pkg/logger"
)

type fakeDispatcher struct {
	calls      int
	recipients []string
	title      string
	body       string
	data       map[string]string
	err        error
}

func (d *fakeDispatcher) Notify(ctx context.Context, recipientIDs []string, title, body string, data map[string]string) error {
	d.calls++
	d.recipients = recipientIDs
	d.title = title
	d.body = body
	d.data = data
	return d.err
}

func newFanoutFixture() (*eventFanout, *fakeBusinessCityRepo, *fakeUserRepo, *fakeDispatcher) {
	cityRepo := &fakeBusinessCityRepo{}
	userRepo := &fakeUserRepo{}
	dispatcher := &fakeDispatcher{}
	f := NewEventFanout(cityRepo, userRepo, dispatcher, logger.NewNop(), time.Second).(*eventFanout)
	return f, cityRepo, userRepo, dispatcher
}

func fanoutRequirement() *models.Requirement {
	return &models.Requirement{
		ID:         "req-1",
		PostedByID: "poster",
		FromCity:   "Mumbai",
		ToCity:     "Pune",
		PickupDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		PickupTime: "09:00",
		Status:     models.StatusCreated,
	}
}

func TestFanoutCityRecipients(t *testing.T) {
	f, cityRepo, userRepo, dispatcher := newFanoutFixture()
	cityRepo.cities = []*models.BusinessCity{
		{ID: "bc-1", UserID: "a", CityName: "  MUMBAI ", State: "MH", IsActive: true},
		{ID: "bc-2", UserID: "b", CityName: "Pune", State: "MH", IsActive: true},
		{ID: "bc-3", UserID: "poster", CityName: "Mumbai", State: "MH", IsActive: true},
		{ID: "bc-4", UserID: "c", CityName: "Delhi", State: "DL", IsActive: true},
		{ID: "bc-5", UserID: "d", CityName: "Pune", State: "MH", IsActive: false},
	}
	userRepo.users = []*models.User{
		{ID: "a", IsVerified: true},
		{ID: "b", IsVerified: false},
	}

	err := f.dispatch(context.Background(), Event{Kind: EventRequirementCreated, Requirement: fanoutRequirement()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dispatcher.calls != 1 {
		t.Fatalf("expected 1 dispatch, got %d", dispatcher.calls)
	}
	// The poster, inactive cities and unrelated cities are excluded.
	if len(dispatcher.recipients) != 2 || dispatcher.recipients[0] != "a" || dispatcher.recipients[1] != "b" {
		t.Errorf("expected recipients [a b], got %v", dispatcher.recipients)
	}
	if dispatcher.title != "New requirement posted" {
		t.Errorf("unexpected title %q", dispatcher.title)
	}
	if dispatcher.data["requirement_id"] != "req-1" {
		t.Errorf("expected requirement id in payload, got %v", dispatcher.data)
	}
}

func TestFanoutOnlyVerified(t *testing.T) {
	f, cityRepo, userRepo, dispatcher := newFanoutFixture()
	cityRepo.cities = []*models.BusinessCity{
		{ID: "bc-1", UserID: "a", CityName: "Mumbai", State: "MH", IsActive: true},
		{ID: "bc-2", UserID: "b", CityName: "Pune", State: "MH", IsActive: true},
	}
	userRepo.users = []*models.User{
		{ID: "a", IsVerified: true},
		{ID: "b", IsVerified: false},
	}

	req := fanoutRequirement()
	req.OnlyVerified = true

	if err := f.dispatch(context.Background(), Event{Kind: EventRequirementCreated, Requirement: req}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dispatcher.recipients) != 1 || dispatcher.recipients[0] != "a" {
		t.Errorf("expected only the verified recipient, got %v", dispatcher.recipients)
	}
}

func TestFanoutExplicitRecipients(t *testing.T) {
	f, cityRepo, _, dispatcher := newFanoutFixture()
	// City data that would otherwise produce recipients; the override wins.
	cityRepo.cities = []*models.BusinessCity{
		{ID: "bc-1", UserID: "a", CityName: "Mumbai", State: "MH", IsActive: true},
	}

	evt := Event{Kind: EventRequirementAssigned, Requirement: fanoutRequirement(), Recipients: []string{"driver"}}
	if err := f.dispatch(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dispatcher.recipients) != 1 || dispatcher.recipients[0] != "driver" {
		t.Errorf("expected the explicit recipient only, got %v", dispatcher.recipients)
	}
	if dispatcher.title != "Requirement assigned to you" {
		t.Errorf("unexpected title %q", dispatcher.title)
	}
}

func TestFanoutNoRecipients(t *testing.T) {
	f, _, _, dispatcher := newFanoutFixture()

	if err := f.dispatch(context.Background(), Event{Kind: EventRequirementCreated, Requirement: fanoutRequirement()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispatcher.calls != 0 {
		t.Errorf("expected no dispatch without recipients, got %d", dispatcher.calls)
	}
}

func TestFanoutDispatcherError(t *testing.T) {
	f, cityRepo, _, dispatcher := newFanoutFixture()
	cityRepo.cities = []*models.BusinessCity{
		{ID: "bc-1", UserID: "a", CityName: "Mumbai", State: "MH", IsActive: true},
	}
	dispatcher.err = errors.New("push gateway down")

	err := f.dispatch(context.Background(), Event{Kind: EventRequirementCreated, Requirement: fanoutRequirement()})
	if err == nil {
		t.Fatal("expected dispatch error to surface")
	}
}

func TestEventText(t *testing.T) {
	tests := []struct {
		kind  EventKind
		title string
	}{
		{EventRequirementCreated, "New requirement posted"},
		{EventRequirementConfirmed, "Trip confirmed and now available"},
		{EventRequirementAssigned, "Requirement assigned to you"},
		{EventReturnTripCreated, "Return trip created"},
		{EventReturnTripEdited, "Return trip details updated"},
		{EventKind("something.else"), "Requirement update"},
	}

	for _, tt := range tests {
		title, body := eventText(Event{Kind: tt.kind, Requirement: fanoutRequirement()})
		if title != tt.title {
			t.Errorf("%s: expected title %q, got %q", tt.kind, tt.title, title)
		}
		if body != "Mumbai to Pune on 2026-03-12" {
			t.Errorf("%s: unexpected body %q", tt.kind, body)
		}
	}
}
