package service

import (
	"context"
	"testing"

	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/pkg/logger"
)

func newBusinessCityFixture() (BusinessCityService, *fakeBusinessCityRepo, *fakeCityCache) {
	cityRepo := &fakeBusinessCityRepo{}
	userRepo := &fakeUserRepo{users: []*models.User{
		{ID: "user-1", FullName: "User", PhoneNumber: "9000000001"},
	}}
	cityCache := newFakeCityCache()
	svc := NewBusinessCityService(cityRepo, userRepo, cityCache, logger.NewNop())
	return svc, cityRepo, cityCache
}

func TestAddBusinessCity(t *testing.T) {
	svc, _, cityCache := newBusinessCityFixture()

	bc, err := svc.Add(context.Background(), &models.AddBusinessCityRequest{CityName: "Mumbai", State: "Maharashtra"}, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bc.IsActive {
		t.Error("expected new business city to be active")
	}
	if cityCache.invalidated != 1 {
		t.Errorf("expected the city cache to be invalidated once, got %d", cityCache.invalidated)
	}
}

func TestAddBusinessCityDuplicate(t *testing.T) {
	svc, _, _ := newBusinessCityFixture()

	if _, err := svc.Add(context.Background(), &models.AddBusinessCityRequest{CityName: "Mumbai", State: "Maharashtra"}, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same city with different casing counts as a duplicate.
	_, err := svc.Add(context.Background(), &models.AddBusinessCityRequest{CityName: "  mumbai ", State: "MAHARASHTRA"}, "user-1")
	assertAPIError(t, err, "bad_request")
}

func TestAddBusinessCityReactivates(t *testing.T) {
	svc, cityRepo, cityCache := newBusinessCityFixture()
	cityRepo.cities = []*models.BusinessCity{
		{ID: "bc-1", UserID: "user-1", CityName: "Mumbai", State: "Maharashtra", IsActive: false},
	}

	bc, err := svc.Add(context.Background(), &models.AddBusinessCityRequest{CityName: "Mumbai", State: "Maharashtra"}, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bc.ID != "bc-1" {
		t.Errorf("expected the existing row to be reactivated, got %s", bc.ID)
	}
	if !bc.IsActive {
		t.Error("expected the city to be active again")
	}
	if len(cityRepo.cities) != 1 {
		t.Errorf("expected no duplicate row, got %d", len(cityRepo.cities))
	}
	if cityCache.invalidated != 1 {
		t.Errorf("expected the city cache to be invalidated, got %d", cityCache.invalidated)
	}
}

func TestRemoveBusinessCity(t *testing.T) {
	svc, cityRepo, cityCache := newBusinessCityFixture()
	cityRepo.cities = []*models.BusinessCity{
		{ID: "bc-1", UserID: "user-1", CityName: "Mumbai", State: "Maharashtra", IsActive: true},
	}

	bc, err := svc.Remove(context.Background(), "Mumbai", "Maharashtra", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bc.IsActive {
		t.Error("expected the city to be deactivated")
	}
	// The row stays for later reactivation.
	if len(cityRepo.cities) != 1 {
		t.Errorf("expected the row to remain, got %d rows", len(cityRepo.cities))
	}
	if cityCache.invalidated != 1 {
		t.Errorf("expected the city cache to be invalidated, got %d", cityCache.invalidated)
	}
}

func TestRemoveBusinessCityMissing(t *testing.T) {
	svc, _, _ := newBusinessCityFixture()

	_, err := svc.Remove(context.Background(), "Delhi", "Delhi", "user-1")
	assertAPIError(t, err, "not_found")
}

func TestBusinessCityUnknownUser(t *testing.T) {
	svc, _, _ := newBusinessCityFixture()

	_, err := svc.Add(context.Background(), &models.AddBusinessCityRequest{CityName: "Mumbai", State: "Maharashtra"}, "ghost")
	assertAPIError(t, err, "not_found")

	_, err = svc.ListForUser(context.Background(), "ghost")
	assertAPIError(t, err, "not_found")
}

func TestListBusinessCities(t *testing.T) {
	svc, cityRepo, _ := newBusinessCityFixture()
	cityRepo.cities = []*models.BusinessCity{
		{ID: "bc-1", UserID: "user-1", CityName: "Mumbai", State: "Maharashtra", IsActive: true},
		{ID: "bc-2", UserID: "user-1", CityName: "Pune", State: "Maharashtra", IsActive: false},
		{ID: "bc-3", UserID: "user-2", CityName: "Delhi", State: "Delhi", IsActive: true},
	}

	cities, err := svc.ListForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 1 || cities[0].CityName != "Mumbai" {
		t.Errorf("expected only the active city for the user, got %+v", cities)
	}
}
