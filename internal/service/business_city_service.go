package service

import (
	"context"

	"github.com/gaadilink/backend/internal/cache"
	apperrors "github.com/gaadilink/backend/internal/errors"
	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/pkg/logger"
)

type BusinessCityService interface {
	Add(ctx context.Context, dto *models.AddBusinessCityRequest, userID string) (*models.BusinessCity, error)
	Remove(ctx context.Context, cityName, state, userID string) (*models.BusinessCity, error)
	ListForUser(ctx context.Context, userID string) ([]*models.BusinessCity, error)
}

type businessCityService struct {
	businessCityRepo repository.BusinessCityRepository
	userRepo         repository.UserRepository
	cityCache        cache.BusinessCityCache
	log              logger.Logger
}

func NewBusinessCityService(
	businessCityRepo repository.BusinessCityRepository,
	userRepo repository.UserRepository,
	cityCache cache.BusinessCityCache,
	log logger.Logger,
) BusinessCityService {
	return &businessCityService{
		businessCityRepo: businessCityRepo,
		userRepo:         userRepo,
		cityCache:        cityCache,
		log:              log,
	}
}

// Add registers a business city for the user. A previously removed city is
// reactivated instead of duplicated.
func (s *businessCityService) Add(ctx context.Context, dto *models.AddBusinessCityRequest, userID string) (*models.BusinessCity, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.businessCityRepo.Get(ctx, userID, dto.CityName, dto.State)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsActive {
			return nil, apperrors.BadRequest("city is already added as a business city")
		}
		if err := s.businessCityRepo.SetActive(ctx, existing.ID, true); err != nil {
			return nil, err
		}
		existing.IsActive = true
		s.invalidate(ctx, userID)
		return existing, nil
	}

	bc := &models.BusinessCity{
		UserID:   userID,
		CityName: dto.CityName,
		State:    dto.State,
	}
	if err := s.businessCityRepo.Create(ctx, bc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return bc, nil
}

// Remove deactivates a business city; the row stays for later reactivation.
func (s *businessCityService) Remove(ctx context.Context, cityName, state, userID string) (*models.BusinessCity, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	bc, err := s.businessCityRepo.Get(ctx, userID, cityName, state)
	if err != nil {
		return nil, err
	}
	if bc == nil {
		return nil, apperrors.NotFound("business city")
	}

	if err := s.businessCityRepo.SetActive(ctx, bc.ID, false); err != nil {
		return nil, err
	}
	bc.IsActive = false
	s.invalidate(ctx, userID)
	return bc, nil
}

func (s *businessCityService) ListForUser(ctx context.Context, userID string) ([]*models.BusinessCity, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.businessCityRepo.ActiveCitiesFor(ctx, userID)
}

func (s *businessCityService) requireUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user")
	}
	return nil
}

func (s *businessCityService) invalidate(ctx context.Context, userID string) {
	if s.cityCache == nil {
		return
	}
	if err := s.cityCache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("business city cache invalidation failed", "user_id", userID, "error", err)
	}
}
