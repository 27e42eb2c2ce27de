package service

import (
	"context"
	"strings"
	"time"

	"github.com/gaadilink/backend/internal/cache"
	apperrors "github.com/gaadilink/backend/internal/errors"
	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/pkg/logger"
	"github.com/gaadilink/backend/pkg/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListQuery carries the optional filters for the paginated listings.
type ListQuery struct {
	Status         string
	CarTypes       []string
	PickupDateFrom *time.Time
	PickupDateTo   *time.Time
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Page           int
	Limit          int
}

type MyRequirementsQuery struct {
	Status       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	IsReturnTrip *bool
}

type RequirementService interface {
	Create(ctx context.Context, dto *models.CreateRequirementRequest, posterID string) (*models.Requirement, error)
	Confirm(ctx context.Context, requirementID, callerID string) (*models.Requirement, error)
	Assign(ctx context.Context, requirementID, phoneNumber, callerID string) (*models.Requirement, error)
	Edit(ctx context.Context, dto *models.EditRequirementRequest, callerID string) (*models.Requirement, error)
	EditReturn(ctx context.Context, dto *models.EditRequirementRequest, callerID string) (*models.Requirement, error)
	SoftDelete(ctx context.Context, requirementID, callerID string) (*models.Requirement, error)
	CreateReturn(ctx context.Context, dto *models.CreateReturnRequirementRequest, posterID string) (*models.Requirement, error)
	ListVisible(ctx context.Context, requesterID string, q *ListQuery) (*models.PaginatedRequirements, error)
	ListAvailableReturns(ctx context.Context, requesterID string, q *ListQuery) (*models.PaginatedRequirements, error)
	ListMine(ctx context.Context, userID string, q *MyRequirementsQuery) ([]*models.RequirementResponse, error)
}

type requirementService struct {
	requirementRepo  repository.RequirementRepository
	userRepo         repository.UserRepository
	carTypeRepo      repository.CarTypeRepository
	businessCityRepo repository.BusinessCityRepository
	cityCache        cache.BusinessCityCache
	fanout           EventFanout
	log              logger.Logger
	metrics          *metrics.Metrics
	cityMatchEnabled bool
	now              func() time.Time
}

func NewRequirementService(
	requirementRepo repository.RequirementRepository,
	userRepo repository.UserRepository,
	carTypeRepo repository.CarTypeRepository,
	businessCityRepo repository.BusinessCityRepository,
	cityCache cache.BusinessCityCache,
	fanout EventFanout,
	log logger.Logger,
	m *metrics.Metrics,
	cityMatchEnabled bool,
) RequirementService {
	return &requirementService{
		requirementRepo:  requirementRepo,
		userRepo:         userRepo,
		carTypeRepo:      carTypeRepo,
		businessCityRepo: businessCityRepo,
		cityCache:        cityCache,
		fanout:           fanout,
		log:              log,
		metrics:          m,
		cityMatchEnabled: cityMatchEnabled,
		now:              time.Now,
	}
}

func (s *requirementService) Create(ctx context.Context, dto *models.CreateRequirementRequest, posterID string) (*models.Requirement, error) {
	pickupDate, err := models.ParsePickupDate(dto.PickupDate)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	if err := s.validatePickupSchedule(pickupDate, dto.PickupTime); err != nil {
		return nil, err
	}

	carType, err := s.carTypeRepo.Resolve(ctx, dto.CarType)
	if err != nil {
		return nil, err
	}
	if carType == nil {
		return nil, apperrors.NotFound("car type")
	}

	req := &models.Requirement{
		PostedByID:   posterID,
		FromCity:     dto.FromCity,
		ToCity:       dto.ToCity,
		PickupDate:   pickupDate,
		PickupTime:   dto.PickupTime,
		CarType:      dto.CarType,
		TripType:     dto.TripType,
		Budget:       dto.Budget,
		OnlyVerified: dto.OnlyVerified,
		Status:       models.StatusCreated,
		IsDeleted:    false,
		IsReturnTrip: false,
	}
	if dto.Comment != "" {
		req.Comment = &dto.Comment
	}

	if err := s.requirementRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.metrics.RequirementsCreated.Inc()
	s.fanout.Publish(Event{Kind: EventRequirementCreated, Requirement: req})
	return req, nil
}

func (s *requirementService) Confirm(ctx context.Context, requirementID, callerID string) (*models.Requirement, error) {
	req, err := s.requirementRepo.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.IsDeleted {
		return nil, apperrors.NotFound("requirement")
	}
	if req.PostedByID != callerID {
		return nil, apperrors.NotOwner("confirm")
	}

	ok, err := s.requirementRepo.Confirm(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.AlreadyTransitioned()
	}
	req.Status = models.StatusConfirmed

	s.metrics.RequirementsConfirmed.Inc()
	s.fanout.Publish(Event{Kind: EventRequirementConfirmed, Requirement: req})
	return req, nil
}

func (s *requirementService) Assign(ctx context.Context, requirementID, phoneNumber, callerID string) (*models.Requirement, error) {
	req, err := s.requirementRepo.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.IsDeleted {
		return nil, apperrors.NotFound("requirement")
	}

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, apperrors.NotFound("logged-in user")
	}

	target, err := s.userRepo.GetByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NotFound("user")
	}

	if caller.PhoneNumber == phoneNumber {
		return nil, apperrors.SelfAssignment()
	}
	if target.ID == req.PostedByID {
		return nil, apperrors.BadRequest("requirement cannot be assigned to its poster")
	}

	ok, err := s.requirementRepo.Assign(ctx, requirementID, target.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.AlreadyTransitioned()
	}
	req.AssignedToID = &target.ID
	req.Status = models.StatusAssigned

	s.metrics.RequirementsAssigned.Inc()
	s.fanout.Publish(Event{Kind: EventRequirementAssigned, Requirement: req, Recipients: []string{target.ID}})
	return req, nil
}

func (s *requirementService) Edit(ctx context.Context, dto *models.EditRequirementRequest, callerID string) (*models.Requirement, error) {
	return s.edit(ctx, dto, callerID, false)
}

func (s *requirementService) EditReturn(ctx context.Context, dto *models.EditRequirementRequest, callerID string) (*models.Requirement, error) {
	return s.edit(ctx, dto, callerID, true)
}

func (s *requirementService) edit(ctx context.Context, dto *models.EditRequirementRequest, callerID string, returnOnly bool) (*models.Requirement, error) {
	req, err := s.requirementRepo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.IsDeleted {
		return nil, apperrors.NotFound("requirement")
	}
	if req.PostedByID != callerID {
		return nil, apperrors.NotOwner("edit")
	}
	if returnOnly && !req.IsReturnTrip {
		return nil, apperrors.BadRequest("requirement is not a return trip")
	}
	if req.Status != models.StatusCreated {
		return nil, apperrors.BadRequest("only requirements in CREATED status can be edited")
	}

	upd := &repository.RequirementUpdate{
		FromCity:     dto.FromCity,
		ToCity:       dto.ToCity,
		PickupTime:   dto.PickupTime,
		TripType:     dto.TripType,
		Budget:       dto.Budget,
		OnlyVerified: dto.OnlyVerified,
		Comment:      dto.Comment,
	}

	if dto.PickupDate != nil {
		date, err := models.ParsePickupDate(*dto.PickupDate)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		upd.PickupDate = &date
	}

	// Re-validate the schedule whenever either half of it changes.
	if dto.PickupDate != nil || dto.PickupTime != nil {
		date := req.PickupDate
		if upd.PickupDate != nil {
			date = *upd.PickupDate
		}
		timeOfDay := req.PickupTime
		if dto.PickupTime != nil {
			timeOfDay = *dto.PickupTime
		}
		if err := s.validatePickupSchedule(date, timeOfDay); err != nil {
			return nil, err
		}
	}

	if dto.CarType != nil {
		carType, err := s.carTypeRepo.Resolve(ctx, *dto.CarType)
		if err != nil {
			return nil, err
		}
		if carType == nil {
			return nil, apperrors.NotFound("car type")
		}
		upd.CarType = dto.CarType
	}

	ok, err := s.requirementRepo.UpdateOpen(ctx, req.ID, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.AlreadyTransitioned()
	}

	updated, err := s.requirementRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if updated.ReturnTripID != nil {
		original, err := s.requirementRepo.GetByID(ctx, *updated.ReturnTripID)
		if err == nil && original != nil && original.PostedByID != callerID {
			s.fanout.Publish(Event{
				Kind:        EventReturnTripEdited,
				Requirement: updated,
				Recipients:  []string{original.PostedByID},
			})
		}
	}
	return updated, nil
}

// SoftDelete is poster-only and idempotent: deleting twice leaves the row
// deleted without error.
func (s *requirementService) SoftDelete(ctx context.Context, requirementID, callerID string) (*models.Requirement, error) {
	req, err := s.requirementRepo.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.NotFound("requirement")
	}
	if req.PostedByID != callerID {
		return nil, apperrors.NotOwner("delete")
	}

	if !req.IsDeleted {
		if err := s.requirementRepo.SoftDelete(ctx, requirementID); err != nil {
			return nil, err
		}
		s.metrics.RequirementsDeleted.Inc()
	}
	req.IsDeleted = true
	return req, nil
}

func (s *requirementService) CreateReturn(ctx context.Context, dto *models.CreateReturnRequirementRequest, posterID string) (*models.Requirement, error) {
	pickupDate, err := models.ParsePickupDate(dto.ReturnPickupDate)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	if err := s.validatePickupSchedule(pickupDate, dto.ReturnPickupTime); err != nil {
		return nil, err
	}

	req := &models.Requirement{
		PostedByID:   posterID,
		PickupDate:   pickupDate,
		PickupTime:   dto.ReturnPickupTime,
		TripType:     models.TripTypeOneway,
		Budget:       dto.ReturnBudget,
		OnlyVerified: dto.OnlyVerified,
		Status:       models.StatusCreated,
		IsDeleted:    false,
		IsReturnTrip: true,
	}
	if dto.Comment != "" {
		req.Comment = &dto.Comment
	}

	var originalPosterID string
	if dto.OriginalRequirementID != "" {
		original, err := s.requirementRepo.GetByID(ctx, dto.OriginalRequirementID)
		if err != nil {
			return nil, err
		}
		if original == nil || original.IsDeleted {
			return nil, apperrors.NotFound("original requirement")
		}
		if original.PostedByID != posterID {
			return nil, apperrors.BadRequest("you can only create return trips for your own requirements")
		}
		if original.TripType != models.TripTypeOneway {
			return nil, apperrors.BadRequest("can only create return trips for one-way journeys")
		}
		if original.IsReturnTrip {
			return nil, apperrors.BadRequest("cannot create a return trip for another return trip")
		}

		// Route is carried over unchanged from the original leg; clients
		// phrase the return as its own trip rather than a reversed one.
		req.FromCity = original.FromCity
		req.ToCity = original.ToCity
		req.CarType = original.CarType
		req.ReturnTripID = &original.ID
		originalPosterID = original.PostedByID
	} else {
		if dto.FromCity == "" || dto.ToCity == "" || dto.CarType == "" {
			return nil, apperrors.BadRequest("from_city, to_city and car_type are required for manual return trip creation")
		}

		carType, err := s.carTypeRepo.Resolve(ctx, dto.CarType)
		if err != nil {
			return nil, err
		}
		if carType == nil {
			return nil, apperrors.NotFound("car type")
		}

		req.FromCity = dto.FromCity
		req.ToCity = dto.ToCity
		req.CarType = dto.CarType
	}

	if err := s.requirementRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.metrics.ReturnTripsCreated.Inc()

	if originalPosterID != "" {
		s.fanout.Publish(Event{
			Kind:        EventReturnTripCreated,
			Requirement: req,
			Recipients:  []string{originalPosterID},
		})
	}
	return req, nil
}

func (s *requirementService) ListVisible(ctx context.Context, requesterID string, q *ListQuery) (*models.PaginatedRequirements, error) {
	user, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	page, limit := normalizePage(q.Page, q.Limit)

	f := &repository.RequirementFilter{
		Statuses:            []string{models.StatusCreated, models.StatusAssigned},
		ExcludePosterID:     requesterID,
		CarTypes:            q.CarTypes,
		PickupDateFrom:      q.PickupDateFrom,
		PickupDateTo:        q.PickupDateTo,
		CreatedFrom:         q.CreatedFrom,
		CreatedTo:           q.CreatedTo,
		ExcludeOnlyVerified: !user.IsVerified,
	}
	if q.Status != "" {
		f.Statuses = []string{strings.ToUpper(q.Status)}
	}

	if s.cityMatchEnabled {
		names, err := s.activeCityNames(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return models.NewPaginatedRequirements(nil, 0, page, limit), nil
		}
		f.CityNames = names
	}

	items, total, err := s.requirementRepo.List(ctx, f, repository.OrderInbox, page, limit)
	if err != nil {
		return nil, err
	}

	responses, err := s.attachUsers(ctx, items)
	if err != nil {
		return nil, err
	}
	return models.NewPaginatedRequirements(responses, total, page, limit), nil
}

func (s *requirementService) ListAvailableReturns(ctx context.Context, requesterID string, q *ListQuery) (*models.PaginatedRequirements, error) {
	user, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	page, limit := normalizePage(q.Page, q.Limit)
	returnTrips := true

	f := &repository.RequirementFilter{
		IsReturnTrip:        &returnTrips,
		ExcludePosterID:     requesterID,
		CarTypes:            q.CarTypes,
		PickupDateFrom:      q.PickupDateFrom,
		PickupDateTo:        q.PickupDateTo,
		CreatedFrom:         q.CreatedFrom,
		CreatedTo:           q.CreatedTo,
		ExcludeOnlyVerified: !user.IsVerified,
	}
	if q.Status != "" {
		f.Statuses = []string{strings.ToUpper(q.Status)}
	}

	if s.cityMatchEnabled {
		names, err := s.activeCityNames(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return models.NewPaginatedRequirements(nil, 0, page, limit), nil
		}
		f.CityNames = names
	}

	items, total, err := s.requirementRepo.List(ctx, f, repository.OrderNewestFirst, page, limit)
	if err != nil {
		return nil, err
	}

	responses, err := s.attachUsers(ctx, items)
	if err != nil {
		return nil, err
	}
	return models.NewPaginatedRequirements(responses, total, page, limit), nil
}

// ListMine returns everything the user posted or was assigned, including
// soft-deleted rows for history.
func (s *requirementService) ListMine(ctx context.Context, userID string, q *MyRequirementsQuery) ([]*models.RequirementResponse, error) {
	f := &repository.RequirementFilter{
		IncludeDeleted: true,
		InvolvedUserID: userID,
		IsReturnTrip:   q.IsReturnTrip,
		CreatedFrom:    q.CreatedFrom,
		CreatedTo:      q.CreatedTo,
	}
	if q.Status != "" {
		f.Statuses = []string{strings.ToUpper(q.Status)}
	}

	items, err := s.requirementRepo.ListAll(ctx, f, repository.OrderNewestFirst)
	if err != nil {
		return nil, err
	}
	return s.attachUsers(ctx, items)
}

func (s *requirementService) validatePickupSchedule(pickupDate time.Time, timeOfDay string) error {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(pickupDate.Year(), pickupDate.Month(), pickupDate.Day(), 0, 0, 0, 0, now.Location())

	if day.Before(today) {
		return apperrors.PickupDateInPast()
	}
	if day.Equal(today) {
		pickupAt, err := models.CombinePickupDateTime(day, timeOfDay)
		if err != nil {
			return apperrors.BadRequest(err.Error())
		}
		if !pickupAt.After(now) {
			return apperrors.PickupTimeInPast()
		}
	}
	return nil
}

func (s *requirementService) activeCityNames(ctx context.Context, userID string) ([]string, error) {
	if s.cityCache != nil {
		names, hit, err := s.cityCache.GetCityNames(ctx, userID)
		if err != nil {
			s.log.Warn("business city cache read failed", "user_id", userID, "error", err)
		} else if hit {
			return names, nil
		}
	}

	cities, err := s.businessCityRepo.ActiveCitiesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cities))
	for _, c := range cities {
		names = append(names, c.CityName)
	}

	if s.cityCache != nil {
		if err := s.cityCache.SetCityNames(ctx, userID, names); err != nil {
			s.log.Warn("business city cache write failed", "user_id", userID, "error", err)
		}
	}
	return names, nil
}

func (s *requirementService) attachUsers(ctx context.Context, items []*models.Requirement) ([]*models.RequirementResponse, error) {
	responses := make([]*models.RequirementResponse, 0, len(items))
	seen := make(map[string]*models.User)

	lookup := func(id string) *models.User {
		if u, ok := seen[id]; ok {
			return u
		}
		u, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil
		}
		seen[id] = u
		return u
	}

	for _, item := range items {
		resp := item.ToResponse()
		if poster := lookup(item.PostedByID); poster != nil {
			resp.PostedBy = poster.ToResponse()
		}
		if item.AssignedToID != nil {
			if assignee := lookup(*item.AssignedToID); assignee != nil {
				resp.AssignedTo = assignee.ToResponse()
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
