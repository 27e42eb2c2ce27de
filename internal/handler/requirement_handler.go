package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/gaadilink/backend/internal/errors"
	"github.com/gaadilink/backend/internal/middleware"
	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/service"
	"github.com/gaadilink/backend/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type RequirementHandler struct {
	requirementService service.RequirementService
	validate           *validator.Validate
}

func NewRequirementHandler(requirementService service.RequirementService) *RequirementHandler {
	return &RequirementHandler{
		requirementService: requirementService,
		validate:           validator.New(),
	}
}

func (h *RequirementHandler) RegisterRoutes(r chi.Router) {
	r.Post("/requirements", h.Create)
	r.Post("/requirements/confirm", h.Confirm)
	r.Post("/requirements/assign", h.Assign)
	r.Post("/requirements/return", h.CreateReturn)
	r.Patch("/requirements", h.Edit)
	r.Patch("/requirements/return", h.EditReturn)
	r.Delete("/requirements/{id}", h.SoftDelete)
	r.Get("/requirements", h.List)
	r.Get("/requirements/my", h.ListMine)
	r.Get("/requirements/returns", h.ListAvailableReturns)
}

// POST /v1/requirements
func (h *RequirementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	requirement, err := h.requirementService.Create(r.Context(), &req, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, requirement)
}

// POST /v1/requirements/confirm
func (h *RequirementHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	requirement, err := h.requirementService.Confirm(r.Context(), req.RequirementID, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, requirement)
}

// POST /v1/requirements/assign
func (h *RequirementHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req models.AssignRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	requirement, err := h.requirementService.Assign(r.Context(), req.RequirementID, req.PhoneNumber, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, requirement)
}

// POST /v1/requirements/return
func (h *RequirementHandler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReturnRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	requirement, err := h.requirementService.CreateReturn(r.Context(), &req, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, requirement)
}

// PATCH /v1/requirements
func (h *RequirementHandler) Edit(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, false)
}

// PATCH /v1/requirements/return
func (h *RequirementHandler) EditReturn(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, true)
}

func (h *RequirementHandler) edit(w http.ResponseWriter, r *http.Request, returnTrip bool) {
	var req models.EditRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	var (
		requirement *models.Requirement
		err         error
	)
	if returnTrip {
		requirement, err = h.requirementService.EditReturn(r.Context(), &req, middleware.UserID(r.Context()))
	} else {
		requirement, err = h.requirementService.Edit(r.Context(), &req, middleware.UserID(r.Context()))
	}
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, requirement)
}

// DELETE /v1/requirements/{id}
func (h *RequirementHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "requirement id is required")
		return
	}

	requirement, err := h.requirementService.SoftDelete(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, requirement)
}

// GET /v1/requirements
func (h *RequirementHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	result, err := h.requirementService.ListVisible(r.Context(), middleware.UserID(r.Context()), q)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, result)
}

// GET /v1/requirements/returns
func (h *RequirementHandler) ListAvailableReturns(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	result, err := h.requirementService.ListAvailableReturns(r.Context(), middleware.UserID(r.Context()), q)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, result)
}

// GET /v1/requirements/my
func (h *RequirementHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	q := &service.MyRequirementsQuery{
		Status: r.URL.Query().Get("status"),
	}

	var err error
	if q.CreatedFrom, err = parseDateParam(r, "from_date", false); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	if q.CreatedTo, err = parseDateParam(r, "to_date", true); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	if v := r.URL.Query().Get("is_return_trip"); v != "" {
		isReturn, err := strconv.ParseBool(v)
		if err != nil {
			utils.BadRequest(w, "is_return_trip must be a boolean")
			return
		}
		q.IsReturnTrip = &isReturn
	}

	result, err := h.requirementService.ListMine(r.Context(), middleware.UserID(r.Context()), q)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, result)
}

func parseListQuery(r *http.Request) (*service.ListQuery, error) {
	q := &service.ListQuery{
		Status: r.URL.Query().Get("status"),
		Page:   parseIntParam(r, "page", 1),
		Limit:  parseIntParam(r, "limit", 10),
	}

	if carTypes := r.URL.Query().Get("car_types"); carTypes != "" {
		for _, ct := range strings.Split(carTypes, ",") {
			if ct = strings.TrimSpace(ct); ct != "" {
				q.CarTypes = append(q.CarTypes, ct)
			}
		}
	}

	var err error
	if q.PickupDateFrom, err = parseDateParam(r, "pickup_date_from", false); err != nil {
		return nil, err
	}
	if q.PickupDateTo, err = parseDateParam(r, "pickup_date_to", true); err != nil {
		return nil, err
	}
	if q.CreatedFrom, err = parseDateParam(r, "created_from", false); err != nil {
		return nil, err
	}
	if q.CreatedTo, err = parseDateParam(r, "created_to", true); err != nil {
		return nil, err
	}
	return q, nil
}

// parseDateParam reads a calendar-date query param; end-of-range dates are
// widened to the last instant of that day so the range is inclusive.
func parseDateParam(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}

	d, err := time.Parse(models.PickupDateLayout, value)
	if err != nil {
		return nil, apperrors.BadRequest(name + " must be formatted as YYYY-MM-DD")
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Millisecond)
	}
	return &d, nil
}

func parseIntParam(r *http.Request, name string, defaultValue int) int {
	if value := r.URL.Query().Get(name); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apperrors.APIError); ok {
		utils.Error(w, apiErr)
		return
	}

	switch err {
	case apperrors.ErrAlreadyTransitioned:
		utils.Error(w, apperrors.AlreadyTransitioned())
	case apperrors.ErrSelfAssignment:
		utils.Error(w, apperrors.SelfAssignment())
	case apperrors.ErrNotFound:
		utils.Error(w, apperrors.NotFound("resource"))
	default:
		utils.InternalError(w, "internal server error")
	}
}
