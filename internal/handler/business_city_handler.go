package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gaadilink/backend/internal/middleware"
	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/service"
	"github.com/gaadilink/backend/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type BusinessCityHandler struct {
	businessCityService service.BusinessCityService
	validate            *validator.Validate
}

func NewBusinessCityHandler(businessCityService service.BusinessCityService) *BusinessCityHandler {
	return &BusinessCityHandler{
		businessCityService: businessCityService,
		validate:            validator.New(),
	}
}

func (h *BusinessCityHandler) RegisterRoutes(r chi.Router) {
	r.Post("/business-cities", h.Add)
	r.Delete("/business-cities", h.Remove)
	r.Get("/business-cities", h.List)
}

// POST /v1/business-cities
func (h *BusinessCityHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddBusinessCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	city, err := h.businessCityService.Add(r.Context(), &req, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, city)
}

// DELETE /v1/business-cities?city_name=...&state=...
func (h *BusinessCityHandler) Remove(w http.ResponseWriter, r *http.Request) {
	cityName := r.URL.Query().Get("city_name")
	state := r.URL.Query().Get("state")
	if cityName == "" || state == "" {
		utils.BadRequest(w, "city_name and state are required")
		return
	}

	city, err := h.businessCityService.Remove(r.Context(), cityName, state, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, city)
}

// GET /v1/business-cities
func (h *BusinessCityHandler) List(w http.ResponseWriter, r *http.Request) {
	cities, err := h.businessCityService.ListForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	if cities == nil {
		cities = []*models.BusinessCity{}
	}
	utils.Success(w, http.StatusOK, cities)
}
