package handler

import (
	"net/http"

	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type CarTypeHandler struct {
	carTypeRepo repository.CarTypeRepository
}

func NewCarTypeHandler(carTypeRepo repository.CarTypeRepository) *CarTypeHandler {
	return &CarTypeHandler{carTypeRepo: carTypeRepo}
}

func (h *CarTypeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/car-types", h.List)
}

// GET /v1/car-types
func (h *CarTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.carTypeRepo.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	if types == nil {
		types = []*models.CarType{}
	}
	utils.Success(w, http.StatusOK, types)
}
