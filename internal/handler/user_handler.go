package handler

import (
	"net/http"

	"github.com/gaadilink/backend/internal/middleware"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/me", h.Me)
}

// GET /v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	if user == nil {
		utils.NotFound(w, "user")
		return
	}

	utils.Success(w, http.StatusOK, user.ToResponse())
}
