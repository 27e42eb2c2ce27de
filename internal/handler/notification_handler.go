package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gaadilink/backend/internal/middleware"
	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type NotificationHandler struct {
	tokenRepo repository.PushTokenRepository
	validate  *validator.Validate
}

func NewNotificationHandler(tokenRepo repository.PushTokenRepository) *NotificationHandler {
	return &NotificationHandler{
		tokenRepo: tokenRepo,
		validate:  validator.New(),
	}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/notifications/token", h.SaveToken)
	r.Delete("/notifications/token", h.RemoveToken)
}

// POST /v1/notifications/token
func (h *NotificationHandler) SaveToken(w http.ResponseWriter, r *http.Request) {
	var req models.SavePushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if err := h.tokenRepo.Save(r.Context(), middleware.UserID(r.Context()), req.Token); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DELETE /v1/notifications/token
func (h *NotificationHandler) RemoveToken(w http.ResponseWriter, r *http.Request) {
	if err := h.tokenRepo.Delete(r.Context(), middleware.UserID(r.Context())); err != nil {
		handleError(w, err)
		return
	}

	utils.NoContent(w)
}
