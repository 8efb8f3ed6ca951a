package login

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/auth/models"
)

const msgInvalidRequestBody = "Invalid request body"

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("POST /auth/login - Failed to login: error=%v", err)
		} else {
			h.logger.Warn("POST /auth/login - Rejected: email=%s, error=%v", req.Email, err)
		}
		return
	}

	h.logger.Info("POST /auth/login - Logged in: admin_id=%d, venue_id=%d", resp.User.ID, resp.User.VenueID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
