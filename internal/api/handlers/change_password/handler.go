package change_password

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/auth/models"
)

const (
	msgUnauthorized       = "Authorization required"
	msgInvalidRequestBody = "Invalid request body"
	msgPasswordChanged    = "Password changed"
)

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

// Handle PATCH /api/v1/admin/me/password
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/me/password - Invalid request body: admin_id=%d, error=%v", principal.AdminID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ChangePassword(r.Context(), principal.AdminID, &req); err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/me/password - Failed to change password: admin_id=%d, error=%v", principal.AdminID, err)
		} else {
			h.logger.Warn("PATCH /admin/me/password - Rejected: admin_id=%d, error=%v", principal.AdminID, err)
		}
		return
	}

	h.logger.Info("PATCH /admin/me/password - Password changed: admin_id=%d", principal.AdminID)
	handlers.RespondMessage(w, http.StatusOK, msgPasswordChanged)
}
