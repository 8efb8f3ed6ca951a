package update_venue_settings

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/policy/models"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgUnauthorized       = "Authorization required"
	msgForbidden          = "Only venue owners can change booking settings"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/venue/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if principal.Role != domain.RoleOwner {
		h.logger.Warn("PATCH /admin/venue/settings - Forbidden: admin_id=%d, role=%s", principal.AdminID, principal.Role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/venue/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), principal.VenueID, &req)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/venue/settings - Failed to update settings: venue_id=%d, error=%v", principal.VenueID, err)
		} else {
			h.logger.Warn("PATCH /admin/venue/settings - Rejected: venue_id=%d, error=%v", principal.VenueID, err)
		}
		return
	}

	h.logger.Info("PATCH /admin/venue/settings - Settings updated: venue_id=%d, admin_id=%d", principal.VenueID, principal.AdminID)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
