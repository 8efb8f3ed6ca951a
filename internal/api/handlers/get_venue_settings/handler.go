package get_venue_settings

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
)

const msgUnauthorized = "Authorization required"

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

// Handle GET /api/v1/admin/venue/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), principal.VenueID)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /admin/venue/settings - Failed to get settings: venue_id=%d, error=%v", principal.VenueID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, settings)
}
