package get_booking

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
)

const msgInvalidToken = "Invalid booking token"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/manage/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if _, err := uuid.Parse(token); err != nil {
		h.logger.Warn("GET /bookings/manage/{token} - Invalid token format")
		handlers.RespondBadRequest(w, msgInvalidToken)
		return
	}

	booking, err := h.service.GetByToken(r.Context(), token)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /bookings/manage/{token} - Failed to get booking: %v", err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}
