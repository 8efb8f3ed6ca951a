package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
)

const (
	msgInvalidToken       = "Invalid booking token"
	msgInvalidRequestBody = "Invalid request body"
)

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

// Handle POST /api/v1/bookings/manage/{token}/cancel
// Тело {reason?} необязательно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if _, err := uuid.Parse(token); err != nil {
		h.logger.Warn("POST /bookings/manage/{token}/cancel - Invalid token format")
		handlers.RespondBadRequest(w, msgInvalidToken)
		return
	}

	var req models.CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/manage/{token}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.CancelByToken(r.Context(), token, &req)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings/manage/{token}/cancel - Failed to cancel booking: %v", err)
		} else {
			h.logger.Warn("POST /bookings/manage/{token}/cancel - Rejected: %v", err)
		}
		return
	}

	h.logger.Info("POST /bookings/manage/{token}/cancel - Booking cancelled: booking_id=%d", booking.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
