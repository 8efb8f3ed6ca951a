package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
)

const msgInvalidParams = "venueId, serviceId and date (YYYY-MM-DD) are required"

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/slots?venueId=&serviceId=&date=&staffMemberId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability/slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /availability/slots - Failed to get slots: venue_id=%d, service_id=%d, error=%v",
				req.VenueID, req.ServiceID, err)
		} else {
			h.logger.Warn("GET /availability/slots - Rejected: venue_id=%d, service_id=%d, error=%v",
				req.VenueID, req.ServiceID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
