package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgUnauthorized       = "Authorization required"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "POST /bookings", false)
}

// HandleManual POST /api/v1/admin/bookings
// Бронирование от имени площадки администратора: без проверки booking_advance_hours, сразу confirmed
func (h *Handler) HandleManual(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "POST /admin/bookings", true)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, route string, manual bool) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	if manual {
		principal, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		// Администратор создает бронь только в своей площадке
		useCaseReq.VenueID = principal.VenueID
		useCaseReq.Manual = true
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("%s - Failed to create booking: venue_id=%d, service_id=%d, error=%v",
				route, useCaseReq.VenueID, useCaseReq.ServiceID, err)
		} else {
			h.logger.Warn("%s - Rejected: venue_id=%d, service_id=%d, error=%v",
				route, useCaseReq.VenueID, useCaseReq.ServiceID, err)
		}
		return
	}

	h.logger.Info("%s - Booking created successfully: booking_id=%d, venue_id=%d, status=%s",
		route, result.ID, result.VenueID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
