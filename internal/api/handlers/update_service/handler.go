package update_service

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/catalog/models"
)

const (
	msgInvalidServiceID   = "Invalid service ID"
	msgInvalidRequestBody = "Invalid request body"
	msgUnauthorized       = "Authorization required"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	serviceID, err := handlers.ParseID(mux.Vars(r)["serviceId"], "serviceId")
	if err != nil {
		h.logger.Warn("PATCH /admin/services/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var req models.UpdateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	service, err := h.service.UpdateService(r.Context(), principal.VenueID, serviceID, &req)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/services/{id} - Failed to update service: service_id=%d, error=%v", serviceID, err)
		} else {
			h.logger.Warn("PATCH /admin/services/{id} - Rejected: service_id=%d, error=%v", serviceID, err)
		}
		return
	}

	h.logger.Info("PATCH /admin/services/{id} - Service updated: service_id=%d, admin_id=%d", serviceID, principal.AdminID)
	handlers.RespondJSON(w, http.StatusOK, service)
}
