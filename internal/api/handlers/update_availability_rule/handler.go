package update_availability_rule

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/catalog/models"
)

const (
	msgInvalidRuleID      = "Invalid rule ID"
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

// Handle PATCH /api/v1/admin/availability/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	ruleID, err := handlers.ParseID(mux.Vars(r)["ruleId"], "ruleId")
	if err != nil {
		h.logger.Warn("PATCH /admin/availability/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/availability/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rule, err := h.service.UpdateRule(r.Context(), principal.VenueID, ruleID, &req)
	if err != nil {
		if status := handlers.RespondError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/availability/{id} - Failed to update rule: rule_id=%d, error=%v", ruleID, err)
		} else {
			h.logger.Warn("PATCH /admin/availability/{id} - Rejected: rule_id=%d, error=%v", ruleID, err)
		}
		return
	}

	h.logger.Info("PATCH /admin/availability/{id} - Rule updated: rule_id=%d, admin_id=%d", ruleID, principal.AdminID)
	handlers.RespondJSON(w, http.StatusOK, rule)
}
