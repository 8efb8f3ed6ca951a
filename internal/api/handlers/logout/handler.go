package logout

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
)

const msgLoggedOut = "Logged out"

// Handler токены не хранятся на сервере, клиент просто удаляет свой
type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle POST /api/v1/auth/logout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("POST /auth/logout - Logged out")
	handlers.RespondMessage(w, http.StatusOK, msgLoggedOut)
}
