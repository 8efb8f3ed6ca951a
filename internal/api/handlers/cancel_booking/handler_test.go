package cancel_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/apperror"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

const token = "3b241101-e2bb-4255-8caf-4136c566a962"

type serviceMock struct{ mock.Mock }

func (m *serviceMock) CancelByToken(ctx context.Context, token string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, token, req)
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

func cancel(h *Handler, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/manage/"+tok+"/cancel", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"token": tok})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Cancel(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("CancelByToken", mock.Anything, token, mock.MatchedBy(func(r *models.CancelBookingRequest) bool {
		return r.Reason != nil && *r.Reason == "plans changed"
	})).Return(&models.BookingResponse{ID: 10, Status: "cancelled"}, nil)

	rec := cancel(h, token, `{"reason":"plans changed"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Cancel_EmptyBody(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("CancelByToken", mock.Anything, token, &models.CancelBookingRequest{}).
		Return(&models.BookingResponse{ID: 10, Status: "cancelled"}, nil)

	rec := cancel(h, token, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Cancel_InvalidToken(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	rec := cancel(h, "not-a-token", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CancelByToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Cancel_Window(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("CancelByToken", mock.Anything, token, mock.Anything).
		Return(nil, apperror.CancellationWindow(bookings.ErrCancellationWindow, 24, 19.6))

	rec := cancel(h, token, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cancellation must be made at least 24 hours in advance. Only 20 hours remaining.", body["message"])
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, float64(24), errBody["required_hours"])
	assert.Equal(t, float64(20), errBody["remaining_hours"])
}

func TestHandler_Cancel_AlreadyCancelled(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("CancelByToken", mock.Anything, token, mock.Anything).Return(nil, bookings.ErrAlreadyCancelled)

	rec := cancel(h, token, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}
