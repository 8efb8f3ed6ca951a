package change_password

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/auth"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/auth/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

type serviceMock struct{ mock.Mock }

func (m *serviceMock) ChangePassword(ctx context.Context, adminID int64, req *models.ChangePasswordRequest) error {
	return m.Called(ctx, adminID, req).Error(0)
}

func patch(h *Handler, body string) *httptest.ResponseRecorder {
	ctx := middleware.WithPrincipal(context.Background(), middleware.Principal{AdminID: 3, VenueID: 1, Role: domain.RoleAdmin})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/me/password", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_ChangePassword(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("ChangePassword", mock.Anything, int64(3),
		&models.ChangePasswordRequest{CurrentPassword: "s3cret", NewPassword: "longer-secret"}).Return(nil)

	rec := patch(h, `{"currentPassword":"s3cret","newPassword":"longer-secret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Password changed"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandler_ChangePassword_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "wrong current password", err: auth.ErrWrongCurrentPassword, wantStatus: http.StatusBadRequest, wantMsg: "Current password is incorrect"},
		{name: "too short", err: auth.ErrPasswordTooShort, wantStatus: http.StatusBadRequest, wantMsg: "at least 8 characters"},
		{name: "admin disabled", err: auth.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &serviceMock{}
			h := NewHandler(svc, logger.NewDiscard())
			svc.On("ChangePassword", mock.Anything, int64(3), mock.Anything).Return(tt.err)

			rec := patch(h, `{"currentPassword":"nope","newPassword":"short"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestHandler_ChangePassword_BadBody(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	rec := patch(h, `{"current_password":"s3cret"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ChangePassword_NoPrincipal(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/admin/me/password", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
