package update_venue_settings

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
	"github.com/m04kA/SMC-VenueBookingService/internal/service/policy"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

type serviceMock struct{ mock.Mock }

func (m *serviceMock) UpdateSettings(ctx context.Context, venueID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	args := m.Called(ctx, venueID, req)
	resp, _ := args.Get(0).(*models.SettingsResponse)
	return resp, args.Error(1)
}

func patch(h *Handler, role domain.AdminRole, body string) *httptest.ResponseRecorder {
	ctx := middleware.WithPrincipal(context.Background(), middleware.Principal{AdminID: 3, VenueID: 1, Role: role})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/venue/settings", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_UpdateSettings(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("UpdateSettings", mock.Anything, int64(1), mock.MatchedBy(func(r *models.UpdateSettingsRequest) bool {
		return r.CancellationHours != nil && *r.CancellationHours == 48 && r.BookingAdvanceHours == nil
	})).Return(&models.SettingsResponse{VenueID: 1, CancellationHours: 48}, nil)

	rec := patch(h, domain.RoleOwner, `{"cancellation_hours": 48}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cancellation_hours":48`)
	svc.AssertExpectations(t)
}

func TestHandler_UpdateSettings_Forbidden(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	rec := patch(h, domain.RoleStaff, `{"cancellation_hours": 48}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_UpdateSettings_Validation(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("UpdateSettings", mock.Anything, int64(1), mock.Anything).Return(nil, policy.ErrInvalidInput)

	rec := patch(h, domain.RoleOwner, `{"cancellation_hours": -1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
