package list_venues

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

type serviceMock struct{ mock.Mock }

func (m *serviceMock) ListVenues(ctx context.Context) ([]models.VenueSummaryResponse, error) {
	args := m.Called(ctx)
	venues, _ := args.Get(0).([]models.VenueSummaryResponse)
	return venues, args.Error(1)
}

func TestHandler_ListVenues(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("ListVenues", mock.Anything).Return([]models.VenueSummaryResponse{
		{ID: 1, Name: "Bistro", Type: "restaurant", City: ptr.Ptr("Berlin")},
	}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Bistro"`)
	assert.Contains(t, rec.Body.String(), `"city":"Berlin"`)
	svc.AssertExpectations(t)
}

func TestHandler_ListVenues_InternalError(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewDiscard())

	svc.On("ListVenues", mock.Anything).
		Return(nil, fmt.Errorf("%w: %v", catalog.ErrInternal, errors.New("pq: connection refused")))

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}
