package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            7,
		VenueID:       1,
		ServiceID:     2,
		CustomerName:  "Anna",
		CustomerEmail: "anna@example.com",
		BookingDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     "18:00",
		EndTime:       "20:00",
		Status:        domain.StatusPending,
		BookingToken:  "3b241101-e2bb-4255-8caf-4136c566a962",
	}
}

func TestClient_BookingCreated(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var event Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		received <- event
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewDiscard())
	client.BookingCreated(context.Background(), testBooking())

	event := <-received
	assert.Equal(t, EventBookingCreated, event.Type)
	assert.Equal(t, int64(7), event.BookingID)
	assert.Equal(t, "2025-06-10", event.BookingDate)
	assert.Equal(t, "18:00", event.StartTime)
}

func TestClient_Send_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewDiscard())
	err := client.Send(context.Background(), NewEvent(EventBookingCancelled, testBooking(), time.Now()))

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Disabled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	client := NewClient("", time.Second, logger.NewDiscard())
	assert.False(t, client.Enabled())

	client.BookingCancelled(context.Background(), testBooking())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
