package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Client отправляет события бронирований на webhook.
// Пустой webhookURL отключает отправку.
type Client struct {
	webhookURL string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(webhookURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled возвращает true, если webhook настроен
func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

// Send отправляет событие и возвращает ошибку доставки
func (c *Client) Send(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

// BookingCreated уведомляет о новом бронировании; ошибки только логируются
func (c *Client) BookingCreated(ctx context.Context, b *domain.Booking) {
	c.dispatch(ctx, NewEvent(EventBookingCreated, b, time.Now()))
}

// BookingCancelled уведомляет об отмене бронирования; ошибки только логируются
func (c *Client) BookingCancelled(ctx context.Context, b *domain.Booking) {
	c.dispatch(ctx, NewEvent(EventBookingCancelled, b, time.Now()))
}

func (c *Client) dispatch(ctx context.Context, event *Event) {
	if !c.Enabled() {
		return
	}

	if err := c.Send(ctx, event); err != nil {
		c.log.Error("Notifier: failed to deliver %s for booking id=%d: %v", event.Type, event.BookingID, err)
		return
	}

	c.log.Info("Notifier: delivered %s for booking id=%d", event.Type, event.BookingID)
}
