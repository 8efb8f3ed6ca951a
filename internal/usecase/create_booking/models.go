package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// Source источник бронирования для метрик
const (
	SourceCustomer = "customer"
	SourceAdmin    = "admin"
)

// Request модель запроса на создание бронирования
type Request struct {
	VenueID         int64             `field:"venue_id" validate:"gt=0"`
	ServiceID       int64             `field:"service_id" validate:"gt=0"`
	StaffMemberID   *int64            `field:"staff_member_id" validate:"omitempty,gt=0"`
	CustomerName    string            `field:"customer_name" validate:"required,max=200"`
	CustomerEmail   string            `field:"customer_email" validate:"required,email,max=255"`
	CustomerPhone   *string           `field:"customer_phone" validate:"omitempty,max=50"`
	Date            time.Time         `field:"booking_date" validate:"required"` // Дата бронирования (без времени)
	StartTime       types.TimeString  `field:"start_time" validate:"required"`
	EndTime         *types.TimeString `field:"end_time"` // Если указано, должно совпадать с start + duration
	PartySize       int               `field:"party_size" validate:"gte=1"`
	SpecialRequests *string           `field:"special_requests" validate:"omitempty,max=500"`
	TotalAmount     *decimal.Decimal  `field:"total_amount"` // Используется, если у услуги нет цены

	// Manual бронирование администратором: без проверки booking_advance_hours, сразу confirmed
	Manual bool `field:"-"`
}

// Source возвращает источник бронирования
func (r *Request) Source() string {
	if r.Manual {
		return SourceAdmin
	}
	return SourceCustomer
}
