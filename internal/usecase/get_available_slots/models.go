package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	VenueID       int64     // ID площадки
	ServiceID     int64     // ID услуги
	StaffMemberID *int64    // Необязательный сотрудник
	Date          time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов дня
type Response struct {
	Date      time.Time         // Дата, на которую запрашивались слоты
	DayOfWeek int               // 0 = воскресенье
	Slots     []domain.TimeSlot // Слоты с рассчитанной доступностью
}

// AvailableCount возвращает количество доступных слотов
func (r *Response) AvailableCount() int {
	count := 0
	for _, s := range r.Slots {
		if s.Available {
			count++
		}
	}
	return count
}

func emptyResponse(date time.Time) *Response {
	return &Response{
		Date:      date,
		DayOfWeek: int(date.Weekday()),
		Slots:     []domain.TimeSlot{},
	}
}
