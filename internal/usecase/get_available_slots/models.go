package get_available_slots

import (
	"time"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID string
	ServiceID  string
	Date       time.Time // дата без времени
}

// Response слоты дня в порядке возрастания времени начала
type Response struct {
	Date            time.Time
	BusinessID      string
	ServiceID       string
	ServiceName     string
	DurationMinutes int
	Slots           []domain.TimeSlot
}
