package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// BusinessReader источник расписания и услуг (кэш или репозиторий)
type BusinessReader interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListActiveByDate возвращает активные записи бизнеса на день
	ListActiveByDate(ctx context.Context, businessID string, date time.Time) ([]*domain.Appointment, error)
}

// SlotMetrics счётчик расчётов слотов
type SlotMetrics interface {
	IncSlotComputation(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
