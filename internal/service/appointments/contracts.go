package appointments

import (
	"context"
	"time"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, businessID, id string) (*domain.Appointment, error)
	ListFrom(ctx context.Context, businessID string, from time.Time, includeCancelled bool) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, businessID, id string, reason *string) error
	Delete(ctx context.Context, businessID, id string) error
}

// BusinessReader нужен для проверки владельца бизнеса
type BusinessReader interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
}

// EventPublisher публикует событие об отмене записи
type EventPublisher interface {
	PublishAppointmentCancelled(ctx context.Context, appt *domain.Appointment) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
