package business

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// BusinessRepository интерфейс хранилища бизнесов
type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) (*domain.Business, error)
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	UpdateWorkingHours(ctx context.Context, id string, hours domain.WorkingHours) error
	UpdateBookingForm(ctx context.Context, id string, form domain.BookingForm) error
	UpdateCustomURL(ctx context.Context, id, customURL string) error
	CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, s *domain.Service) error
	DeleteService(ctx context.Context, businessID, serviceID string) error
}

// ProfileCache публичный профиль бизнеса через кэш
type ProfileCache interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	Invalidate(ctx context.Context, id string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
