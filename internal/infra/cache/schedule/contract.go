package schedule

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// Source хранилище, из которого кэш загружает бизнес при промахе
type Source interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
