package get_business

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

type BusinessService interface {
	Get(ctx context.Context, businessID string) (*models.BusinessResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
