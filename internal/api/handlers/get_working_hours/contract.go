package get_working_hours

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

type BusinessService interface {
	GetWorkingHours(ctx context.Context, businessID string) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
