package update_working_hours

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

type BusinessService interface {
	UpdateWorkingHours(ctx context.Context, businessID, userID string, hours domain.WorkingHours) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
