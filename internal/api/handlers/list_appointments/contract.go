package list_appointments

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/service/appointments/models"
)

type AppointmentsService interface {
	ListUpcoming(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
