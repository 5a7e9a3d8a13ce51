package update_custom_url

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

type BusinessService interface {
	UpdateCustomURL(ctx context.Context, req *models.UpdateCustomURLRequest) (*models.CustomURLResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
