package delete_service

import "context"

type BusinessService interface {
	DeleteService(ctx context.Context, businessID, serviceID, userID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
