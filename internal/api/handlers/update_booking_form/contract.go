package update_booking_form

import (
	"context"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

type BusinessService interface {
	UpdateBookingForm(ctx context.Context, businessID, userID string, form domain.BookingForm) (*domain.BookingForm, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
