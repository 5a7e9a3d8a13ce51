package get_available_slots

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.BusinessID) == "" {
		return fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// mapDateError переводит ошибки политики бронирования в ошибки usecase
func mapDateError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDateInPast):
		return fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	case errors.Is(err, domain.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
