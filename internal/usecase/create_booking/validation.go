package create_booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/pkg/types"
)

// validateRequest валидирует входные данные запроса и возвращает время начала
func validateRequest(req *Request) (types.TimeOfDay, error) {
	if strings.TrimSpace(req.BusinessID) == "" {
		return 0, fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		return 0, fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return 0, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	start, err := types.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return 0, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	if len(req.Customer.Name) > domain.MaxNameLength {
		return 0, fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if email := strings.TrimSpace(req.Customer.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return 0, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return 0, fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return start, nil
}

// validateForm проверяет обязательные поля и ответы на поля формы бизнеса.
// Возвращает ответы в том виде, в каком они прошли проверку.
func validateForm(form domain.BookingForm, req *Request) (map[string]string, error) {
	message := ""
	if req.Notes != nil {
		message = *req.Notes
	}

	answers, err := form.ValidateSubmission(domain.Submission{
		Name:    req.Customer.Name,
		Email:   req.Customer.Email,
		Phone:   req.Customer.Phone,
		Message: message,
		Answers: req.CustomFields,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return answers, nil
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

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
