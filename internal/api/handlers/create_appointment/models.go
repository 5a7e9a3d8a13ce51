package create_appointment

import (
	"time"

	"github.com/m04kA/appointweb-booking/internal/domain"
	createBooking "github.com/m04kA/appointweb-booking/internal/usecase/create_booking"
)

// CustomerRequest контакты клиента
type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID    string            `json:"serviceId"`
	Date         string            `json:"date"` // "2026-10-19"
	Time         string            `json:"time"` // "10:00"
	Customer     CustomerRequest   `json:"customer"`
	Notes        *string           `json:"notes,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              string            `json:"id"`
	BusinessID      string            `json:"businessId"`
	ServiceID       string            `json:"serviceId"`
	ServiceName     string            `json:"serviceName"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	EndTime         string            `json:"endTime"`
	DurationMinutes int               `json:"durationMinutes"`
	Status          string            `json:"status"`
	Customer        CustomerResponse  `json:"customer"`
	Notes           *string           `json:"notes,omitempty"`
	CustomFields    map[string]string `json:"customFields,omitempty"`
	CreatedAt       string            `json:"createdAt"`
}

// CustomerResponse контакты клиента в ответе
type CustomerResponse struct {
	Name  string  `json:"name,omitempty"`
	Email string  `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(businessID string) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		BusinessID: businessID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  r.Time,
		Customer: createBooking.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Notes:        r.Notes,
		CustomFields: r.CustomFields,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Customer: CustomerResponse{
			Name:  resp.CustomerName,
			Email: resp.CustomerEmail,
			Phone: resp.CustomerPhone,
		},
		Notes:        resp.Notes,
		CustomFields: resp.CustomFields,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
