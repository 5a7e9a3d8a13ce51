package models

import (
	"time"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// Request модели

// ListRequest запрос на список записей бизнеса
type ListRequest struct {
	BusinessID       string
	UserID           string
	From             *time.Time // nil = сегодня
	IncludeCancelled bool
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	BusinessID    string  `json:"-"`
	AppointmentID string  `json:"-"`
	UserID        string  `json:"-"`
	Reason        *string `json:"reason,omitempty"`
}

// Response модели

// CustomerResponse контакты клиента
type CustomerResponse struct {
	Name  string  `json:"name,omitempty"`
	Email string  `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// AppointmentResponse запись клиента
type AppointmentResponse struct {
	ID                 string            `json:"id"`
	BusinessID         string            `json:"businessId"`
	ServiceID          string            `json:"serviceId"`
	ServiceName        string            `json:"serviceName"`
	Date               string            `json:"date"`
	Time               string            `json:"time"`
	EndTime            string            `json:"endTime"`
	DurationMinutes    int               `json:"durationMinutes"`
	Status             string            `json:"status"`
	Customer           CustomerResponse  `json:"customer"`
	Notes              *string           `json:"notes,omitempty"`
	CustomFields       map[string]string `json:"customFields,omitempty"`
	CancellationReason *string           `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time        `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		ServiceName:     a.ServiceName,
		Date:            a.DateString(),
		Time:            a.StartTime.String(),
		EndTime:         a.EndTime().String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Customer: CustomerResponse{
			Name:  a.Customer.Name,
			Email: a.Customer.Email,
			Phone: a.Customer.Phone,
		},
		Notes:              a.Notes,
		CustomFields:       a.CustomFields,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список записей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		if a != nil {
			out = append(out, *FromDomainAppointment(a))
		}
	}
	return &AppointmentListResponse{Appointments: out, Total: len(out)}
}
