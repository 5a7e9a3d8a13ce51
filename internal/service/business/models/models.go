package models

import (
	"time"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

// Request модели

// RegisterRequest запрос на регистрацию бизнеса
type RegisterRequest struct {
	OwnerID string `json:"-"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	BusinessID      string  `json:"-"`
	UserID          string  `json:"-"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// UpdateServiceRequest запрос на изменение услуги
type UpdateServiceRequest struct {
	BusinessID      string  `json:"-"`
	ServiceID       string  `json:"-"`
	UserID          string  `json:"-"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// UpdateCustomURLRequest запрос на смену адреса страницы записи
type UpdateCustomURLRequest struct {
	BusinessID string `json:"-"`
	UserID     string `json:"-"`
	CustomURL  string `json:"customUrl"`
}

// Response модели

// ServiceResponse услуга бизнеса
type ServiceResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BusinessResponse публичный профиль бизнеса
type BusinessResponse struct {
	ID           string              `json:"id"`
	CustomURL    string              `json:"customUrl"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Status       string              `json:"status"`
	WorkingHours domain.WorkingHours `json:"workingHours"`
	Services     []ServiceResponse   `json:"services"`
	BookingForm  domain.BookingForm  `json:"bookingForm"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// CustomURLResponse адрес страницы записи бизнеса
type CustomURLResponse struct {
	BusinessID string `json:"businessId"`
	CustomURL  string `json:"customUrl"`
}

// WorkingHoursResponse расписание работы бизнеса
type WorkingHoursResponse struct {
	BusinessID   string              `json:"businessId"`
	WorkingHours domain.WorkingHours `json:"workingHours"`
}

// Методы конвертации

// FromDomainService конвертирует услугу в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		CreatedAt:       s.CreatedAt,
	}
}

// FromDomainBusiness конвертирует бизнес в DTO
func FromDomainBusiness(b *domain.Business) *BusinessResponse {
	if b == nil {
		return nil
	}

	services := make([]ServiceResponse, 0, len(b.Services))
	for i := range b.Services {
		services = append(services, *FromDomainService(&b.Services[i]))
	}

	form := b.BookingForm
	if form.CustomFields == nil {
		form.CustomFields = domain.CustomFields{}
	}

	return &BusinessResponse{
		ID:           b.ID,
		CustomURL:    b.CustomURL,
		Name:         b.Name,
		Email:        b.Email,
		Status:       string(b.Status),
		WorkingHours: b.WorkingHours,
		Services:     services,
		BookingForm:  form,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
