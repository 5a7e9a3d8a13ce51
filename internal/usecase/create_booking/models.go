package create_booking

import (
	"time"

	"github.com/m04kA/appointweb-booking/pkg/types"
)

// Customer контактные данные клиента из формы
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Request модель запроса на создание записи
type Request struct {
	BusinessID   string
	ServiceID    string
	Date         time.Time // дата без времени
	StartTime    string    // "HH:MM", начало выбранного слота
	Customer     Customer
	Notes        *string
	CustomFields map[string]string // id поля формы -> ответ
}

// Response модель созданной записи
type Response struct {
	ID              string
	BusinessID      string
	ServiceID       string
	ServiceName     string
	Date            time.Time
	StartTime       types.TimeOfDay
	EndTime         types.TimeOfDay
	DurationMinutes int
	Status          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	Notes           *string
	CustomFields    map[string]string
	CreatedAt       time.Time
}
