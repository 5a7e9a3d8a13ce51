package events

import "time"

// Топики событий записей
const (
	TopicAppointmentCreated   = "appointment.created"
	TopicAppointmentCancelled = "appointment.cancelled"
)

// AppointmentEvent тело сообщения о создании или отмене записи
type AppointmentEvent struct {
	EventID            string    `json:"eventId"`
	EventType          string    `json:"eventType"`
	OccurredAt         time.Time `json:"occurredAt"`
	AppointmentID      string    `json:"appointmentId"`
	BusinessID         string    `json:"businessId"`
	ServiceID          string    `json:"serviceId"`
	ServiceName        string    `json:"serviceName"`
	Date               string    `json:"date"`
	StartTime          string    `json:"startTime"`
	DurationMinutes    int       `json:"durationMinutes"`
	Status             string    `json:"status"`
	CustomerName       string    `json:"customerName"`
	CustomerEmail      string    `json:"customerEmail"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
}
