package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/pkg/metrics"
)

// NewKafkaWriter создает writer без фиксированного топика: топик задаётся в сообщении.
// Ключ сообщения (ID записи) определяет партицию.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// Publisher публикует события записей в Kafka
type Publisher struct {
	writer  Writer
	logger  Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewPublisher создает издателя. m может быть nil.
func NewPublisher(writer Writer, logger Logger, m *metrics.Metrics) *Publisher {
	return &Publisher{
		writer:  writer,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// PublishAppointmentCreated публикует событие appointment.created
func (p *Publisher) PublishAppointmentCreated(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, TopicAppointmentCreated, appt)
}

// PublishAppointmentCancelled публикует событие appointment.cancelled
func (p *Publisher) PublishAppointmentCancelled(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, TopicAppointmentCancelled, appt)
}

// Close закрывает writer, дожидаясь отправки буфера
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, topic string, appt *domain.Appointment) error {
	event := newAppointmentEvent(topic, appt, p.now().UTC())

	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.IncEvent(topic, "error")
		return fmt.Errorf("%w: %s: %v", ErrEncode, topic, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(appt.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(topic)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.IncEvent(topic, "error")
		return fmt.Errorf("%w: %s: %v", ErrPublish, topic, err)
	}

	p.metrics.IncEvent(topic, "ok")
	p.logger.Info("Published %s for appointment %s (event %s)", topic, appt.ID, event.EventID)
	return nil
}

func newAppointmentEvent(topic string, appt *domain.Appointment, now time.Time) AppointmentEvent {
	return AppointmentEvent{
		EventID:            uuid.NewString(),
		EventType:          topic,
		OccurredAt:         now,
		AppointmentID:      appt.ID,
		BusinessID:         appt.BusinessID,
		ServiceID:          appt.ServiceID,
		ServiceName:        appt.ServiceName,
		Date:               appt.DateString(),
		StartTime:          appt.StartTime.String(),
		DurationMinutes:    appt.DurationMinutes,
		Status:             string(appt.Status),
		CustomerName:       appt.Customer.Name,
		CustomerEmail:      appt.Customer.Email,
		CancellationReason: appt.CancellationReason,
	}
}

// NoopPublisher используется, когда Kafka выключена
type NoopPublisher struct{}

func (NoopPublisher) PublishAppointmentCreated(context.Context, *domain.Appointment) error {
	return nil
}

func (NoopPublisher) PublishAppointmentCancelled(context.Context, *domain.Appointment) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
