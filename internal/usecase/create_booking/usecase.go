package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/appointweb-booking/internal/availability"
	"github.com/m04kA/appointweb-booking/internal/domain"
	businessRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/business"
)

// UseCase use case создания записи на выбранный слот
type UseCase struct {
	businesses   BusinessRepository
	appointments AppointmentRepository
	publisher    EventPublisher
	txManager    TransactionManager
	policy       domain.BookingPolicy
	metrics      BookingMetrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businesses BusinessRepository,
	appointments AppointmentRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	policy domain.BookingPolicy,
	metrics BookingMetrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		businesses:   businesses,
		appointments: appointments,
		publisher:    publisher,
		txManager:    txManager,
		policy:       policy,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает запись.
// Проверка слота и вставка выполняются в одной сериализуемой транзакции под
// блокировкой строки бизнеса, поэтому два клиента не могут занять
// пересекающиеся интервалы.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: business=%s, service=%s, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	start, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncBooking("invalid")
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Прошедшие дни и дни за пределами окна бронирования
	if err := uc.policy.ValidateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		uc.metrics.IncBooking("invalid")
		return nil, mapDateError(err)
	}

	var created *domain.Appointment

	// 3. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем бизнес: бронирования одного бизнеса выполняются по очереди
		business, err := uc.businesses.LockForUpdate(txCtx, req.BusinessID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrBusinessNotFound) {
				uc.logger.Warn("CreateBooking: business id=%s not found", req.BusinessID)
				return ErrBusinessNotFound
			}
			uc.logger.Error("CreateBooking: failed to lock business id=%s: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to lock business: %w", ErrInternal, err)
		}
		if !business.IsActive() {
			uc.logger.Warn("CreateBooking: business id=%s is %s", req.BusinessID, business.Status)
			return ErrBusinessInactive
		}

		// 3.2. Услуга и форма
		service, ok := business.FindService(req.ServiceID)
		if !ok {
			uc.logger.Warn("CreateBooking: service id=%s not found in business id=%s", req.ServiceID, req.BusinessID)
			return ErrServiceNotFound
		}
		answers, err := validateForm(business.BookingForm, req)
		if err != nil {
			uc.logger.Warn("CreateBooking: booking form validation failed: %v", err)
			return err
		}

		// 3.3. Перечитываем записи дня и пересчитываем слоты
		appointments, err := uc.appointments.ListActiveByDate(txCtx, req.BusinessID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		slots, err := availability.ComputeSlots(req.Date, business.WorkingHours, availability.FromAppointments(appointments), service.DurationMinutes)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to compute slots for business id=%s: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
		}

		// 3.4. Время должно совпадать с началом слота дня
		slot, ok := domain.FindSlot(slots, start)
		if !ok {
			uc.logger.Warn("CreateBooking: %s is not a slot start on %s", start, req.Date.Format(domain.DateFormat))
			return ErrInvalidTimeSlot
		}
		if uc.policy.TooLateToBook(req.Date, now, start.Minutes()) {
			uc.logger.Warn("CreateBooking: slot %s is inside the %d minute notice window", start, uc.policy.MinNoticeMinutes)
			return ErrTooLateToBook
		}
		if !slot.Available {
			uc.logger.Warn("CreateBooking: slot %s on %s overlaps an existing appointment", start, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		// 3.5. Сохраняем запись
		appt := &domain.Appointment{
			BusinessID:      business.ID,
			ServiceID:       service.ID,
			ServiceName:     service.Name,
			Date:            domain.CivilDate(req.Date),
			StartTime:       start,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Customer: domain.Customer{
				Name:  strings.TrimSpace(req.Customer.Name),
				Email: strings.TrimSpace(req.Customer.Email),
				Phone: optional(req.Customer.Phone),
			},
			Notes:        req.Notes,
			CustomFields: answers,
		}

		created, err = uc.appointments.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.metrics.IncBooking(outcomeOf(err))
		if !isKnown(err) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.metrics.IncBooking("created")
	uc.logger.Info("CreateBooking: created appointment id=%s for business=%s at %s %s",
		created.ID, created.BusinessID, created.DateString(), created.StartTime)

	// 4. Событие публикуется после коммита; ошибка публикации не отменяет запись
	if err := uc.publisher.PublishAppointmentCreated(ctx, created); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event for appointment id=%s: %v", created.ID, err)
	}

	return toResponse(created), nil
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		ServiceName:     a.ServiceName,
		Date:            a.Date,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		CustomerName:    a.Customer.Name,
		CustomerEmail:   a.Customer.Email,
		CustomerPhone:   a.Customer.Phone,
		Notes:           a.Notes,
		CustomFields:    a.CustomFields,
		CreatedAt:       a.CreatedAt,
	}
}

var knownErrors = []error{
	ErrBusinessNotFound,
	ErrBusinessInactive,
	ErrServiceNotFound,
	ErrInvalidTimeSlot,
	ErrSlotNotAvailable,
	ErrTooLateToBook,
	ErrInvalidInput,
	ErrInternal,
}

func isKnown(err error) bool {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		return "slot_taken"
	case errors.Is(err, ErrInvalidTimeSlot), errors.Is(err, ErrTooLateToBook), errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrBusinessNotFound), errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrBusinessInactive):
		return "not_found"
	default:
		return "error"
	}
}
