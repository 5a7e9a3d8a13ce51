package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/appointweb-booking/internal/availability"
	"github.com/m04kA/appointweb-booking/internal/domain"
	businessRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/business"
)

// UseCase use case получения слотов на день для услуги бизнеса
type UseCase struct {
	businesses   BusinessReader
	appointments AppointmentRepository
	policy       domain.BookingPolicy
	metrics      SlotMetrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businesses BusinessReader,
	appointments AppointmentRepository,
	policy domain.BookingPolicy,
	metrics SlotMetrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		businesses:   businesses,
		appointments: appointments,
		policy:       policy,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов.
// Закрытый день не ошибка: возвращается пустой список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%s, service=%s, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Прошедшие дни и дни за пределами окна бронирования отклоняются
	if err := uc.policy.ValidateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, mapDateError(err)
	}

	// 3. Бизнес с расписанием и услугами
	business, err := uc.businesses.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%s not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive() {
		uc.logger.Warn("GetAvailableSlots: business id=%s is %s", req.BusinessID, business.Status)
		return nil, ErrBusinessInactive
	}

	// 4. Длительность услуги определяет длину слота
	service, ok := business.FindService(req.ServiceID)
	if !ok {
		uc.logger.Warn("GetAvailableSlots: service id=%s not found in business id=%s", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	// 5. Активные записи на день
	appointments, err := uc.appointments.ListActiveByDate(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Расчёт слотов
	slots, err := availability.ComputeSlots(req.Date, business.WorkingHours, availability.FromAppointments(appointments), service.DurationMinutes)
	if err != nil {
		uc.metrics.IncSlotComputation("error")
		uc.logger.Error("GetAvailableSlots: failed to compute slots for business id=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 7. Сегодня слоты внутри окна минимального уведомления не показываются
	slots = uc.policy.FilterNotice(req.Date, now, slots)

	outcome := "ok"
	if len(slots) == 0 {
		outcome = "empty"
	}
	uc.metrics.IncSlotComputation(outcome)

	uc.logger.Info("GetAvailableSlots: %d slots (%d available) for business=%s, service=%s, date=%s",
		len(slots), domain.CountAvailable(slots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		ServiceName:     service.Name,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
