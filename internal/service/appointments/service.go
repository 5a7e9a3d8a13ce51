package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/appointweb-booking/internal/domain"
	appointmentRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/business"
	"github.com/m04kA/appointweb-booking/internal/service/appointments/models"
)

// Service сервис записей бизнеса: просмотр, отмена и удаление владельцем
type Service struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessReader
	publisher       EventPublisher
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessReader,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		publisher:       publisher,
		txManager:       txManager,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// ListUpcoming возвращает записи бизнеса начиная с даты From (по умолчанию сегодня)
// в порядке возрастания. Доступно только владельцу бизнеса.
func (s *Service) ListUpcoming(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	from := domain.CivilDate(s.timeProvider.Now())
	if req.From != nil {
		from = domain.CivilDate(*req.From)
	}
	s.logger.Info("ListUpcoming: business=%s from=%s by user=%s", req.BusinessID, from.Format(domain.DateFormat), req.UserID)

	if err := s.checkOwner(ctx, "ListUpcoming", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	list, err := s.appointmentRepo.ListFrom(ctx, req.BusinessID, from, req.IncludeCancelled)
	if err != nil {
		s.logger.Error("ListUpcoming: repository error for business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListUpcoming - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListUpcoming: successfully fetched %d appointments for business=%s", len(list), req.BusinessID)
	return models.FromDomainAppointmentList(list), nil
}

// GetByID возвращает запись бизнеса. Доступно только владельцу бизнеса.
func (s *Service) GetByID(ctx context.Context, businessID, appointmentID, userID string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s of business=%s by user=%s", appointmentID, businessID, userID)

	if err := s.checkOwner(ctx, "GetByID", businessID, userID); err != nil {
		return nil, err
	}

	appt, err := s.getAppointment(ctx, "GetByID", businessID, appointmentID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// Cancel отменяет запись. Отменить можно только ожидающую или подтверждённую запись.
// После коммита публикуется событие appointment.cancelled.
func (s *Service) Cancel(ctx context.Context, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s of business=%s by user=%s", req.AppointmentID, req.BusinessID, req.UserID)

	// 1. Валидируем причину
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// 2. Проверяем права доступа
	if err := s.checkOwner(ctx, "Cancel", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	var cancelled *domain.Appointment

	// 3. Проверка статуса и отмена в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.getAppointment(txCtx, "Cancel", req.BusinessID, req.AppointmentID)
		if err != nil {
			return err
		}
		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%s has status %s", appt.ID, appt.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, req.BusinessID, req.AppointmentID, req.Reason); err != nil {
			// запись успели отменить между чтением и обновлением
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for appointment id=%s: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		now := s.timeProvider.Now()
		appt.Status = domain.StatusCancelled
		appt.CancellationReason = req.Reason
		appt.CancelledAt = &now
		appt.UpdatedAt = now
		cancelled = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrCannotCancel) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("Cancel: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.publisher.PublishAppointmentCancelled(ctx, cancelled); err != nil {
		s.logger.Error("Cancel: failed to publish event for appointment id=%s: %v", cancelled.ID, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", cancelled.ID)
	return models.FromDomainAppointment(cancelled), nil
}

// Delete удаляет запись. Удалить можно запись в любом статусе.
// Если запись еще занимала время, после коммита публикуется appointment.cancelled,
// чтобы подписчики освободили слот.
func (s *Service) Delete(ctx context.Context, businessID, appointmentID, userID string) error {
	s.logger.Info("Delete: deleting appointment id=%s of business=%s by user=%s", appointmentID, businessID, userID)

	if err := s.checkOwner(ctx, "Delete", businessID, userID); err != nil {
		return err
	}

	var deleted *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.getAppointment(txCtx, "Delete", businessID, appointmentID)
		if err != nil {
			return err
		}

		if err := s.appointmentRepo.Delete(txCtx, businessID, appointmentID); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Delete: repository error for appointment id=%s: %v", appointmentID, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		deleted = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrInternal) {
			return err
		}
		s.logger.Error("Delete: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if deleted.IsActive() {
		now := s.timeProvider.Now()
		deleted.Status = domain.StatusCancelled
		deleted.CancelledAt = &now
		deleted.UpdatedAt = now
		if err := s.publisher.PublishAppointmentCancelled(ctx, deleted); err != nil {
			s.logger.Error("Delete: failed to publish event for appointment id=%s: %v", deleted.ID, err)
		}
	}

	s.logger.Info("Delete: successfully deleted appointment id=%s", appointmentID)
	return nil
}

// Вспомогательные методы

func (s *Service) checkOwner(ctx context.Context, op, businessID, userID string) error {
	b, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%s not found", op, businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%s: %v", op, businessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !b.IsOwnedBy(userID) {
		s.logger.Warn("%s: user=%s is not the owner of business=%s", op, userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) getAppointment(ctx context.Context, op, businessID, id string) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found in business=%s", op, id, businessID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}
