package business

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/appointweb-booking/internal/domain"
	businessRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/business"
	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

// Service сервис управления бизнесом: профиль, расписание, услуги и форма записи
type Service struct {
	repo   BusinessRepository
	cache  ProfileCache
	logger Logger
}

// NewService создает новый экземпляр сервиса бизнесов
func NewService(repo BusinessRepository, cache ProfileCache, logger Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Register регистрирует бизнес с расписанием и формой по умолчанию.
// Адрес страницы строится из названия.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.BusinessResponse, error) {
	s.logger.Info("Register: registering business name=%q by user=%s", req.Name, req.OwnerID)

	// 1. Валидируем входные данные
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > domain.MaxNameLength {
		s.logger.Warn("Register: invalid name %q", req.Name)
		return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.logger.Warn("Register: invalid email %q", req.Email)
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	customURL := domain.Slugify(name)
	if customURL == "" {
		s.logger.Warn("Register: name %q gives an empty custom url", req.Name)
		return nil, fmt.Errorf("%w: name must contain letters or digits", ErrInvalidInput)
	}

	// 2. Создаем бизнес
	created, err := s.repo.Create(ctx, &domain.Business{
		OwnerID:      req.OwnerID,
		CustomURL:    customURL,
		Name:         name,
		Email:        strings.TrimSpace(req.Email),
		Status:       domain.BusinessActive,
		WorkingHours: domain.DefaultWorkingHours(),
		Services:     []domain.Service{},
		BookingForm:  domain.DefaultBookingForm(),
	})
	if err != nil {
		if errors.Is(err, businessRepo.ErrCustomURLTaken) {
			s.logger.Warn("Register: custom url %q is taken", customURL)
			return nil, ErrCustomURLTaken
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: successfully registered business id=%s url=%s", created.ID, created.CustomURL)
	return models.FromDomainBusiness(created), nil
}

// Get возвращает публичный профиль бизнеса
func (s *Service) Get(ctx context.Context, businessID string) (*models.BusinessResponse, error) {
	b, err := s.load(ctx, "Get", businessID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBusiness(b), nil
}

// GetWorkingHours возвращает расписание работы бизнеса
func (s *Service) GetWorkingHours(ctx context.Context, businessID string) (*models.WorkingHoursResponse, error) {
	b, err := s.load(ctx, "GetWorkingHours", businessID)
	if err != nil {
		return nil, err
	}
	return &models.WorkingHoursResponse{BusinessID: b.ID, WorkingHours: b.WorkingHours}, nil
}

// UpdateWorkingHours заменяет расписание работы.
// Доступно только владельцу бизнеса.
func (s *Service) UpdateWorkingHours(ctx context.Context, businessID, userID string, hours domain.WorkingHours) (*models.WorkingHoursResponse, error) {
	s.logger.Info("UpdateWorkingHours: business=%s by user=%s", businessID, userID)

	// 1. Валидируем расписание
	if err := hours.Validate(); err != nil {
		s.logger.Warn("UpdateWorkingHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права доступа
	if _, err := s.ownedBusiness(ctx, "UpdateWorkingHours", businessID, userID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	if err := s.repo.UpdateWorkingHours(ctx, businessID, hours); err != nil {
		return nil, s.mapRepoError("UpdateWorkingHours", businessID, err)
	}
	s.invalidate(ctx, "UpdateWorkingHours", businessID)

	s.logger.Info("UpdateWorkingHours: successfully updated business id=%s", businessID)
	return &models.WorkingHoursResponse{BusinessID: businessID, WorkingHours: hours}, nil
}

// CreateService добавляет услугу бизнесу.
// Доступно только владельцу бизнеса.
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: business=%s name=%q by user=%s", req.BusinessID, req.Name, req.UserID)

	// 1. Валидируем входные данные
	if err := validateService(req.Name, req.DurationMinutes, req.Price); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if _, err := s.ownedBusiness(ctx, "CreateService", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Создаем услугу
	created, err := s.repo.CreateService(ctx, &domain.Service{
		BusinessID:      req.BusinessID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	})
	if err != nil {
		return nil, s.mapRepoError("CreateService", req.BusinessID, err)
	}
	s.invalidate(ctx, "CreateService", req.BusinessID)

	s.logger.Info("CreateService: successfully created service id=%s", created.ID)
	return models.FromDomainService(created), nil
}

// UpdateService заменяет название, описание, длительность и цену услуги.
// Уже созданные записи сохраняют свои название и длительность.
// Доступно только владельцу бизнеса.
func (s *Service) UpdateService(ctx context.Context, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: business=%s service=%s by user=%s", req.BusinessID, req.ServiceID, req.UserID)

	// 1. Валидируем входные данные
	if err := validateService(req.Name, req.DurationMinutes, req.Price); err != nil {
		s.logger.Warn("UpdateService: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа и наличие услуги
	b, err := s.ownedBusiness(ctx, "UpdateService", req.BusinessID, req.UserID)
	if err != nil {
		return nil, err
	}
	existing, ok := b.FindService(req.ServiceID)
	if !ok {
		s.logger.Warn("UpdateService: service id=%s not found in business=%s", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	// 3. Сохраняем
	updated := &domain.Service{
		ID:              existing.ID,
		BusinessID:      req.BusinessID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		CreatedAt:       existing.CreatedAt,
	}
	if err := s.repo.UpdateService(ctx, updated); err != nil {
		return nil, s.mapServiceError("UpdateService", req.BusinessID, req.ServiceID, err)
	}
	s.invalidate(ctx, "UpdateService", req.BusinessID)

	s.logger.Info("UpdateService: successfully updated service id=%s", updated.ID)
	return models.FromDomainService(updated), nil
}

// DeleteService убирает услугу из профиля. Прошлые записи на нее сохраняются,
// новые на нее создать нельзя. Доступно только владельцу бизнеса.
func (s *Service) DeleteService(ctx context.Context, businessID, serviceID, userID string) error {
	s.logger.Info("DeleteService: business=%s service=%s by user=%s", businessID, serviceID, userID)

	if _, err := s.ownedBusiness(ctx, "DeleteService", businessID, userID); err != nil {
		return err
	}

	if err := s.repo.DeleteService(ctx, businessID, serviceID); err != nil {
		return s.mapServiceError("DeleteService", businessID, serviceID, err)
	}
	s.invalidate(ctx, "DeleteService", businessID)

	s.logger.Info("DeleteService: successfully deleted service id=%s", serviceID)
	return nil
}

// UpdateCustomURL меняет адрес страницы записи.
// Доступно только владельцу бизнеса.
func (s *Service) UpdateCustomURL(ctx context.Context, req *models.UpdateCustomURLRequest) (*models.CustomURLResponse, error) {
	s.logger.Info("UpdateCustomURL: business=%s url=%q by user=%s", req.BusinessID, req.CustomURL, req.UserID)

	// 1. Валидируем адрес
	customURL := strings.TrimSpace(req.CustomURL)
	if err := domain.ValidateCustomURL(customURL); err != nil {
		s.logger.Warn("UpdateCustomURL: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права доступа
	b, err := s.ownedBusiness(ctx, "UpdateCustomURL", req.BusinessID, req.UserID)
	if err != nil {
		return nil, err
	}
	resp := &models.CustomURLResponse{BusinessID: req.BusinessID, CustomURL: customURL}
	if b.CustomURL == customURL {
		return resp, nil
	}

	// 3. Сохраняем; уникальность проверяет ограничение в БД
	if err := s.repo.UpdateCustomURL(ctx, req.BusinessID, customURL); err != nil {
		if errors.Is(err, businessRepo.ErrCustomURLTaken) {
			s.logger.Warn("UpdateCustomURL: custom url %q is taken", customURL)
			return nil, ErrCustomURLTaken
		}
		return nil, s.mapRepoError("UpdateCustomURL", req.BusinessID, err)
	}
	s.invalidate(ctx, "UpdateCustomURL", req.BusinessID)

	s.logger.Info("UpdateCustomURL: business id=%s now at %s", req.BusinessID, customURL)
	return resp, nil
}

// UpdateBookingForm заменяет форму записи.
// Доступно только владельцу бизнеса.
func (s *Service) UpdateBookingForm(ctx context.Context, businessID, userID string, form domain.BookingForm) (*domain.BookingForm, error) {
	s.logger.Info("UpdateBookingForm: business=%s by user=%s", businessID, userID)

	// 1. Валидируем форму
	if err := form.CustomFields.Validate(); err != nil {
		s.logger.Warn("UpdateBookingForm: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if form.CustomFields == nil {
		form.CustomFields = domain.CustomFields{}
	}

	// 2. Проверяем права доступа
	if _, err := s.ownedBusiness(ctx, "UpdateBookingForm", businessID, userID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	if err := s.repo.UpdateBookingForm(ctx, businessID, form); err != nil {
		return nil, s.mapRepoError("UpdateBookingForm", businessID, err)
	}
	s.invalidate(ctx, "UpdateBookingForm", businessID)

	s.logger.Info("UpdateBookingForm: successfully updated business id=%s", businessID)
	return &form, nil
}

// Вспомогательные методы

// load читает бизнес через кэш
func (s *Service) load(ctx context.Context, op, businessID string) (*domain.Business, error) {
	b, err := s.cache.GetByID(ctx, businessID)
	if err != nil {
		return nil, s.mapRepoError(op, businessID, err)
	}
	return b, nil
}

// ownedBusiness читает бизнес из хранилища в обход кэша и проверяет владельца
func (s *Service) ownedBusiness(ctx context.Context, op, businessID, userID string) (*domain.Business, error) {
	b, err := s.repo.GetByID(ctx, businessID)
	if err != nil {
		return nil, s.mapRepoError(op, businessID, err)
	}
	if !b.IsOwnedBy(userID) {
		s.logger.Warn("%s: user=%s is not the owner of business=%s", op, userID, businessID)
		return nil, ErrAccessDenied
	}
	return b, nil
}

func (s *Service) mapRepoError(op, businessID string, err error) error {
	if errors.Is(err, businessRepo.ErrBusinessNotFound) {
		s.logger.Warn("%s: business id=%s not found", op, businessID)
		return ErrBusinessNotFound
	}
	s.logger.Error("%s: repository error for business id=%s: %v", op, businessID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) mapServiceError(op, businessID, serviceID string, err error) error {
	if errors.Is(err, businessRepo.ErrServiceNotFound) {
		s.logger.Warn("%s: service id=%s not found in business=%s", op, serviceID, businessID)
		return ErrServiceNotFound
	}
	return s.mapRepoError(op, businessID, err)
}

// invalidate сбрасывает профиль в кэше. Ошибка не откатывает изменение:
// устаревшая запись живет не дольше TTL.
func (s *Service) invalidate(ctx context.Context, op, businessID string) {
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		s.logger.Warn("%s: failed to invalidate cache for business id=%s: %v", op, businessID, err)
	}
}

func validateService(name string, durationMinutes int, price float64) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if durationMinutes < domain.MinServiceDurationMinutes || durationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	return nil
}
