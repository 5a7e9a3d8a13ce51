package business

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/pkg/dbmetrics"
	"github.com/m04kA/appointweb-booking/pkg/psqlbuilder"
)

const (
	businessesTable = "businesses"
	servicesTable   = "services"

	uniqueViolation     = "23505"
	customURLConstraint = "businesses_custom_url_key"
)

var businessColumns = []string{
	"id",
	"owner_id",
	"custom_url",
	"name",
	"email",
	"status",
	"working_hours",
	"booking_form",
	"created_at",
	"updated_at",
}

var serviceColumns = []string{
	"id",
	"business_id",
	"name",
	"description",
	"duration_minutes",
	"price",
	"created_at",
}

// Repository хранилище бизнесов и их услуг (Schedule Store)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый бизнес. Услуги сохраняются отдельно через CreateService.
func (r *Repository) Create(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	hours, err := json.Marshal(b.WorkingHours)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - working_hours: %v", ErrEncode, err)
	}
	form, err := json.Marshal(b.BookingForm)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - booking_form: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(businessesTable).
		Columns("id", "owner_id", "custom_url", "name", "email", "status", "working_hours", "booking_form").
		Values(b.ID, b.OwnerID, b.CustomURL, b.Name, b.Email, b.Status, string(hours), string(form)).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		if isUniqueViolation(err, customURLConstraint) {
			return nil, ErrCustomURLTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if b.Services == nil {
		b.Services = []domain.Service{}
	}
	return b, nil
}

// GetByID возвращает бизнес вместе с услугами
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	return r.get(ctx, "GetByID", id, false)
}

// LockForUpdate читает бизнес с блокировкой строки (SELECT ... FOR UPDATE).
// Пока транзакция открыта, другие бронирования этого бизнеса ждут.
func (r *Repository) LockForUpdate(ctx context.Context, id string) (*domain.Business, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}
	return r.get(ctx, "LockForUpdate", id, true)
}

func (r *Repository) get(ctx context.Context, op, id string, forUpdate bool) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(businessColumns...).
		From(businessesTable).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	b, err := scanBusiness(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan business: %w", ErrScanRow, op, err)
	}

	b.Services, err = r.listServices(ctx, op, id)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// UpdateCustomURL меняет адрес страницы записи
func (r *Repository) UpdateCustomURL(ctx context.Context, id, customURL string) error {
	return r.updateColumn(ctx, "UpdateCustomURL", id, "custom_url", customURL)
}

// UpdateWorkingHours заменяет недельное расписание
func (r *Repository) UpdateWorkingHours(ctx context.Context, id string, hours domain.WorkingHours) error {
	data, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours: %v", ErrEncode, err)
	}
	return r.updateColumn(ctx, "UpdateWorkingHours", id, "working_hours", string(data))
}

// UpdateBookingForm заменяет форму бронирования
func (r *Repository) UpdateBookingForm(ctx context.Context, id string, form domain.BookingForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingForm: %v", ErrEncode, err)
	}
	return r.updateColumn(ctx, "UpdateBookingForm", id, "booking_form", string(data))
}

func (r *Repository) updateColumn(ctx context.Context, op, id, column string, value interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(businessesTable).
		Set(column, value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, customURLConstraint) {
			return ErrCustomURLTaken
		}
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	return expectRow(result, op, ErrBusinessNotFound)
}

// CreateService добавляет услугу бизнесу
func (r *Repository) CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(servicesTable).
		Columns("id", "business_id", "name", "description", "duration_minutes", "price").
		Values(s.ID, s.BusinessID, s.Name, s.Description, s.DurationMinutes, s.Price).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("%w: CreateService - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}

// UpdateService заменяет поля услуги. Удаленные услуги не изменяются.
func (r *Repository) UpdateService(ctx context.Context, s *domain.Service) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(servicesTable).
		Set("name", s.Name).
		Set("description", s.Description).
		Set("duration_minutes", s.DurationMinutes).
		Set("price", s.Price).
		Where(squirrel.Eq{"id": s.ID, "business_id": s.BusinessID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateService - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateService - execute update: %w", ErrExecQuery, err)
	}

	return expectRow(result, "UpdateService", ErrServiceNotFound)
}

// DeleteService помечает услугу удаленной. Строка остается, на нее ссылаются прошлые записи.
func (r *Repository) DeleteService(ctx context.Context, businessID, serviceID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(servicesTable).
		Set("deleted_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": serviceID, "business_id": businessID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteService - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteService - execute update: %w", ErrExecQuery, err)
	}

	return expectRow(result, "DeleteService", ErrServiceNotFound)
}

func (r *Repository) listServices(ctx context.Context, op, businessID string) ([]domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From(servicesTable).
		Where(squirrel.Eq{"business_id": businessID, "deleted_at": nil}).
		OrderBy("created_at ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build services query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute services query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.Description, &s.DurationMinutes, &s.Price, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan service: %w", ErrScanRow, op, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - services rows error: %w", ErrScanRow, op, err)
	}

	return services, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row rowScanner) (*domain.Business, error) {
	var (
		b           domain.Business
		hours, form []byte
	)

	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.CustomURL,
		&b.Name,
		&b.Email,
		&b.Status,
		&hours,
		&form,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeJSONB(hours, &b.WorkingHours); err != nil {
		return nil, fmt.Errorf("working_hours: %w", err)
	}
	if b.WorkingHours == nil {
		b.WorkingHours = domain.WorkingHours{}
	}

	b.BookingForm = domain.DefaultBookingForm()
	if err := decodeJSONB(form, &b.BookingForm); err != nil {
		return nil, fmt.Errorf("booking_form: %w", err)
	}

	return &b, nil
}

func decodeJSONB(data []byte, dst interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// expectRow возвращает notFound, если запрос не затронул ни одной строки
func expectRow(result sql.Result, op string, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}
