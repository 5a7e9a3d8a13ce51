package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/pkg/dbmetrics"
	"github.com/m04kA/appointweb-booking/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"business_id",
	"service_id",
	"service_name",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"status",
	"customer_name",
	"customer_email",
	"customer_phone",
	"notes",
	"custom_fields",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository хранилище записей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись. Если ID пуст, генерируется UUID.
// Внутри транзакции (см. txmanager) вставка видна только после коммита.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}

	customFields, err := encodeCustomFields(appt.CustomFields)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"business_id",
			"service_id",
			"service_name",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"status",
			"customer_name",
			"customer_email",
			"customer_phone",
			"notes",
			"custom_fields",
		).
		Values(
			appt.ID,
			appt.BusinessID,
			appt.ServiceID,
			appt.ServiceName,
			appt.DateString(),
			appt.StartTime,
			appt.DurationMinutes,
			appt.Status,
			appt.Customer.Name,
			appt.Customer.Email,
			appt.Customer.Phone,
			appt.Notes,
			customFields,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&appt.CreatedAt, &appt.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID возвращает запись бизнеса по ID
func (r *Repository) GetByID(ctx context.Context, businessID, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// ListActiveByDate возвращает активные (pending, confirmed) записи бизнеса на день,
// отсортированные по времени начала. Это вход движка расчёта слотов.
func (r *Repository) ListActiveByDate(ctx context.Context, businessID string, date time.Time) ([]*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"business_id":      businessID,
			"appointment_date": date.Format(domain.DateFormat),
			"status":           activeStatuses(),
		}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListActiveByDate", query, args)
}

// ListFrom возвращает записи бизнеса начиная с даты from (включительно).
// Отменённые записи включаются только при includeCancelled.
func (r *Repository) ListFrom(ctx context.Context, businessID string, from time.Time, includeCancelled bool) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"appointment_date": from.Format(domain.DateFormat)}).
		OrderBy("appointment_date ASC", "start_time ASC")

	if !includeCancelled {
		builder = builder.Where(squirrel.Eq{"status": activeStatuses()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFrom - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListFrom", query, args)
}

// Cancel отменяет активную запись с указанием причины.
// Запись, которая уже отменена, считается не найденной.
func (r *Repository) Cancel(ctx context.Context, businessID, id string, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "business_id": businessID, "status": activeStatuses()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Delete удаляет запись без возможности восстановления. Статус не важен.
func (r *Repository) Delete(ctx context.Context, businessID, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt         domain.Appointment
		customFields []byte
	)

	err := row.Scan(
		&appt.ID,
		&appt.BusinessID,
		&appt.ServiceID,
		&appt.ServiceName,
		&appt.Date,
		&appt.StartTime,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.Customer.Name,
		&appt.Customer.Email,
		&appt.Customer.Phone,
		&appt.Notes,
		&customFields,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CustomFields, err = decodeCustomFields(customFields)
	if err != nil {
		return nil, err
	}

	return &appt, nil
}

func encodeCustomFields(answers map[string]string) (string, error) {
	if len(answers) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeCustomFields(data []byte) (map[string]string, error) {
	answers := make(map[string]string)
	if len(data) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("decode custom_fields: %w", err)
	}
	return answers, nil
}

func activeStatuses() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}
