package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/appointweb-booking/internal/domain"
)

type fakeRow struct {
	values []interface{}
}

func (f fakeRow) Scan(dest ...interface{}) error {
	for i, v := range f.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *domain.BusinessStatus:
			*d = domain.BusinessStatus(v.(string))
		case *[]byte:
			if v != nil {
				*d = []byte(v.(string))
			}
		case *time.Time:
			*d = v.(time.Time)
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func businessRow(hours, form interface{}) fakeRow {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	return fakeRow{values: []interface{}{
		"b-1", "owner-1", "bellas-salon", "Bella's Salon", "bella@example.com", "active",
		hours, form, now, now,
	}}
}

func TestScanBusiness(t *testing.T) {
	row := businessRow(
		`{"monday":{"isOpen":true,"start":"09:00","end":"13:00"},"sunday":{"isOpen":false,"start":"09:00","end":"17:00"}}`,
		`{"requiredFields":{"name":true,"email":false,"phone":true,"message":false},
		  "customFields":[{"id":"size","label":"Size","type":"select","required":true,"options":["S","M"]}]}`,
	)

	b, err := scanBusiness(row)
	require.NoError(t, err)

	assert.Equal(t, "b-1", b.ID)
	assert.True(t, b.IsActive())
	assert.True(t, b.IsOwnedBy("owner-1"))
	assert.Equal(t, domain.DaySchedule{IsOpen: true, Start: "09:00", End: "13:00"}, b.WorkingHours[domain.Monday])
	assert.False(t, b.WorkingHours[domain.Sunday].IsOpen)
	assert.True(t, b.BookingForm.RequiredFields.Phone)
	assert.False(t, b.BookingForm.RequiredFields.Email)
	require.Len(t, b.BookingForm.CustomFields, 1)
	assert.IsType(t, domain.SelectField{}, b.BookingForm.CustomFields[0])
}

func TestScanBusiness_EmptyJSONBUsesDefaults(t *testing.T) {
	b, err := scanBusiness(businessRow(nil, nil))
	require.NoError(t, err)

	assert.NotNil(t, b.WorkingHours)
	assert.Empty(t, b.WorkingHours)
	assert.Equal(t, domain.DefaultBookingForm(), b.BookingForm)
}

func TestScanBusiness_InvalidJSONB(t *testing.T) {
	_, err := scanBusiness(businessRow(`{"monday":`, nil))
	assert.Error(t, err)

	_, err = scanBusiness(businessRow(nil, `{"customFields":[{"id":"a","label":"A","type":"checkbox","options":["x"]}]}`))
	assert.ErrorIs(t, err, domain.ErrInvalidCustomField)
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: customURLConstraint})
	assert.True(t, isUniqueViolation(err, customURLConstraint))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, "other_key"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}

type execCall struct {
	query string
	args  []interface{}
}

// fakeExecutor отвечает на ExecContext заданным результатом; чтение не поддерживается
type fakeExecutor struct {
	DBExecutor
	rows  int64
	err   error
	calls []execCall
}

func (f *fakeExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return sql.Result(driverResult(f.rows)), nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestUpdateCustomURL(t *testing.T) {
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		db := &fakeExecutor{rows: 1}
		require.NoError(t, NewRepository(db).UpdateCustomURL(ctx, "b-1", "bella"))

		require.Len(t, db.calls, 1)
		assert.Contains(t, db.calls[0].query, "UPDATE businesses SET custom_url = $1")
		assert.Equal(t, []interface{}{"bella", "b-1"}, db.calls[0].args)
	})

	t.Run("taken", func(t *testing.T) {
		db := &fakeExecutor{err: &pq.Error{Code: "23505", Constraint: customURLConstraint}}
		err := NewRepository(db).UpdateCustomURL(ctx, "b-1", "bella")
		assert.ErrorIs(t, err, ErrCustomURLTaken)
	})

	t.Run("business missing", func(t *testing.T) {
		err := NewRepository(&fakeExecutor{}).UpdateCustomURL(ctx, "b-1", "bella")
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("other error keeps cause", func(t *testing.T) {
		cause := &pq.Error{Code: "40001"}
		err := NewRepository(&fakeExecutor{err: cause}).UpdateCustomURL(ctx, "b-1", "bella")
		assert.ErrorIs(t, err, ErrExecQuery)
		var pqErr *pq.Error
		require.ErrorAs(t, err, &pqErr)
		assert.Equal(t, cause, pqErr)
	})
}

func TestUpdateService(t *testing.T) {
	ctx := context.Background()
	desc := "Wash and cut"
	svc := &domain.Service{ID: "s-1", BusinessID: "b-1", Name: "Haircut", Description: &desc, DurationMinutes: 45, Price: 30}

	db := &fakeExecutor{rows: 1}
	require.NoError(t, NewRepository(db).UpdateService(ctx, svc))
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "UPDATE services SET")
	assert.Contains(t, db.calls[0].query, "deleted_at IS NULL")

	err := NewRepository(&fakeExecutor{}).UpdateService(ctx, svc)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDeleteService(t *testing.T) {
	ctx := context.Background()

	db := &fakeExecutor{rows: 1}
	require.NoError(t, NewRepository(db).DeleteService(ctx, "b-1", "s-1"))
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "SET deleted_at = NOW()")
	assert.Contains(t, db.calls[0].query, "deleted_at IS NULL")
	assert.ElementsMatch(t, []interface{}{"b-1", "s-1"}, db.calls[0].args)

	err := NewRepository(&fakeExecutor{}).DeleteService(ctx, "b-1", "s-1")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
