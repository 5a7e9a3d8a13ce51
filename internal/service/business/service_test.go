package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/appointweb-booking/internal/domain"
	businessRepo "github.com/m04kA/appointweb-booking/internal/infra/storage/business"
	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	args := m.Called(ctx, b)
	if r := args.Get(0); r != nil {
		return r.(*domain.Business), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Business), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) UpdateWorkingHours(ctx context.Context, id string, hours domain.WorkingHours) error {
	return m.Called(ctx, id, hours).Error(0)
}

func (m *mockRepo) UpdateBookingForm(ctx context.Context, id string, form domain.BookingForm) error {
	return m.Called(ctx, id, form).Error(0)
}

func (m *mockRepo) CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, s)
	if r := args.Get(0); r != nil {
		return r.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) UpdateService(ctx context.Context, s *domain.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockRepo) DeleteService(ctx context.Context, businessID, serviceID string) error {
	return m.Called(ctx, businessID, serviceID).Error(0)
}

func (m *mockRepo) UpdateCustomURL(ctx context.Context, id, customURL string) error {
	return m.Called(ctx, id, customURL).Error(0)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Business), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCache) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService() (*Service, *mockRepo, *mockCache) {
	repo := &mockRepo{}
	cache := &mockCache{}
	return NewService(repo, cache, nopLogger{}), repo, cache
}

func ownedBusiness() *domain.Business {
	return &domain.Business{
		ID:           "b-1",
		OwnerID:      "owner-1",
		CustomURL:    "bellas-salon",
		Name:         "Bella's Salon",
		Status:       domain.BusinessActive,
		WorkingHours: domain.DefaultWorkingHours(),
		BookingForm:  domain.DefaultBookingForm(),
	}
}

func TestRegister_CreatesBusinessWithDefaults(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(b *domain.Business) bool {
		return b.OwnerID == "owner-1" &&
			b.CustomURL == "bellas-hair-salon" &&
			b.Status == domain.BusinessActive &&
			b.BookingForm.RequiredFields.Name && b.BookingForm.RequiredFields.Email &&
			b.WorkingHours[domain.Monday].IsOpen && !b.WorkingHours[domain.Sunday].IsOpen
	})).Return(&domain.Business{
		ID: "b-1", OwnerID: "owner-1", CustomURL: "bellas-hair-salon", Name: "Bella's Hair  Salon!",
		Status: domain.BusinessActive, WorkingHours: domain.DefaultWorkingHours(), BookingForm: domain.DefaultBookingForm(),
		CreatedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}, nil)

	resp, err := svc.Register(ctx, &models.RegisterRequest{OwnerID: "owner-1", Name: "Bella's Hair  Salon!", Email: "bella@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "b-1", resp.ID)
	assert.Equal(t, "bellas-hair-salon", resp.CustomURL)
	assert.NotNil(t, resp.Services)
	assert.NotNil(t, resp.BookingForm.CustomFields)
	repo.AssertExpectations(t)
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *models.RegisterRequest
		repoErr error
		wantErr error
	}{
		{name: "no owner", req: &models.RegisterRequest{Name: "Salon", Email: "a@b.c"}, wantErr: ErrInvalidInput},
		{name: "empty name", req: &models.RegisterRequest{OwnerID: "o", Name: "  ", Email: "a@b.c"}, wantErr: ErrInvalidInput},
		{name: "bad email", req: &models.RegisterRequest{OwnerID: "o", Name: "Salon", Email: "nope"}, wantErr: ErrInvalidInput},
		{name: "name without slug characters", req: &models.RegisterRequest{OwnerID: "o", Name: "!!!", Email: "a@b.c"}, wantErr: ErrInvalidInput},
		{name: "slug taken", req: &models.RegisterRequest{OwnerID: "o", Name: "Salon", Email: "a@b.c"}, repoErr: businessRepo.ErrCustomURLTaken, wantErr: ErrCustomURLTaken},
		{name: "storage failure", req: &models.RegisterRequest{OwnerID: "o", Name: "Salon", Email: "a@b.c"}, repoErr: errors.New("boom"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService()
			if tt.repoErr != nil {
				repo.On("Create", ctx, mock.Anything).Return(nil, tt.repoErr)
			}

			resp, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			repo.AssertExpectations(t)
		})
	}
}

func TestGet_ReadsThroughCache(t *testing.T) {
	svc, _, cache := newService()
	ctx := context.Background()

	cache.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)
	cache.On("GetByID", ctx, "b-9").Return(nil, businessRepo.ErrBusinessNotFound)

	resp, err := svc.Get(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "bellas-salon", resp.CustomURL)

	hours, err := svc.GetWorkingHours(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWorkingHours(), hours.WorkingHours)

	_, err = svc.Get(ctx, "b-9")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUpdateWorkingHours(t *testing.T) {
	ctx := context.Background()
	hours := domain.DefaultWorkingHours()
	hours[domain.Saturday] = domain.DaySchedule{IsOpen: true, Start: "10:00", End: "14:00"}

	t.Run("owner updates and cache is invalidated", func(t *testing.T) {
		svc, repo, cache := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)
		repo.On("UpdateWorkingHours", ctx, "b-1", hours).Return(nil)
		cache.On("Invalidate", ctx, "b-1").Return(nil)

		resp, err := svc.UpdateWorkingHours(ctx, "b-1", "owner-1", hours)
		require.NoError(t, err)
		assert.True(t, resp.WorkingHours[domain.Saturday].IsOpen)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure does not fail the update", func(t *testing.T) {
		svc, repo, cache := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)
		repo.On("UpdateWorkingHours", ctx, "b-1", hours).Return(nil)
		cache.On("Invalidate", ctx, "b-1").Return(errors.New("redis down"))

		_, err := svc.UpdateWorkingHours(ctx, "b-1", "owner-1", hours)
		assert.NoError(t, err)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)

		_, err := svc.UpdateWorkingHours(ctx, "b-1", "intruder", hours)
		assert.ErrorIs(t, err, ErrAccessDenied)
		repo.AssertNotCalled(t, "UpdateWorkingHours", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid hours", func(t *testing.T) {
		svc, repo, _ := newService()
		bad := domain.DefaultWorkingHours()
		bad[domain.Monday] = domain.DaySchedule{IsOpen: true, Start: "18:00", End: "09:00"}

		_, err := svc.UpdateWorkingHours(ctx, "b-1", "owner-1", bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("business not found", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-9").Return(nil, businessRepo.ErrBusinessNotFound)

		_, err := svc.UpdateWorkingHours(ctx, "b-9", "owner-1", hours)
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})
}

func TestCreateService(t *testing.T) {
	ctx := context.Background()

	t.Run("creates service", func(t *testing.T) {
		svc, repo, cache := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)
		repo.On("CreateService", ctx, mock.MatchedBy(func(s *domain.Service) bool {
			return s.BusinessID == "b-1" && s.Name == "Haircut" && s.DurationMinutes == 45
		})).Return(&domain.Service{ID: "s-1", BusinessID: "b-1", Name: "Haircut", DurationMinutes: 45, Price: 30}, nil)
		cache.On("Invalidate", ctx, "b-1").Return(nil)

		resp, err := svc.CreateService(ctx, &models.CreateServiceRequest{
			BusinessID: "b-1", UserID: "owner-1", Name: " Haircut ", DurationMinutes: 45, Price: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, "s-1", resp.ID)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	invalid := []*models.CreateServiceRequest{
		{BusinessID: "b-1", UserID: "owner-1", Name: "", DurationMinutes: 30},
		{BusinessID: "b-1", UserID: "owner-1", Name: "Quick", DurationMinutes: 4},
		{BusinessID: "b-1", UserID: "owner-1", Name: "Long", DurationMinutes: 481},
		{BusinessID: "b-1", UserID: "owner-1", Name: "Paid", DurationMinutes: 30, Price: -1},
	}
	for _, req := range invalid {
		svc, _, _ := newService()
		_, err := svc.CreateService(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput, req.Name)
	}
}

func TestUpdateBookingForm(t *testing.T) {
	ctx := context.Background()
	form := domain.BookingForm{
		RequiredFields: domain.RequiredFields{Name: true, Phone: true},
		CustomFields: domain.CustomFields{
			domain.CheckboxField{FieldBase: domain.FieldBase{ID: "first", Label: "First visit?"}},
		},
	}

	svc, repo, cache := newService()
	repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)
	repo.On("UpdateBookingForm", ctx, "b-1", form).Return(nil)
	cache.On("Invalidate", ctx, "b-1").Return(nil)

	got, err := svc.UpdateBookingForm(ctx, "b-1", "owner-1", form)
	require.NoError(t, err)
	assert.Len(t, got.CustomFields, 1)

	bad := domain.BookingForm{CustomFields: domain.CustomFields{
		domain.SelectField{FieldBase: domain.FieldBase{ID: "x", Label: "X"}},
	}}
	_, err = svc.UpdateBookingForm(ctx, "b-1", "owner-1", bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func businessWithService() *domain.Business {
	b := ownedBusiness()
	b.Services = []domain.Service{{
		ID: "s-1", BusinessID: "b-1", Name: "Haircut", DurationMinutes: 45, Price: 30,
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}}
	return b
}

func TestUpdateService(t *testing.T) {
	ctx := context.Background()

	t.Run("updates service", func(t *testing.T) {
		svc, repo, cache := newService()
		repo.On("GetByID", ctx, "b-1").Return(businessWithService(), nil)
		repo.On("UpdateService", ctx, mock.MatchedBy(func(s *domain.Service) bool {
			return s.ID == "s-1" && s.BusinessID == "b-1" && s.Name == "Long haircut" && s.DurationMinutes == 60 && s.Price == 40
		})).Return(nil)
		cache.On("Invalidate", ctx, "b-1").Return(nil)

		resp, err := svc.UpdateService(ctx, &models.UpdateServiceRequest{
			BusinessID: "b-1", ServiceID: "s-1", UserID: "owner-1", Name: " Long haircut ", DurationMinutes: 60, Price: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, "Long haircut", resp.Name)
		assert.Equal(t, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), resp.CreatedAt)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("unknown service", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(businessWithService(), nil)

		_, err := svc.UpdateService(ctx, &models.UpdateServiceRequest{
			BusinessID: "b-1", ServiceID: "missing", UserID: "owner-1", Name: "Cut", DurationMinutes: 30,
		})
		assert.ErrorIs(t, err, ErrServiceNotFound)
		repo.AssertNotCalled(t, "UpdateService", mock.Anything, mock.Anything)
	})

	t.Run("deleted concurrently", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(businessWithService(), nil)
		repo.On("UpdateService", ctx, mock.Anything).Return(businessRepo.ErrServiceNotFound)

		_, err := svc.UpdateService(ctx, &models.UpdateServiceRequest{
			BusinessID: "b-1", ServiceID: "s-1", UserID: "owner-1", Name: "Cut", DurationMinutes: 30,
		})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(businessWithService(), nil)

		_, err := svc.UpdateService(ctx, &models.UpdateServiceRequest{
			BusinessID: "b-1", ServiceID: "s-1", UserID: "intruder", Name: "Cut", DurationMinutes: 30,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid duration", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.UpdateService(ctx, &models.UpdateServiceRequest{
			BusinessID: "b-1", ServiceID: "s-1", UserID: "owner-1", Name: "Cut", DurationMinutes: 481,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDeleteService(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes service", func(t *testing.T) {
		svc, repo, cache := newService()
		repo.On("GetByID", ctx, "b-1").Return(businessWithService(), nil)
		repo.On("DeleteService", ctx, "b-1", "s-1").Return(nil)
		cache.On("Invalidate", ctx, "b-1").Return(nil)

		require.NoError(t, svc.DeleteService(ctx, "b-1", "s-1", "owner-1"))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("already deleted", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(businessWithService(), nil)
		repo.On("DeleteService", ctx, "b-1", "s-1").Return(businessRepo.ErrServiceNotFound)

		assert.ErrorIs(t, svc.DeleteService(ctx, "b-1", "s-1", "owner-1"), ErrServiceNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(businessWithService(), nil)

		assert.ErrorIs(t, svc.DeleteService(ctx, "b-1", "s-1", "intruder"), ErrAccessDenied)
		repo.AssertNotCalled(t, "DeleteService", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateCustomURL(t *testing.T) {
	ctx := context.Background()

	t.Run("changes url", func(t *testing.T) {
		svc, repo, cache := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)
		repo.On("UpdateCustomURL", ctx, "b-1", "bella").Return(nil)
		cache.On("Invalidate", ctx, "b-1").Return(nil)

		resp, err := svc.UpdateCustomURL(ctx, &models.UpdateCustomURLRequest{BusinessID: "b-1", UserID: "owner-1", CustomURL: " bella "})
		require.NoError(t, err)
		assert.Equal(t, &models.CustomURLResponse{BusinessID: "b-1", CustomURL: "bella"}, resp)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("same url is a no-op", func(t *testing.T) {
		svc, repo, cache := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)

		resp, err := svc.UpdateCustomURL(ctx, &models.UpdateCustomURLRequest{BusinessID: "b-1", UserID: "owner-1", CustomURL: "bellas-salon"})
		require.NoError(t, err)
		assert.Equal(t, "bellas-salon", resp.CustomURL)
		repo.AssertNotCalled(t, "UpdateCustomURL", mock.Anything, mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("taken", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)
		repo.On("UpdateCustomURL", ctx, "b-1", "other-salon").Return(businessRepo.ErrCustomURLTaken)

		_, err := svc.UpdateCustomURL(ctx, &models.UpdateCustomURLRequest{BusinessID: "b-1", UserID: "owner-1", CustomURL: "other-salon"})
		assert.ErrorIs(t, err, ErrCustomURLTaken)
	})

	t.Run("invalid format", func(t *testing.T) {
		for _, url := range []string{"", "Bella", "bella salon", "bella_salon", "bella/admin"} {
			svc, repo, _ := newService()
			_, err := svc.UpdateCustomURL(ctx, &models.UpdateCustomURLRequest{BusinessID: "b-1", UserID: "owner-1", CustomURL: url})
			assert.ErrorIs(t, err, ErrInvalidInput, url)
			repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetByID", ctx, "b-1").Return(ownedBusiness(), nil)

		_, err := svc.UpdateCustomURL(ctx, &models.UpdateCustomURLRequest{BusinessID: "b-1", UserID: "intruder", CustomURL: "bella"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
