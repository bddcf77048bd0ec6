package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/errors"
	"devcamp/internal/model"
)

// MockCourseRepository is a mock implementation of repository.CourseRepository.
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseRepository) ListByBootcampID(ctx context.Context, bootcampID uuid.UUID) ([]model.Course, error) {
	args := m.Called(ctx, bootcampID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCourseService_Create(t *testing.T) {
	bootcampID := uuid.New()
	bootcamp := &model.Bootcamp{ID: bootcampID, UserID: 1}

	tests := []struct {
		name      string
		caller    auth.Caller
		setupMock func(repo *MockCourseRepository, bootcampRepo *MockBootcampRepository)
		wantErr   error
	}{
		{
			name:   "bootcamp owner may add a course",
			caller: auth.Caller{UserID: 1, Role: model.RolePublisher},
			setupMock: func(repo *MockCourseRepository, bootcampRepo *MockBootcampRepository) {
				bootcampRepo.On("FindByID", mock.Anything, bootcampID).Return(bootcamp, nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Course")).Return(nil)
				repo.On("ListByBootcampID", mock.Anything, bootcampID).
					Return([]model.Course{{Tuition: decimal.NewFromInt(8000)}}, nil)
				bootcampRepo.On("UpdateFields", mock.Anything, bootcampID,
					mock.AnythingOfType("map[string]interface {}")).Return(nil)
			},
		},
		{
			name:   "non-owner is forbidden",
			caller: auth.Caller{UserID: 2, Role: model.RolePublisher},
			setupMock: func(repo *MockCourseRepository, bootcampRepo *MockBootcampRepository) {
				bootcampRepo.On("FindByID", mock.Anything, bootcampID).Return(bootcamp, nil)
			},
			wantErr: errors.ErrForbidden,
		},
		{
			name:   "unknown bootcamp",
			caller: auth.Caller{UserID: 1, Role: model.RolePublisher},
			setupMock: func(repo *MockCourseRepository, bootcampRepo *MockBootcampRepository) {
				bootcampRepo.On("FindByID", mock.Anything, bootcampID).
					Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrBootcampNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCourseRepository)
			bootcampRepo := new(MockBootcampRepository)
			tt.setupMock(repo, bootcampRepo)
			svc := NewCourseService(repo, bootcampRepo)

			course := &model.Course{Title: "Full Stack Web Dev", Tuition: decimal.NewFromInt(8000)}
			created, err := svc.Create(context.Background(), tt.caller, bootcampID, course)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, bootcampID, created.BootcampID)
				assert.Equal(t, tt.caller.UserID, created.UserID)
			}
			repo.AssertExpectations(t)
			bootcampRepo.AssertExpectations(t)
		})
	}
}

func TestCourseService_RecomputesAverageCost(t *testing.T) {
	bootcampID := uuid.New()
	courseID := uuid.New()
	course := &model.Course{ID: courseID, BootcampID: bootcampID, UserID: 1, Tuition: decimal.NewFromInt(8000)}

	repo := new(MockCourseRepository)
	bootcampRepo := new(MockBootcampRepository)

	repo.On("FindByID", mock.Anything, courseID).Return(course, nil)
	repo.On("Delete", mock.Anything, courseID).Return(nil)
	repo.On("ListByBootcampID", mock.Anything, bootcampID).
		Return([]model.Course{
			{Tuition: decimal.NewFromInt(10000)},
			{Tuition: decimal.NewFromInt(11000)},
			{Tuition: decimal.NewFromInt(12001)},
		}, nil)

	var fields map[string]interface{}
	bootcampRepo.On("UpdateFields", mock.Anything, bootcampID, mock.Anything).
		Run(func(args mock.Arguments) {
			fields = args.Get(2).(map[string]interface{})
		}).
		Return(nil)

	svc := NewCourseService(repo, bootcampRepo)
	err := svc.Delete(context.Background(), auth.Caller{UserID: 1, Role: model.RolePublisher}, courseID)
	assert.NoError(t, err)

	avg := fields["average_cost"].(decimal.Decimal)
	assert.True(t, avg.Equal(decimal.NewFromFloat(11000.33)), "got %s", avg)

	repo.AssertExpectations(t)
	bootcampRepo.AssertExpectations(t)
}

func TestCourseService_Update_Ownership(t *testing.T) {
	courseID := uuid.New()
	bootcampID := uuid.New()
	newTitle := "Advanced Go"

	t.Run("admin may update any course", func(t *testing.T) {
		repo := new(MockCourseRepository)
		bootcampRepo := new(MockBootcampRepository)
		repo.On("FindByID", mock.Anything, courseID).
			Return(&model.Course{ID: courseID, BootcampID: bootcampID, UserID: 1}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Course")).Return(nil)
		repo.On("ListByBootcampID", mock.Anything, bootcampID).Return([]model.Course{}, nil)
		bootcampRepo.On("UpdateFields", mock.Anything, bootcampID, mock.Anything).Return(nil)

		svc := NewCourseService(repo, bootcampRepo)
		updated, err := svc.Update(context.Background(),
			auth.Caller{UserID: 9, Role: model.RoleAdmin}, courseID, UpdateCourseInput{Title: &newTitle})
		assert.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		repo.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := new(MockCourseRepository)
		bootcampRepo := new(MockBootcampRepository)
		repo.On("FindByID", mock.Anything, courseID).
			Return(&model.Course{ID: courseID, BootcampID: bootcampID, UserID: 1}, nil)

		svc := NewCourseService(repo, bootcampRepo)
		_, err := svc.Update(context.Background(),
			auth.Caller{UserID: 2, Role: model.RolePublisher}, courseID, UpdateCourseInput{Title: &newTitle})
		assert.ErrorIs(t, err, errors.ErrForbidden)
		repo.AssertExpectations(t)
	})
}
