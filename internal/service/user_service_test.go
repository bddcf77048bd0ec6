package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/errors"
	"devcamp/internal/model"
)

func TestUserService_Create(t *testing.T) {
	hasher := auth.NewPasswordHasher(4)

	t.Run("defaults missing role to user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.User).ID = 1
			}).
			Return(nil)
		svc := NewUserService(repo, hasher)

		user, err := svc.Create(context.Background(), "Kevin", "Kevin@Example.com", "secret1", "")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.Equal(t, "kevin@example.com", user.Email)
		assert.True(t, hasher.Verify("secret1", user.PasswordHash))
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, hasher)

		user, err := svc.Create(context.Background(), "Kevin", "kevin@example.com", "secret1", "root")
		assert.ErrorIs(t, err, ErrInvalidRole)
		assert.Nil(t, user)
		repo.AssertExpectations(t)
	})
}

func TestUserService_Get_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
	svc := NewUserService(repo, auth.NewPasswordHasher(4))

	user, err := svc.Get(context.Background(), 7)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
	assert.Nil(t, user)
	repo.AssertExpectations(t)
}

func TestUserService_Update(t *testing.T) {
	t.Run("partial update touches only provided fields", func(t *testing.T) {
		repo := new(MockUserRepository)
		newRole := model.RolePublisher
		repo.On("UpdateFields", mock.Anything, uint(1),
			map[string]interface{}{"role": newRole}).Return(nil)
		repo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Role: newRole}, nil)
		svc := NewUserService(repo, auth.NewPasswordHasher(4))

		user, err := svc.Update(context.Background(), 1, UpdateUserInput{Role: &newRole})
		assert.NoError(t, err)
		assert.Equal(t, newRole, user.Role)
		repo.AssertExpectations(t)
	})

	t.Run("invalid role rejected before any write", func(t *testing.T) {
		repo := new(MockUserRepository)
		badRole := model.Role("root")
		svc := NewUserService(repo, auth.NewPasswordHasher(4))

		_, err := svc.Update(context.Background(), 1, UpdateUserInput{Role: &badRole})
		assert.ErrorIs(t, err, ErrInvalidRole)
		repo.AssertExpectations(t)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1}, nil)
		repo.On("Delete", mock.Anything, uint(1)).Return(nil)
		svc := NewUserService(repo, auth.NewPasswordHasher(4))

		assert.NoError(t, svc.Delete(context.Background(), 1))
		repo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewUserService(repo, auth.NewPasswordHasher(4))

		assert.ErrorIs(t, svc.Delete(context.Background(), 2), errors.ErrUserNotFound)
		repo.AssertExpectations(t)
	})
}
