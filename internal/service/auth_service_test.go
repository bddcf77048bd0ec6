package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer is a mock implementation of email.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func newTestAuthService(repo *MockUserRepository, mailer *MockMailer) AuthService {
	return NewAuthService(
		repo,
		auth.NewPasswordHasher(4),
		auth.NewJWTService("test-secret", time.Hour),
		mailer,
		10*time.Minute,
	)
}

func TestAuthService_Register(t *testing.T) {
	hasher := auth.NewPasswordHasher(4)

	tests := []struct {
		name      string
		role      model.Role
		setupMock func(repo *MockUserRepository)
		wantErr   error
		wantRole  model.Role
	}{
		{
			name: "successful registration defaults to user role",
			role: "",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "john@example.com").
					Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.User).ID = 1
					}).
					Return(nil)
			},
			wantRole: model.RoleUser,
		},
		{
			name: "role from request is honored",
			role: model.RolePublisher,
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "john@example.com").
					Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.User).ID = 2
					}).
					Return(nil)
			},
			wantRole: model.RolePublisher,
		},
		{
			name: "duplicate email is rejected",
			role: model.RoleUser,
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "john@example.com").
					Return(&model.User{ID: 1, Email: "john@example.com"}, nil)
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name:      "unknown role is rejected",
			role:      model.Role("superuser"),
			setupMock: func(repo *MockUserRepository) {},
			wantErr:   ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := newTestAuthService(repo, new(MockMailer))

			token, user, err := svc.Register(context.Background(), "John", "John@Example.com ", "secret1", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "john@example.com", user.Email)
				assert.Equal(t, tt.wantRole, user.Role)
				// The password must be stored as a verifiable digest, not plaintext.
				assert.NotEqual(t, "secret1", user.PasswordHash)
				assert.True(t, hasher.Verify("secret1", user.PasswordHash))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := auth.NewPasswordHasher(4)
	digest, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(repo *MockUserRepository)
		wantErr   error
	}{
		{
			name:     "successful login",
			email:    "john@example.com",
			password: "secret1",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "john@example.com").
					Return(&model.User{ID: 1, Email: "john@example.com", PasswordHash: digest}, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "john@example.com",
			password: "wrong",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "john@example.com").
					Return(&model.User{ID: 1, Email: "john@example.com", PasswordHash: digest}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown email collapses to invalid credentials",
			email:    "nobody@example.com",
			password: "secret1",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "nobody@example.com").
					Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := newTestAuthService(repo, new(MockMailer))

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, uint(1), user.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdatePassword(t *testing.T) {
	hasher := auth.NewPasswordHasher(4)
	digest, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, PasswordHash: digest}, nil)
		svc := newTestAuthService(repo, new(MockMailer))

		token, err := svc.UpdatePassword(context.Background(), 1, "wrong", "newsecret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
		repo.AssertExpectations(t)
	})

	t.Run("successful change issues a fresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, PasswordHash: digest}, nil)
		var stored map[string]interface{}
		repo.On("UpdateFields", mock.Anything, uint(1), mock.Anything).
			Run(func(args mock.Arguments) {
				stored = args.Get(2).(map[string]interface{})
			}).
			Return(nil)
		svc := newTestAuthService(repo, new(MockMailer))

		token, err := svc.UpdatePassword(context.Background(), 1, "secret1", "newsecret")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, hasher.Verify("newsecret", stored["password_hash"].(string)))
		repo.AssertExpectations(t)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	user := &model.User{ID: 1, Email: "john@example.com"}

	t.Run("stores digest and mails plaintext", func(t *testing.T) {
		repo := new(MockUserRepository)
		mailer := new(MockMailer)
		repo.On("FindByEmail", mock.Anything, "john@example.com").Return(user, nil)

		var stored map[string]interface{}
		repo.On("UpdateFields", mock.Anything, uint(1), mock.Anything).
			Run(func(args mock.Arguments) {
				stored = args.Get(2).(map[string]interface{})
			}).
			Return(nil)

		var mailBody string
		mailer.On("Send", mock.Anything, "john@example.com", "Password reset token", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				mailBody = args.Get(3).(string)
			}).
			Return(nil)

		svc := newTestAuthService(repo, mailer)
		err := svc.ForgotPassword(context.Background(), "john@example.com", "https://example.com/api/v1/auth/resetpassword")
		assert.NoError(t, err)

		// The mail carries the plaintext; the record carries only its digest.
		idx := strings.LastIndex(mailBody, "/")
		assert.Greater(t, idx, 0)
		plaintext := mailBody[idx+1:]
		assert.Len(t, plaintext, 40)
		assert.Equal(t, auth.HashResetToken(plaintext), stored["reset_password_token_hash"])
		expiry, ok := stored["reset_password_expires_at"].(time.Time)
		assert.True(t, ok)
		assert.True(t, expiry.After(time.Now()))

		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "nobody@example.com").
			Return(nil, gorm.ErrRecordNotFound)
		svc := newTestAuthService(repo, new(MockMailer))

		err := svc.ForgotPassword(context.Background(), "nobody@example.com", "https://example.com/reset")
		assert.ErrorIs(t, err, ErrEmailNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("mail failure rolls the token back", func(t *testing.T) {
		repo := new(MockUserRepository)
		mailer := new(MockMailer)
		repo.On("FindByEmail", mock.Anything, "john@example.com").Return(user, nil)

		var updates []map[string]interface{}
		repo.On("UpdateFields", mock.Anything, uint(1), mock.Anything).
			Run(func(args mock.Arguments) {
				updates = append(updates, args.Get(2).(map[string]interface{}))
			}).
			Return(nil)
		mailer.On("Send", mock.Anything, "john@example.com", mock.Anything, mock.Anything).
			Return(errors.New("smtp unreachable"))

		svc := newTestAuthService(repo, mailer)
		err := svc.ForgotPassword(context.Background(), "john@example.com", "https://example.com/reset")
		assert.ErrorIs(t, err, ErrEmailNotSent)

		// First update stored the token, second one cleared it again.
		assert.Len(t, updates, 2)
		assert.NotNil(t, updates[0]["reset_password_token_hash"])
		assert.Nil(t, updates[1]["reset_password_token_hash"])
		assert.Nil(t, updates[1]["reset_password_expires_at"])

		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByResetTokenHash", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil, gorm.ErrRecordNotFound)
		svc := newTestAuthService(repo, new(MockMailer))

		token, user, err := svc.ResetPassword(context.Background(), "deadbeef", "newsecret")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
		assert.Empty(t, token)
		assert.Nil(t, user)
		repo.AssertExpectations(t)
	})

	t.Run("password set and reset fields cleared in one update", func(t *testing.T) {
		hasher := auth.NewPasswordHasher(4)
		plaintext, digest, err := auth.GenerateResetToken()
		assert.NoError(t, err)

		repo := new(MockUserRepository)
		repo.On("FindByResetTokenHash", mock.Anything, digest, mock.AnythingOfType("time.Time")).
			Return(&model.User{ID: 1, Email: "john@example.com"}, nil)

		var stored map[string]interface{}
		repo.On("UpdateFields", mock.Anything, uint(1), mock.Anything).
			Run(func(args mock.Arguments) {
				stored = args.Get(2).(map[string]interface{})
			}).
			Return(nil).
			Once()

		svc := newTestAuthService(repo, new(MockMailer))
		token, user, err := svc.ResetPassword(context.Background(), plaintext, "newsecret")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Nil(t, user.ResetPasswordTokenHash)

		// One atomic statement carries the new password and clears the token.
		assert.True(t, hasher.Verify("newsecret", stored["password_hash"].(string)))
		assert.Nil(t, stored["reset_password_token_hash"])
		assert.Nil(t, stored["reset_password_expires_at"])
		repo.AssertExpectations(t)
	})
}

// memoryUserRepo is a minimal in-memory repository used to exercise the full
// password-reset lifecycle without a database.
type memoryUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[uint]*model.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]*model.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = r.seq
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) FindByResetTokenHash(_ context.Context, tokenHash string, now time.Time) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ResetPasswordTokenHash != nil && *user.ResetPasswordTokenHash == tokenHash &&
			user.ResetPasswordExpiresAt != nil && user.ResetPasswordExpiresAt.After(now) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			user.Name = value.(string)
		case "email":
			user.Email = value.(string)
		case "password_hash":
			user.PasswordHash = value.(string)
		case "reset_password_token_hash":
			if value == nil {
				user.ResetPasswordTokenHash = nil
			} else {
				v := value.(string)
				user.ResetPasswordTokenHash = &v
			}
		case "reset_password_expires_at":
			if value == nil {
				user.ResetPasswordExpiresAt = nil
			} else {
				v := value.(time.Time)
				user.ResetPasswordExpiresAt = &v
			}
		}
	}
	return nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func TestAuthService_ResetLifecycle(t *testing.T) {
	repo := newMemoryUserRepo()
	mailer := new(MockMailer)

	var mailBody string
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mailBody = args.Get(3).(string)
		}).
		Return(nil)

	svc := NewAuthService(
		repo,
		auth.NewPasswordHasher(4),
		auth.NewJWTService("test-secret", time.Hour),
		mailer,
		10*time.Minute,
	)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "John", "john@example.com", "secret1", model.RoleUser)
	assert.NoError(t, err)

	assert.NoError(t, svc.ForgotPassword(ctx, "john@example.com", "https://example.com/reset"))
	plaintext := mailBody[strings.LastIndex(mailBody, "/")+1:]

	_, _, err = svc.ResetPassword(ctx, plaintext, "newsecret")
	assert.NoError(t, err)

	// The token is single use.
	_, _, err = svc.ResetPassword(ctx, plaintext, "another")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	// Old password stops working, the new one logs in.
	_, _, err = svc.Login(ctx, "john@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "john@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestAuthService_ResetLifecycle_ExpiredToken(t *testing.T) {
	repo := newMemoryUserRepo()
	mailer := new(MockMailer)

	var mailBody string
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mailBody = args.Get(3).(string)
		}).
		Return(nil)

	// A negative TTL makes every issued token already expired.
	svc := NewAuthService(
		repo,
		auth.NewPasswordHasher(4),
		auth.NewJWTService("test-secret", time.Hour),
		mailer,
		-time.Minute,
	)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "John", "john@example.com", "secret1", model.RoleUser)
	assert.NoError(t, err)
	assert.NoError(t, svc.ForgotPassword(ctx, "john@example.com", "https://example.com/reset"))

	plaintext := mailBody[strings.LastIndex(mailBody, "/")+1:]
	_, _, err = svc.ResetPassword(ctx, plaintext, "newsecret")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
