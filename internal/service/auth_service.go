package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/email"
	"devcamp/internal/model"
	"devcamp/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Unknown email and wrong password deliberately collapse to this one error.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRole is returned when a request carries an unknown role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrEmailNotFound is returned when a password reset is requested for an unknown email.
	ErrEmailNotFound = errors.New("there is no user with that email")
	// ErrInvalidResetToken is returned when a reset token is unknown or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrEmailNotSent is returned when the reset mail could not be dispatched.
	ErrEmailNotSent = errors.New("email could not be sent")
)

// AuthService handles registration, login and the password lifecycle.
type AuthService interface {
	Register(ctx context.Context, name, emailAddr, password string, role model.Role) (token string, user *model.User, err error)
	Login(ctx context.Context, emailAddr, password string) (token string, user *model.User, err error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateDetails(ctx context.Context, id uint, name, emailAddr string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint, currentPassword, newPassword string) (token string, err error)
	ForgotPassword(ctx context.Context, emailAddr, resetURLBase string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) (token string, user *model.User, err error)
}

type authService struct {
	userRepo      repository.UserRepository
	hasher        *auth.PasswordHasher
	jwtService    *auth.JWTService
	mailer        email.Mailer
	resetTokenTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	mailer email.Mailer,
	resetTokenTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		hasher:        hasher,
		jwtService:    jwtService,
		mailer:        mailer,
		resetTokenTTL: resetTokenTTL,
	}
}

// Register creates a new user with a hashed password and returns a session token.
// The role is taken from the request as the upstream API does; absent roles
// default to the plain user role.
func (s *authService) Register(ctx context.Context, name, emailAddr, password string, role model.Role) (string, *model.User, error) {
	emailAddr = normalizeEmail(emailAddr)

	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return "", nil, ErrInvalidRole
	}

	existing, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err == nil && existing != nil {
		return "", nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Login authenticates a user and returns a session token.
func (s *authService) Login(ctx context.Context, emailAddr, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// GetUser returns the user with the given id.
func (s *authService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateDetails updates the caller's name and email.
func (s *authService) UpdateDetails(ctx context.Context, id uint, name, emailAddr string) (*model.User, error) {
	fields := map[string]interface{}{}
	if name != "" {
		fields["name"] = name
	}
	if emailAddr != "" {
		fields["email"] = normalizeEmail(emailAddr)
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update details: %w", err)
		}
	}
	return s.userRepo.FindByID(ctx, id)
}

// UpdatePassword verifies the current password before setting a new one and
// returns a fresh session token.
func (s *authService) UpdatePassword(ctx context.Context, id uint, currentPassword, newPassword string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"password_hash": passwordHash,
	}); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	return s.jwtService.Issue(user.ID)
}

// ForgotPassword stores a hashed single-use reset token on the user record
// and mails the plaintext. If the mail cannot be sent the token fields are
// rolled back so the user can retry.
func (s *authService) ForgotPassword(ctx context.Context, emailAddr, resetURLBase string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	plaintext, digest, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.resetTokenTTL)
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"reset_password_token_hash": digest,
		"reset_password_expires_at": expiresAt,
	}); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/%s", strings.TrimRight(resetURLBase, "/"), plaintext)
	body := fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:\n\n%s", resetURL)

	if err := s.mailer.Send(ctx, user.Email, "Password reset token", body); err != nil {
		// Roll back so a retry can issue a fresh token.
		if clearErr := s.clearResetFields(ctx, user.ID, nil); clearErr != nil {
			return fmt.Errorf("clear reset token after mail failure: %w", clearErr)
		}
		return ErrEmailNotSent
	}
	return nil
}

// ResetPassword consumes a reset token: it sets the new password and clears
// the reset fields in a single atomic update, then returns a session token.
func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, *model.User, error) {
	digest := auth.HashResetToken(resetToken)

	user, err := s.userRepo.FindByResetTokenHash(ctx, digest, time.Now())
	if err != nil {
		return "", nil, ErrInvalidResetToken
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.clearResetFields(ctx, user.ID, map[string]interface{}{
		"password_hash": passwordHash,
	}); err != nil {
		return "", nil, fmt.Errorf("reset password: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	user.PasswordHash = passwordHash
	user.ResetPasswordTokenHash = nil
	user.ResetPasswordExpiresAt = nil
	return token, user, nil
}

// clearResetFields clears both reset columns, optionally together with extra
// fields, as one UPDATE so no partial state is observable.
func (s *authService) clearResetFields(ctx context.Context, id uint, extra map[string]interface{}) error {
	fields := map[string]interface{}{
		"reset_password_token_hash": nil,
		"reset_password_expires_at": nil,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return s.userRepo.UpdateFields(ctx, id, fields)
}

func normalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}
