package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Hameed1117/User-Management/internal/auth"
	"github.com/Hameed1117/User-Management/internal/store"
	"github.com/Hameed1117/User-Management/types"
	"github.com/google/uuid"
)

// dummyHash is compared against when no account matches the login email,
// so unknown-email and wrong-password attempts cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByNickname(ctx context.Context, nickname string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]types.User, error)
	Count(ctx context.Context) (int, error)
	SetVerificationToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, id, tokenHash string, now time.Time) (bool, error)
	RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (attempts int, locked bool, err error)
	RecordLoginSuccess(ctx context.Context, id string, at time.Time) error
	SetLocked(ctx context.Context, id string, locked bool) error
}

// Policy holds the account lifecycle knobs.
type Policy struct {
	MaxLoginAttempts int
	VerificationTTL  time.Duration
}

// UserService orchestrates the account lifecycle: registration, email
// verification, login with lockout, and admin user management.
type UserService struct {
	repo     UserRepository
	tokens   *auth.TokenIssuer
	notifier Notifier
	policy   Policy
	logger   *slog.Logger
}

func NewUserService(repo UserRepository, tokens *auth.TokenIssuer, notifier Notifier, policy Policy, logger *slog.Logger) *UserService {
	if policy.MaxLoginAttempts <= 0 {
		policy.MaxLoginAttempts = 5
	}
	if policy.VerificationTTL <= 0 {
		policy.VerificationTTL = 24 * time.Hour
	}
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		policy:   policy,
		logger:   logger,
	}
}

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Nickname  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates an unverified account and hands a verification email
// to the notifier. Email delivery failure is reported but does not roll
// back the account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.Email = normalizeEmail(in.Email)
	if in.Nickname == "" || in.Email == "" || in.Password == "" {
		return types.User{}, ErrInvalidInput
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	token, tokenHash, err := auth.NewVerificationToken()
	if err != nil {
		return types.User{}, fmt.Errorf("issue verification token: %w", err)
	}
	expiry := time.Now().Add(s.policy.VerificationTTL)

	user, err := s.repo.Create(ctx, types.User{
		ID:                    uuid.NewString(),
		Nickname:              in.Nickname,
		Email:                 in.Email,
		Role:                  types.RoleAuthenticated,
		PasswordHash:          hash,
		VerificationTokenHash: tokenHash,
		VerificationExpiresAt: &expiry,
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, ErrAlreadyExists
		}
		return types.User{}, fmt.Errorf("create account: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, user, token); err != nil {
		s.logger.Warn("verification email not delivered",
			"user_id", user.ID, "error", err)
	}

	return user, nil
}

// VerifyEmail redeems a verification token. Unknown account, wrong token,
// expired token, and already-consumed token all collapse into the single
// ErrInvalidVerification outcome; under concurrent redemption exactly one
// caller succeeds.
func (s *UserService) VerifyEmail(ctx context.Context, id, token string) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(token) == "" {
		return ErrInvalidVerification
	}
	ok, err := s.repo.ConsumeVerificationToken(ctx, id, auth.HashVerificationToken(token), time.Now())
	if err != nil {
		return fmt.Errorf("redeem verification token: %w", err)
	}
	if !ok {
		return ErrInvalidVerification
	}
	return nil
}

// Login authenticates by email and password and issues an access token
// carrying the account's role. Unknown email and wrong password are
// indistinguishable; locked and unverified accounts are reported as such.
// Repeated failures past the configured threshold lock the account.
func (s *UserService) Login(ctx context.Context, email, password string) (types.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return types.User{}, "", ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.VerifyPassword(password, dummyHash)
			return types.User{}, "", ErrInvalidCredentials
		}
		return types.User{}, "", fmt.Errorf("look up account: %w", err)
	}

	if user.IsLocked {
		return types.User{}, "", ErrAccountLocked
	}
	if !user.EmailVerified {
		return types.User{}, "", ErrAccountNotVerified
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		attempts, locked, err := s.repo.RecordLoginFailure(ctx, user.ID, s.policy.MaxLoginAttempts)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return types.User{}, "", fmt.Errorf("record login failure: %w", err)
		}
		if locked {
			s.logger.Info("account locked after repeated login failures",
				"user_id", user.ID, "attempts", attempts)
		}
		return types.User{}, "", ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		return types.User{}, "", fmt.Errorf("record login success: %w", err)
	}
	user.FailedLoginAttempts = 0
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return types.User{}, "", fmt.Errorf("issue access token: %w", err)
	}
	return user, token, nil
}

// ResendVerification issues a fresh verification token, superseding any
// outstanding one, and requires successful email hand-off. An unknown or
// already-verified email is a silent no-op so the endpoint cannot be used
// to probe for accounts.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up account: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	token, tokenHash, err := auth.NewVerificationToken()
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	expiry := time.Now().Add(s.policy.VerificationTTL)
	if err := s.repo.SetVerificationToken(ctx, user.ID, tokenHash, expiry); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, user, token); err != nil {
		s.logger.Error("verification email resend failed",
			"user_id", user.ID, "error", err)
		return ErrEmailDelivery
	}
	return nil
}

// CreateUserInput is the admin user-creation payload. Unlike self-service
// registration it may assign any role from the closed set.
type CreateUserInput struct {
	Nickname  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Bio       string
}

// CreateUser creates an account on behalf of an admin. The account still
// starts unverified and goes through the normal verification flow.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (types.User, error) {
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.Email = normalizeEmail(in.Email)
	if in.Nickname == "" || in.Email == "" || in.Password == "" {
		return types.User{}, ErrInvalidInput
	}
	role := types.NormalizeRole(in.Role)
	if role == "" {
		role = types.RoleAuthenticated
	}
	if !types.ValidRole(role) {
		return types.User{}, ErrInvalidInput
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	token, tokenHash, err := auth.NewVerificationToken()
	if err != nil {
		return types.User{}, fmt.Errorf("issue verification token: %w", err)
	}
	expiry := time.Now().Add(s.policy.VerificationTTL)

	user, err := s.repo.Create(ctx, types.User{
		ID:                    uuid.NewString(),
		Nickname:              in.Nickname,
		Email:                 in.Email,
		Role:                  role,
		PasswordHash:          hash,
		VerificationTokenHash: tokenHash,
		VerificationExpiresAt: &expiry,
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		Bio:                   in.Bio,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, ErrAlreadyExists
		}
		return types.User{}, fmt.Errorf("create account: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, user, token); err != nil {
		s.logger.Warn("verification email not delivered",
			"user_id", user.ID, "error", err)
	}
	return user, nil
}

// AdminPatch is the admin-editable subset of a user record. Nil fields
// are left unchanged. Role changes happen only here, never through
// self-service profile updates.
type AdminPatch struct {
	Nickname  *string
	Email     *string
	Role      *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// UpdateUser applies an admin patch to an account.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch AdminPatch) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if patch.Nickname != nil {
		user.Nickname = strings.TrimSpace(*patch.Nickname)
	}
	if patch.Email != nil {
		user.Email = normalizeEmail(*patch.Email)
	}
	if patch.Role != nil {
		role := types.NormalizeRole(*patch.Role)
		if !types.ValidRole(role) {
			return types.User{}, ErrInvalidInput
		}
		user.Role = role
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if user.Nickname == "" || user.Email == "" {
		return types.User{}, ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, ErrAlreadyExists
		}
		return types.User{}, err
	}
	return updated, nil
}

// GetUser looks up an account by id.
func (s *UserService) GetUser(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns one page of accounts plus the total count.
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]types.User, int, error) {
	users, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// DeleteUser removes an account. Exposed to admins only.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetLocked applies an admin lock or unlock to an account.
func (s *UserService) SetLocked(ctx context.Context, id string, locked bool) error {
	return s.repo.SetLocked(ctx, id, locked)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
