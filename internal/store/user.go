package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Hameed1117/User-Management/types"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `
	id, nickname, email, role, password_hash,
	email_verified, is_locked, failed_login_attempts,
	verification_token_hash, verification_expires_at,
	first_name, last_name, bio,
	github_profile_url, linkedin_profile_url, profile_picture_url,
	last_login_at, created_at, updated_at`

// UserRepository handles persistence for user accounts. Per-account
// lifecycle transitions (verification consumption, lockout counting)
// are expressed as single conditional statements so that concurrent
// callers serialize at the database.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	const query = `SELECT` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `SELECT` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (types.User, error) {
	const query = `SELECT` + userColumns + ` FROM users WHERE nickname = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, nickname))
}

// Create persists a new account. Unique violations on email or nickname
// surface as ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (
			id, nickname, email, role, password_hash,
			email_verified, is_locked, failed_login_attempts,
			verification_token_hash, verification_expires_at,
			first_name, last_name, bio,
			github_profile_url, linkedin_profile_url, profile_picture_url,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Nickname,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.EmailVerified,
		user.IsLocked,
		user.FailedLoginAttempts,
		nullIfEmpty(user.VerificationTokenHash),
		user.VerificationExpiresAt,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.GithubProfileURL,
		user.LinkedinProfileURL,
		user.ProfilePictureURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.User{}, ErrConflict
		}
		return types.User{}, err
	}
	return user, nil
}

// Update rewrites the mutable fields of an existing account.
func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now()

	const query = `
		UPDATE users
		SET nickname = $1,
			email = $2,
			role = $3,
			password_hash = $4,
			first_name = $5,
			last_name = $6,
			bio = $7,
			github_profile_url = $8,
			linkedin_profile_url = $9,
			profile_picture_url = $10,
			updated_at = $11
		WHERE id = $12`
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Nickname,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.GithubProfileURL,
		user.LinkedinProfileURL,
		user.ProfilePictureURL,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.User{}, ErrConflict
		}
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of accounts ordered by creation time.
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]types.User, error) {
	const query = `SELECT` + userColumns + `
		FROM users
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users`
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SetVerificationToken replaces the outstanding verification token for
// an account; only the most recently issued token can redeem.
func (r *UserRepository) SetVerificationToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET verification_token_hash = $1,
			verification_expires_at = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, tokenHash, expiresAt, time.Now(), id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ConsumeVerificationToken redeems a verification token: it flips the
// account to verified and clears the token in one conditional statement.
// Of two concurrent redemptions exactly one observes a row change; the
// other reports false with no further detail.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, id, tokenHash string, now time.Time) (bool, error) {
	const query = `
		UPDATE users
		SET email_verified = TRUE,
			verification_token_hash = NULL,
			verification_expires_at = NULL,
			updated_at = $1
		WHERE id = $2
		  AND email_verified = FALSE
		  AND verification_token_hash = $3
		  AND verification_expires_at > $1`
	result, err := r.db.ExecContext(ctx, query, now, id, tokenHash)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// RecordLoginFailure bumps the failure counter atomically and locks the
// account once the counter reaches maxAttempts. It returns the state
// after the increment.
func (r *UserRepository) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (attempts int, locked bool, err error) {
	const query = `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
			is_locked = is_locked OR failed_login_attempts + 1 >= $1,
			updated_at = $2
		WHERE id = $3
		RETURNING failed_login_attempts, is_locked`
	err = r.db.QueryRowContext(ctx, query, maxAttempts, time.Now(), id).Scan(&attempts, &locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, ErrNotFound
		}
		return 0, false, err
	}
	return attempts, locked, nil
}

// RecordLoginSuccess resets the failure counter and stamps the last
// successful authentication.
func (r *UserRepository) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE users
		SET failed_login_attempts = 0,
			last_login_at = $1,
			updated_at = $1
		WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SetLocked applies an admin lock or unlock. Unlocking also clears the
// failure counter so the account gets a fresh allowance.
func (r *UserRepository) SetLocked(ctx context.Context, id string, locked bool) error {
	const query = `
		UPDATE users
		SET is_locked = $1,
			failed_login_attempts = CASE WHEN $1 THEN failed_login_attempts ELSE 0 END,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, locked, time.Now(), id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SetProfilePictureURL records the object-storage URL for the account's
// profile picture.
func (r *UserRepository) SetProfilePictureURL(ctx context.Context, id, url string) error {
	const query = `
		UPDATE users
		SET profile_picture_url = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, url, time.Now(), id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (types.User, error) {
	var user types.User
	var tokenHash sql.NullString
	var tokenExpiry, lastLogin sql.NullTime
	err := s.Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.IsLocked,
		&user.FailedLoginAttempts,
		&tokenHash,
		&tokenExpiry,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.GithubProfileURL,
		&user.LinkedinProfileURL,
		&user.ProfilePictureURL,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return types.User{}, err
	}
	if tokenHash.Valid {
		user.VerificationTokenHash = tokenHash.String
	}
	if tokenExpiry.Valid {
		t := tokenExpiry.Time
		user.VerificationExpiresAt = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return user, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
