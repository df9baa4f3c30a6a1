package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"clipstream/internal/domain"
	"clipstream/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	fullname TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	avatar_url TEXT NOT NULL,
	cover_image_url TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const userColumns = `id, username, email, fullname, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (`+userColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.CoverImageURL,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE username = lower(?)`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE username = lower(?) OR email = ?`,
		username,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	return r.updateOne(ctx, `
UPDATE users SET refresh_token = ?, updated_at = ? WHERE id = ?`,
		"set refresh token", token, time.Now().UTC(), userID)
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID, current, next string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET refresh_token = ?, updated_at = ?
WHERE id = ? AND refresh_token = ?`,
		next,
		time.Now().UTC(),
		userID,
		current,
	)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rotate refresh token rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrStaleRefreshToken
	}
	return nil
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, userID, passwordHash string) error {
	return r.updateOne(ctx, `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		"set password hash", passwordHash, time.Now().UTC(), userID)
}

func (r *UserRepository) UpdateDetails(ctx context.Context, userID, fullName, email string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET fullname = ?, email = ?, updated_at = ? WHERE id = ?`,
		fullName,
		email,
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("update details: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update details: %w", err)
	}
	return requireAffected(res, "update details")
}

func (r *UserRepository) SetAvatarURL(ctx context.Context, userID, avatarURL string) error {
	return r.updateOne(ctx, `
UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`,
		"set avatar url", avatarURL, time.Now().UTC(), userID)
}

func (r *UserRepository) SetCoverImageURL(ctx context.Context, userID, coverImageURL string) error {
	return r.updateOne(ctx, `
UPDATE users SET cover_image_url = ?, updated_at = ? WHERE id = ?`,
		"set cover image url", coverImageURL, time.Now().UTC(), userID)
}

func (r *UserRepository) updateOne(ctx context.Context, query, op string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op)
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
