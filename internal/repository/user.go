package repository

import (
	"context"

	"clipstream/internal/domain"
)

// UserRepository defines persistence operations for User entities.
//
// The store is the single arbiter of uniqueness and of refresh-token
// rotation: Create must fail with ErrDuplicate on a username/email
// collision even if the caller checked first, and RotateRefreshToken must
// be an atomic compare-and-swap.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameOrEmail matches either column; username matching is
	// case-insensitive. Returns ErrNotFound when neither matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	// SetRefreshToken unconditionally sets (or clears, with "") the stored
	// refresh token. It runs no field validation.
	SetRefreshToken(ctx context.Context, userID, token string) error
	// RotateRefreshToken replaces current with next only if the stored
	// token still equals current; otherwise ErrStaleRefreshToken.
	RotateRefreshToken(ctx context.Context, userID, current, next string) error
	SetPasswordHash(ctx context.Context, userID, passwordHash string) error
	UpdateDetails(ctx context.Context, userID, fullName, email string) error
	SetAvatarURL(ctx context.Context, userID, avatarURL string) error
	SetCoverImageURL(ctx context.Context, userID, coverImageURL string) error
}
