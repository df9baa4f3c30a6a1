package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clipstream/internal/domain"
	"clipstream/internal/repository"
	"clipstream/internal/token"
)

// RegisterInput carries the fields of one registration attempt. The image
// paths point at locally spooled files; CoverImagePath may be empty.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginInput carries login credentials; either Username or Email must be
// set.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// UserService implements the account/session lifecycle.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*domain.User, domain.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	RefreshTokens(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetCurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error)
	GetChannelProfile(ctx context.Context, username, requesterID string) (*domain.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error)
}

type userService struct {
	users         repository.UserRepository
	subscriptions repository.SubscriptionRepository
	videos        repository.VideoRepository
	tokens        *token.Manager
	uploader      *AssetUploader
}

func NewUserService(
	users repository.UserRepository,
	subscriptions repository.SubscriptionRepository,
	videos repository.VideoRepository,
	tokens *token.Manager,
	uploader *AssetUploader,
) UserService {
	return &userService{
		users:         users,
		subscriptions: subscriptions,
		videos:        videos,
		tokens:        tokens,
		uploader:      uploader,
	}
}

// Register validates input, checks for duplicates, uploads the avatar
// (mandatory) and cover image (optional), then persists the user. If
// persistence fails after uploads succeeded, both remote assets are
// deleted before the error surfaces.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	password := strings.TrimSpace(in.Password)

	if fullName == "" || email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username or email is taken", ErrConflict)
	}

	avatar, err := s.uploader.UploadRequired(ctx, in.AvatarPath, domain.AssetAvatar)
	if err != nil {
		return nil, err
	}
	cover, err := s.uploader.UploadOptional(ctx, in.CoverImagePath, domain.AssetCoverImage)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.rollbackAssets(ctx, avatar, cover)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		AvatarURL:    avatar.URL,
	}
	if cover != nil {
		user.CoverImageURL = cover.URL
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.rollbackAssets(ctx, avatar, cover)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email is taken", ErrConflict)
		}
		return nil, fmt.Errorf("%w: persist user: %v", ErrInternal, err)
	}

	return user.Sanitize(), nil
}

// Login resolves the user by username or email, verifies the password,
// mints a token pair and persists the new refresh token.
func (s *userService) Login(ctx context.Context, in LoginInput) (*domain.User, domain.TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	if (username == "" && email == "") || password == "" {
		return nil, domain.TokenPair{}, fmt.Errorf("%w: username or email and password are required", ErrValidation)
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.TokenPair{}, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	pair, err := s.tokens.MintPair(user)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("mint tokens: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("%w: persist refresh token: %v", ErrInternal, err)
	}

	return user.Sanitize(), pair, nil
}

// Logout clears the stored refresh token, invalidating the session.
func (s *userService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// RefreshTokens verifies the presented refresh token, confirms it is still
// the one stored for the user, and rotates it for a fresh pair. The swap
// is a store-level compare-and-swap: of two concurrent calls presenting
// the same token, at most one succeeds.
func (s *userService) RefreshTokens(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: refresh token is required", ErrUnauthorized)
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.TokenPair{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	// fast-path reuse detection; the rotation below is the real guard
	if user.RefreshToken != refreshToken {
		return domain.TokenPair{}, fmt.Errorf("%w: refresh token is expired or used", ErrUnauthorized)
	}

	pair, err := s.tokens.MintPair(user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("mint tokens: %w", err)
	}

	if err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, repository.ErrStaleRefreshToken) {
			return domain.TokenPair{}, fmt.Errorf("%w: refresh token is expired or used", ErrUnauthorized)
		}
		return domain.TokenPair{}, fmt.Errorf("%w: rotate refresh token: %v", ErrInternal, err)
	}

	return pair, nil
}

// ChangePassword verifies the old password before re-hashing the new one.
func (s *userService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(oldPassword))) != nil {
		return fmt.Errorf("%w: old password is incorrect", ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("%w: persist password: %v", ErrInternal, err)
	}
	return nil
}

func (s *userService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user.Sanitize(), nil
}

func (s *userService) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, fmt.Errorf("%w: fullname and email are required", ErrValidation)
	}

	if err := s.users.UpdateDetails(ctx, userID, fullName, email); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: email is taken", ErrConflict)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: update details: %v", ErrInternal, err)
	}
	return s.GetCurrentUser(ctx, userID)
}

// UpdateAvatar uploads the new avatar and persists its URL. If the store
// update fails, the freshly uploaded asset is rolled back; the previously
// stored avatar stays in place either way.
func (s *userService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error) {
	asset, err := s.uploader.UploadRequired(ctx, localPath, domain.AssetAvatar)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetAvatarURL(ctx, userID, asset.URL); err != nil {
		s.uploader.Rollback(ctx, asset)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: persist avatar: %v", ErrInternal, err)
	}
	return s.GetCurrentUser(ctx, userID)
}

// UpdateCoverImage mirrors UpdateAvatar for the cover image.
func (s *userService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error) {
	asset, err := s.uploader.UploadRequired(ctx, localPath, domain.AssetCoverImage)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetCoverImageURL(ctx, userID, asset.URL); err != nil {
		s.uploader.Rollback(ctx, asset)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: persist cover image: %v", ErrInternal, err)
	}
	return s.GetCurrentUser(ctx, userID)
}

// GetChannelProfile projects a public channel view joined against the
// subscription relation. Email is only exposed to the channel owner.
func (s *userService) GetChannelProfile(ctx context.Context, username, requesterID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: channel does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("lookup channel: %w", err)
	}

	subscribers, err := s.subscriptions.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	subscribedTo, err := s.subscriptions.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count subscribed channels: %w", err)
	}

	profile := &domain.ChannelProfile{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		AvatarURL:       user.AvatarURL,
		CoverImageURL:   user.CoverImageURL,
		SubscriberCount: subscribers,
		SubscribedTo:    subscribedTo,
	}

	if requesterID != "" {
		subscribed, err := s.subscriptions.IsSubscribed(ctx, requesterID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check subscription: %w", err)
		}
		profile.IsSubscribed = subscribed
		if requesterID == user.ID {
			profile.Email = user.Email
		}
	}

	return profile, nil
}

func (s *userService) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error) {
	entries, err := s.videos.WatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load watch history: %w", err)
	}
	return entries, nil
}

func (s *userService) rollbackAssets(ctx context.Context, assets ...*domain.UploadedAsset) {
	for _, asset := range assets {
		s.uploader.Rollback(ctx, asset)
	}
}
