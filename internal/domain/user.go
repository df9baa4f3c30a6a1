package domain

import "time"

// User is the persisted identity record. Username is stored
// lowercase-normalized; PasswordHash and RefreshToken never leave the
// service layer (see Sanitize).
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Sanitize returns a copy with credential material stripped.
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	out.RefreshToken = ""
	return &out
}

// TokenPair is issued on successful authentication. The refresh token is
// mirrored onto the user record; the access token is never persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UploadedAsset is the transient result of one remote upload. It is owned
// by the uploader for the duration of a single use-case call: either its
// URL is persisted onto a user or the asset is deleted before returning.
type UploadedAsset struct {
	URL  string
	Key  string
	Kind AssetKind
}

// AssetKind labels what an uploaded object is used for.
type AssetKind string

const (
	AssetAvatar     AssetKind = "avatar"
	AssetCoverImage AssetKind = "cover"
)
