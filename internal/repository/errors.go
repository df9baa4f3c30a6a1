package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique constraint rejected the write.
	ErrDuplicate = errors.New("record already exists")
	// ErrStaleRefreshToken indicates a refresh-token rotation lost the
	// compare-and-swap: the stored token no longer matches the presented one.
	ErrStaleRefreshToken = errors.New("stored refresh token does not match")
)
