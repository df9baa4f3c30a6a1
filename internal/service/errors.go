package service

import "errors"

var (
	// ErrValidation indicates a missing or blank required field.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a duplicate username or email.
	ErrConflict = errors.New("user already exists")
	// ErrNotFound indicates a user or channel lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates bad credentials or an invalid, expired, or
	// mismatched token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUploadFailed indicates the remote asset store rejected an upload.
	ErrUploadFailed = errors.New("upload failed")
	// ErrInternal indicates a persistence failure, possibly after external
	// side effects already happened.
	ErrInternal = errors.New("internal error")
)
