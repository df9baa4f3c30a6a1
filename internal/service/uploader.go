package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"clipstream/internal/domain"
	"clipstream/internal/storage"
)

// AssetUploader coordinates remote asset uploads for the user use cases.
// Its contract: an asset it returns is either handed off (its URL persisted
// onto a user) or passed back to Rollback before the enclosing call
// returns. It never leaves a remote object orphaned on the success path.
type AssetUploader struct {
	store   storage.Service
	logger  *logrus.Logger
	timeout time.Duration
}

func NewAssetUploader(store storage.Service, logger *logrus.Logger, timeout time.Duration) *AssetUploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AssetUploader{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

// UploadRequired uploads a mandatory asset. A blank local path fails
// ErrValidation before any remote call.
func (u *AssetUploader) UploadRequired(ctx context.Context, localPath string, kind domain.AssetKind) (*domain.UploadedAsset, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, fmt.Errorf("%w: %s file is required", ErrValidation, kind)
	}
	return u.upload(ctx, localPath, kind)
}

// UploadOptional uploads an asset if a local path is present. Absence is
// not an error and triggers no remote call.
func (u *AssetUploader) UploadOptional(ctx context.Context, localPath string, kind domain.AssetKind) (*domain.UploadedAsset, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, nil
	}
	return u.upload(ctx, localPath, kind)
}

// Rollback best-effort deletes a previously uploaded asset. Failures are
// logged, never propagated: cleanup must not mask the error that caused it.
func (u *AssetUploader) Rollback(ctx context.Context, asset *domain.UploadedAsset) {
	if asset == nil {
		return
	}
	// the enclosing request may already be failing or cancelled; the
	// compensation still has to run
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.timeout)
	defer cancel()

	if err := u.store.DeleteObject(ctx, asset.Key); err != nil {
		u.logger.Warnf("rollback %s asset %s: %v", asset.Kind, asset.Key, err)
	}
}

func (u *AssetUploader) upload(ctx context.Context, localPath string, kind domain.AssetKind) (*domain.UploadedAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	obj, err := u.store.UploadFile(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUploadFailed, kind, err)
	}
	return &domain.UploadedAsset{URL: obj.URL, Key: obj.Key, Kind: kind}, nil
}
