package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clipstream/internal/domain"
	"clipstream/internal/storage"
)

func newUploader(store storage.Service) *AssetUploader {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewAssetUploader(store, logger, time.Second)
}

func TestUploadOptional_AbsentPathSkipsRemoteCall(t *testing.T) {
	store := &MockObjectStore{}
	u := newUploader(store)

	asset, err := u.UploadOptional(context.Background(), "  ", domain.AssetCoverImage)
	require.NoError(t, err)
	assert.Nil(t, asset)
	store.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
}

func TestUploadRequired_BlankPathFailsValidation(t *testing.T) {
	store := &MockObjectStore{}
	u := newUploader(store)

	_, err := u.UploadRequired(context.Background(), "", domain.AssetAvatar)
	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
}

func TestUploadRequired_StoreFailureMapsToUploadFailed(t *testing.T) {
	store := &MockObjectStore{}
	store.On("UploadFile", mock.Anything, "/tmp/a.png").Return(nil, errors.New("boom"))
	u := newUploader(store)

	_, err := u.UploadRequired(context.Background(), "/tmp/a.png", domain.AssetAvatar)
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestRollback_SwallowsDeleteFailures(t *testing.T) {
	store := &MockObjectStore{}
	store.On("DeleteObject", mock.Anything, "a.png").Return(errors.New("remote gone"))
	u := newUploader(store)

	// must not panic or propagate
	u.Rollback(context.Background(), &domain.UploadedAsset{Key: "a.png", Kind: domain.AssetAvatar})
	u.Rollback(context.Background(), nil)
	store.AssertCalled(t, "DeleteObject", mock.Anything, "a.png")
}

func TestRollback_RunsEvenWithCancelledRequestContext(t *testing.T) {
	store := &MockObjectStore{}
	store.On("DeleteObject", mock.Anything, "a.png").Return(nil)
	u := newUploader(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u.Rollback(ctx, &domain.UploadedAsset{Key: "a.png", Kind: domain.AssetAvatar})
	store.AssertCalled(t, "DeleteObject", mock.Anything, "a.png")
}
