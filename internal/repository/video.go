package repository

import (
	"context"

	"clipstream/internal/domain"
)

// VideoRepository exposes the video read model and the per-user watch
// history resolved against it.
type VideoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, video *domain.Video) error
	AddWatchEntry(ctx context.Context, userID, videoID string) error
	// WatchHistory resolves the user's ordered history into video summaries,
	// each joined with exactly one owner projection. Most recent first.
	WatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error)
}
