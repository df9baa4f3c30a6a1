package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clipstream/internal/domain"
	"clipstream/internal/repository"
)

const createVideoTables = `
CREATE TABLE IF NOT EXISTS videos (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	thumbnail_url TEXT NOT NULL DEFAULT '',
	video_url TEXT NOT NULL,
	duration INTEGER NOT NULL DEFAULT 0,
	views INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS watch_history (
	user_id TEXT NOT NULL REFERENCES users(id),
	video_id TEXT NOT NULL REFERENCES videos(id),
	watched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_watch_history_user ON watch_history(user_id, watched_at);
`

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) repository.VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVideoTables); err != nil {
		return fmt.Errorf("create video tables: %w", err)
	}
	return nil
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO videos (id, owner_id, title, description, thumbnail_url, video_url, duration, views, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.VideoURL,
		video.Duration,
		video.Views,
		video.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) AddWatchEntry(ctx context.Context, userID, videoID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO watch_history (user_id, video_id, watched_at)
VALUES (?, ?, ?)`,
		userID,
		videoID,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert watch entry: %w", err)
	}
	return nil
}

// WatchHistory joins each history row against its video and the video's
// owner. The join is on the owner's primary key, so exactly one owner row
// matches per video.
func (r *VideoRepository) WatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT v.id, v.owner_id, v.title, v.description, v.thumbnail_url, v.video_url, v.duration, v.views, v.created_at,
	u.id, u.username, u.fullname, u.avatar_url,
	h.watched_at
FROM watch_history h
JOIN videos v ON v.id = h.video_id
JOIN users u ON u.id = v.owner_id
WHERE h.user_id = ?
ORDER BY h.watched_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchHistoryEntry
	for rows.Next() {
		var e domain.WatchHistoryEntry
		if err := rows.Scan(
			&e.Video.ID,
			&e.Video.OwnerID,
			&e.Video.Title,
			&e.Video.Description,
			&e.Video.ThumbnailURL,
			&e.Video.VideoURL,
			&e.Video.Duration,
			&e.Video.Views,
			&e.Video.CreatedAt,
			&e.Owner.ID,
			&e.Owner.Username,
			&e.Owner.FullName,
			&e.Owner.AvatarURL,
			&e.WatchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan watch entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}
	return entries, nil
}
