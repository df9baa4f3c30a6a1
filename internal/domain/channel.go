package domain

import "time"

// ChannelProfile is the public projection of a user's channel, including
// counts computed from the subscription relation. Email is populated only
// when the requester is the channel owner.
type ChannelProfile struct {
	ID              string
	Username        string
	FullName        string
	Email           string
	AvatarURL       string
	CoverImageURL   string
	SubscriberCount int64
	SubscribedTo    int64
	IsSubscribed    bool
}

// Video is the opaque read model joined into the watch-history view.
type Video struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	ThumbnailURL string
	VideoURL     string
	Duration     int64
	Views        int64
	CreatedAt    time.Time
}

// VideoOwner is the single denormalized owner projection attached to each
// watch-history entry.
type VideoOwner struct {
	ID        string
	Username  string
	FullName  string
	AvatarURL string
}

// WatchHistoryEntry pairs a watched video with its owner, ordered by watch
// time.
type WatchHistoryEntry struct {
	Video     Video
	Owner     VideoOwner
	WatchedAt time.Time
}
