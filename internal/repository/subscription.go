package repository

import "context"

// SubscriptionRepository exposes the subscription relation as a read model
// for the channel-profile view, plus the minimal write needed to seed it.
type SubscriptionRepository interface {
	Init(ctx context.Context) error
	Subscribe(ctx context.Context, subscriberID, channelID string) error
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}
