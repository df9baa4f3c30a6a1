package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"clipstream/internal/domain"
	"clipstream/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewSubscriptionRepository(db).Init(ctx))
	require.NoError(t, NewVideoRepository(db).Init(ctx))
	return db
}

func seedUser(t *testing.T, users repository.UserRepository, username, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "hash",
		AvatarURL:    "https://cdn/avatar.png",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}
