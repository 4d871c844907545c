package database

import (
	"context"
	"strings"

	"github.com/kipcodes/tweet-manager/internal/database/postgres"
	"github.com/kipcodes/tweet-manager/internal/database/sqlite"
	"github.com/kipcodes/tweet-manager/internal/repository"
)

// Store bundles the repositories backed by one database.
type Store interface {
	Users() repository.User
	Tweets() repository.Tweet
	Sessions() repository.Session
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the store selected by databaseURL and runs its embedded
// migrations. A postgres:// URL selects PostgreSQL; anything else is treated
// as a path to the file-backed sqlite store.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.New(ctx, databaseURL)
	}
	return sqlite.New(ctx, databaseURL)
}
