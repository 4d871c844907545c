package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/kipcodes/tweet-manager/internal/database/sqlite/migrations"
	"github.com/kipcodes/tweet-manager/internal/repository"
)

// Store is the file-backed sqlite store, the default when DATABASE_URL is a
// plain path. Writes are serialized with a mutex since sqlite allows a single
// writer at a time.
type Store struct {
	db    *sql.DB
	mutex sync.Mutex

	users    *UserRepository
	tweets   *TweetRepository
	sessions *SessionRepository
}

// New opens (or creates) the database file at path and applies the embedded
// migrations.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("error enabling WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	store := &Store{db: db}
	store.users = &UserRepository{store: store}
	store.tweets = &TweetRepository{store: store}
	store.sessions = &SessionRepository{store: store}
	return store, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Users returns the user repository.
func (s *Store) Users() repository.User { return s.users }

// Tweets returns the tweet mirror repository.
func (s *Store) Tweets() repository.Tweet { return s.tweets }

// Sessions returns the session repository.
func (s *Store) Sessions() repository.Session { return s.sessions }

// Ping checks database liveness.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
