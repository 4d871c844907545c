package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/kipcodes/tweet-manager/internal/database/postgres/migrations"
	"github.com/kipcodes/tweet-manager/internal/repository"
)

// Store is the PostgreSQL store, selected by a postgres:// DATABASE_URL.
type Store struct {
	pool *pgxpool.Pool

	users    *UserRepository
	tweets   *TweetRepository
	sessions *SessionRepository
}

// New connects to the server, applies the embedded migrations, and builds the
// repositories on a pgx pool.
func New(ctx context.Context, connString string) (*Store, error) {
	if err := runMigrations(ctx, connString); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	slog.Default().Info("Connected to PostgreSQL")

	store := &Store{pool: pool}
	store.users = &UserRepository{db: pool}
	store.tweets = &TweetRepository{db: pool}
	store.sessions = &SessionRepository{db: pool}
	return store, nil
}

// runMigrations applies goose migrations over a short-lived database/sql
// connection; the pgx pool used for queries is opened afterwards.
func runMigrations(ctx context.Context, connString string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
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
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
