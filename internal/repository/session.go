package repository

import (
	"context"
	"time"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// Session defines the interface for browser session persistence.
type Session interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions past their expiry; returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
