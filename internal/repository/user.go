package repository

import (
	"context"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// User defines the interface for user persistence.
type User interface {
	// UpsertByTwitterID creates the user on first login or refreshes
	// credentials, profile fields and last_login on subsequent logins.
	// Fills the user's ID and timestamps on return.
	UpsertByTwitterID(ctx context.Context, user *domain.User) error
	GetByTwitterID(ctx context.Context, twitterID string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
