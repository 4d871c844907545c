package user

import (
	"context"
	"fmt"
	"time"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/metrics"
	"github.com/kipcodes/tweet-manager/internal/repository"
	"github.com/kipcodes/tweet-manager/internal/twitter"
)

// Service defines the interface for user account operations
type Service interface {
	// LoginUpsert records a completed login: it creates the account on first
	// sight and refreshes profile data and credentials on every return visit.
	LoginUpsert(ctx context.Context, profile *domain.Profile, creds twitter.Credentials) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type service struct {
	repo repository.User
}

func NewService(repo repository.User) Service {
	return &service{repo: repo}
}

func (s *service) LoginUpsert(ctx context.Context, profile *domain.Profile, creds twitter.Credentials) (*domain.User, error) {
	log := logger.FromContext(ctx)

	u := &domain.User{
		TwitterID:         profile.TwitterID,
		Username:          profile.Username,
		DisplayName:       profile.DisplayName,
		ProfileImage:      profile.ProfileImage,
		AccessToken:       creds.Token,
		AccessTokenSecret: creds.Secret,
		LastLogin:         time.Now().UTC(),
	}

	if err := s.repo.UpsertByTwitterID(ctx, u); err != nil {
		return nil, fmt.Errorf("upserting user %s: %w", profile.Username, err)
	}

	metrics.Logins.Inc()
	log.Info("user logged in", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
