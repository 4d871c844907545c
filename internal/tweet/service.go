package tweet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/metrics"
	"github.com/kipcodes/tweet-manager/internal/repository"
	"github.com/kipcodes/tweet-manager/internal/twitter"
)

// Attribution suffixes appended to everything posted through the app.
const (
	PostedSuffix = " [posted from kipcodes]"
	EditedSuffix = " [edited via kipcodes]"
)

const (
	editCacheSize = 256
	editCacheTTL  = 30 * time.Second
)

// BatchResult summarizes a batch delete. Individual errors are logged, not
// collected; callers only get the counts.
type BatchResult struct {
	Succeeded int
	Failed    int
}

// Service defines the interface for tweet operations. All external calls go
// out with the acting user's own credentials; the local mirror only tracks
// tweets created through the app.
type Service interface {
	ListRecent(ctx context.Context, creds twitter.Credentials, count int, beforeID int64) ([]twitter.Status, error)
	Create(ctx context.Context, user *domain.User, text string) (*twitter.Status, error)
	Delete(ctx context.Context, user *domain.User, id int64) error
	Edit(ctx context.Context, user *domain.User, id int64, newText string) (*twitter.Status, error)
	// GetForEdit fetches a single tweet and returns its text with the
	// attribution suffix stripped, ready to prefill an edit form.
	GetForEdit(ctx context.Context, creds twitter.Credentials, id int64) (*twitter.Status, string, error)
	BatchDelete(ctx context.Context, user *domain.User, ids []int64) (BatchResult, error)
}

type service struct {
	api       twitter.API
	repo      repository.Tweet
	editCache *expirable.LRU[int64, *twitter.Status]
}

func NewService(api twitter.API, repo repository.Tweet) Service {
	return &service{
		api:       api,
		repo:      repo,
		editCache: expirable.NewLRU[int64, *twitter.Status](editCacheSize, nil, editCacheTTL),
	}
}

// StripAttribution removes at most one attribution suffix from text. The
// edited variant is checked first so an edited tweet never keeps a stale
// posted marker.
func StripAttribution(text string) string {
	if strings.HasSuffix(text, EditedSuffix) {
		return strings.TrimSuffix(text, EditedSuffix)
	}
	return strings.TrimSuffix(text, PostedSuffix)
}

func credentials(user *domain.User) twitter.Credentials {
	return twitter.Credentials{Token: user.AccessToken, Secret: user.AccessTokenSecret}
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyText
	}
	if utf8.RuneCountInString(text) > domain.MaxTweetLength {
		return domain.ErrTextTooLong
	}
	return nil
}

func (s *service) ListRecent(ctx context.Context, creds twitter.Credentials, count int, beforeID int64) ([]twitter.Status, error) {
	maxID := int64(0)
	if beforeID > 0 {
		// max_id is inclusive, so step below the cursor to avoid repeating it.
		maxID = beforeID - 1
	}
	statuses, err := s.api.UserTimeline(ctx, creds, count, maxID)
	if err != nil {
		return nil, fmt.Errorf("fetching timeline: %w", err)
	}
	return statuses, nil
}

func (s *service) Create(ctx context.Context, user *domain.User, text string) (*twitter.Status, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	status, err := s.api.UpdateStatus(ctx, credentials(user), text+PostedSuffix)
	if err != nil {
		return nil, fmt.Errorf("posting tweet: %w", err)
	}

	s.mirrorInsert(ctx, user.ID, status)
	metrics.TweetsCreated.Inc()
	return status, nil
}

func (s *service) Delete(ctx context.Context, user *domain.User, id int64) error {
	if _, err := s.api.DestroyStatus(ctx, credentials(user), id); err != nil {
		return fmt.Errorf("deleting tweet %d: %w", id, err)
	}

	s.mirrorDelete(ctx, user.ID, id)
	s.editCache.Remove(id)
	metrics.TweetsDeleted.Inc()
	return nil
}

// Edit is a delete followed by a re-create; the platform has no in-place
// update. The two calls are not atomic: if the re-create fails the original
// is already gone and the caller is told so.
func (s *service) Edit(ctx context.Context, user *domain.User, id int64, newText string) (*twitter.Status, error) {
	if err := validateText(newText); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	creds := credentials(user)

	if _, err := s.api.DestroyStatus(ctx, creds, id); err != nil {
		return nil, fmt.Errorf("removing tweet %d for edit: %w", id, err)
	}
	s.editCache.Remove(id)

	status, err := s.api.UpdateStatus(ctx, creds, newText+EditedSuffix)
	if err != nil {
		// The original is gone and nothing replaced it. Drop the stale
		// mirror row so the dashboard stops claiming the tweet exists.
		s.mirrorDelete(ctx, user.ID, id)
		metrics.TweetEditLosses.Inc()
		log.Error("edit lost tweet", "tweet_id", id, "error", err)
		return nil, fmt.Errorf("%w: reposting tweet %d: %w", domain.ErrEditLost, id, err)
	}

	oldID := strconv.FormatInt(id, 10)
	err = s.repo.ReplaceTwitterID(ctx, user.ID, oldID, status.IDStr, status.TextContent())
	if errors.Is(err, domain.ErrTweetNotFound) {
		// Edited a tweet the app never created; the replacement is ours now.
		s.mirrorInsert(ctx, user.ID, status)
	} else if err != nil {
		log.Warn("mirror update failed", "tweet_id", status.IDStr, "error", err)
	}
	metrics.TweetsEdited.Inc()
	return status, nil
}

func (s *service) GetForEdit(ctx context.Context, creds twitter.Credentials, id int64) (*twitter.Status, string, error) {
	status, ok := s.editCache.Get(id)
	if !ok {
		var err error
		status, err = s.api.ShowStatus(ctx, creds, id)
		if err != nil {
			return nil, "", fmt.Errorf("fetching tweet %d: %w", id, err)
		}
		s.editCache.Add(id, status)
	}
	return status, StripAttribution(status.TextContent()), nil
}

func (s *service) BatchDelete(ctx context.Context, user *domain.User, ids []int64) (BatchResult, error) {
	log := logger.FromContext(ctx)
	var res BatchResult

	for _, id := range ids {
		if err := s.Delete(ctx, user, id); err != nil {
			log.Warn("batch delete failed for tweet", "tweet_id", id, "error", err)
			metrics.BatchDeleteFailures.Inc()
			res.Failed++
			continue
		}
		res.Succeeded++
	}
	return res, nil
}

func (s *service) mirrorInsert(ctx context.Context, userID int64, status *twitter.Status) {
	t := &domain.Tweet{
		TwitterID: status.IDStr,
		UserID:    userID,
		Text:      status.TextContent(),
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		logger.FromContext(ctx).Warn("mirror insert failed", "tweet_id", status.IDStr, "error", err)
	}
}

func (s *service) mirrorDelete(ctx context.Context, userID int64, id int64) {
	if err := s.repo.DeleteByTwitterID(ctx, userID, strconv.FormatInt(id, 10)); err != nil {
		logger.FromContext(ctx).Warn("mirror delete failed", "tweet_id", id, "error", err)
	}
}
