package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/twitter"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) UpsertByTwitterID(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByTwitterID(ctx context.Context, twitterID string) (*domain.User, error) {
	args := m.Called(ctx, twitterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestLoginUpsert(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo)

	profile := &domain.Profile{
		TwitterID:    "12345",
		Username:     "kipcodes",
		DisplayName:  "Kip",
		ProfileImage: "https://example.com/avatar.png",
	}
	creds := twitter.Credentials{Token: "tok", Secret: "sec"}

	repo.On("UpsertByTwitterID", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.TwitterID == "12345" &&
			u.Username == "kipcodes" &&
			u.AccessToken == "tok" &&
			u.AccessTokenSecret == "sec" &&
			!u.LastLogin.IsZero()
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 7
	}).Return(nil)

	saved, err := svc.LoginUpsert(context.Background(), profile, creds)
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID)
	assert.Equal(t, "kipcodes", saved.Username)
	repo.AssertExpectations(t)
}

func TestLoginUpsertRepoError(t *testing.T) {
	repo := new(MockUserRepo)
	svc := NewService(repo)

	repo.On("UpsertByTwitterID", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := svc.LoginUpsert(context.Background(), &domain.Profile{Username: "kipcodes"}, twitter.Credentials{})
	assert.Error(t, err)
}
