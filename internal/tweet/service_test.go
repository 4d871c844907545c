package tweet

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/twitter"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) VerifyCredentials(ctx context.Context, creds twitter.Credentials) (*twitter.Account, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Account), args.Error(1)
}

func (m *MockAPI) UserTimeline(ctx context.Context, creds twitter.Credentials, count int, maxID int64) ([]twitter.Status, error) {
	args := m.Called(ctx, creds, count, maxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]twitter.Status), args.Error(1)
}

func (m *MockAPI) UpdateStatus(ctx context.Context, creds twitter.Credentials, text string) (*twitter.Status, error) {
	args := m.Called(ctx, creds, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Status), args.Error(1)
}

func (m *MockAPI) DestroyStatus(ctx context.Context, creds twitter.Credentials, id int64) (*twitter.Status, error) {
	args := m.Called(ctx, creds, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Status), args.Error(1)
}

func (m *MockAPI) ShowStatus(ctx context.Context, creds twitter.Credentials, id int64) (*twitter.Status, error) {
	args := m.Called(ctx, creds, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Status), args.Error(1)
}

// memMirror is an in-memory repository.Tweet keyed by twitter id.
type memMirror struct {
	mu     sync.Mutex
	rows   map[string]domain.Tweet
	nextID int64
}

func newMemMirror() *memMirror {
	return &memMirror{rows: make(map[string]domain.Tweet)}
}

func (m *memMirror) Insert(_ context.Context, t *domain.Tweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	m.rows[t.TwitterID] = *t
	return nil
}

func (m *memMirror) GetByTwitterID(_ context.Context, userID int64, twitterID string) (*domain.Tweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[twitterID]
	if !ok || row.UserID != userID {
		return nil, domain.ErrTweetNotFound
	}
	out := row
	return &out, nil
}

func (m *memMirror) ReplaceTwitterID(_ context.Context, userID int64, oldTwitterID, newTwitterID, newText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[oldTwitterID]
	if !ok || row.UserID != userID {
		return domain.ErrTweetNotFound
	}
	delete(m.rows, oldTwitterID)
	row.TwitterID = newTwitterID
	row.Text = newText
	m.rows[newTwitterID] = row
	return nil
}

func (m *memMirror) DeleteByTwitterID(_ context.Context, userID int64, twitterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[twitterID]; ok && row.UserID == userID {
		delete(m.rows, twitterID)
	}
	return nil
}

func (m *memMirror) ListByUser(_ context.Context, userID int64) ([]domain.Tweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Tweet
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func testUser() *domain.User {
	return &domain.User{ID: 1, Username: "kipcodes", AccessToken: "tok", AccessTokenSecret: "sec"}
}

func TestStripAttribution(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"posted suffix", "hello" + PostedSuffix, "hello"},
		{"edited suffix", "hello" + EditedSuffix, "hello"},
		{"no suffix", "hello", "hello"},
		{"edited wins over posted", "hello" + PostedSuffix + EditedSuffix, "hello" + PostedSuffix},
		{"only one stripped", "hello" + PostedSuffix + PostedSuffix, "hello" + PostedSuffix},
		{"suffix mid-text untouched", "a" + PostedSuffix + " b", "a" + PostedSuffix + " b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripAttribution(tt.in))
		})
	}
}

func TestCreateAppendsSuffixAndMirrors(t *testing.T) {
	api := new(MockAPI)
	mirror := newMemMirror()
	svc := NewService(api, mirror)
	user := testUser()

	api.On("UpdateStatus", mock.Anything, twitter.Credentials{Token: "tok", Secret: "sec"}, "hello"+PostedSuffix).
		Return(&twitter.Status{ID: 100, IDStr: "100", FullText: "hello" + PostedSuffix}, nil)

	status, err := svc.Create(context.Background(), user, "hello")
	require.NoError(t, err)
	assert.Equal(t, "100", status.IDStr)

	rows, _ := mirror.ListByUser(context.Background(), 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "100", rows[0].TwitterID)
	assert.Equal(t, "hello"+PostedSuffix, rows[0].Text)
	api.AssertExpectations(t)
}

func TestCreateRejectsInvalidText(t *testing.T) {
	api := new(MockAPI)
	svc := NewService(api, newMemMirror())

	_, err := svc.Create(context.Background(), testUser(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyText)

	_, err = svc.Create(context.Background(), testUser(), strings.Repeat("x", domain.MaxTweetLength+1))
	assert.ErrorIs(t, err, domain.ErrTextTooLong)

	// Nothing should have reached the platform.
	api.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateMirrorFailureNotPropagated(t *testing.T) {
	api := new(MockAPI)
	svc := NewService(api, failingMirror{})

	api.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).
		Return(&twitter.Status{ID: 100, IDStr: "100", FullText: "hi" + PostedSuffix}, nil)

	_, err := svc.Create(context.Background(), testUser(), "hi")
	assert.NoError(t, err)
}

type failingMirror struct{}

func (failingMirror) Insert(context.Context, *domain.Tweet) error { return assert.AnError }
func (failingMirror) GetByTwitterID(context.Context, int64, string) (*domain.Tweet, error) {
	return nil, assert.AnError
}
func (failingMirror) ReplaceTwitterID(context.Context, int64, string, string, string) error {
	return assert.AnError
}
func (failingMirror) DeleteByTwitterID(context.Context, int64, string) error { return assert.AnError }
func (failingMirror) ListByUser(context.Context, int64) ([]domain.Tweet, error) {
	return nil, assert.AnError
}

func TestDeleteRemovesMirrorRow(t *testing.T) {
	api := new(MockAPI)
	mirror := newMemMirror()
	svc := NewService(api, mirror)
	user := testUser()

	require.NoError(t, mirror.Insert(context.Background(), &domain.Tweet{TwitterID: "42", UserID: 1, Text: "bye"}))
	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(42)).
		Return(&twitter.Status{ID: 42, IDStr: "42"}, nil)

	require.NoError(t, svc.Delete(context.Background(), user, 42))
	rows, _ := mirror.ListByUser(context.Background(), 1)
	assert.Empty(t, rows)
}

func TestDeleteFailurePreservesMirror(t *testing.T) {
	api := new(MockAPI)
	mirror := newMemMirror()
	svc := NewService(api, mirror)

	require.NoError(t, mirror.Insert(context.Background(), &domain.Tweet{TwitterID: "42", UserID: 1, Text: "bye"}))
	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(42)).
		Return(nil, &twitter.APIError{StatusCode: 404, Code: 144, Message: "No status found"})

	err := svc.Delete(context.Background(), testUser(), 42)
	assert.ErrorIs(t, err, domain.ErrTweetNotFound)

	rows, _ := mirror.ListByUser(context.Background(), 1)
	assert.Len(t, rows, 1)
}

func TestEditReplacesTweet(t *testing.T) {
	api := new(MockAPI)
	mirror := newMemMirror()
	svc := NewService(api, mirror)
	user := testUser()

	require.NoError(t, mirror.Insert(context.Background(), &domain.Tweet{TwitterID: "42", UserID: 1, Text: "old" + PostedSuffix}))

	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(42)).
		Return(&twitter.Status{ID: 42, IDStr: "42"}, nil)
	api.On("UpdateStatus", mock.Anything, mock.Anything, "new"+EditedSuffix).
		Return(&twitter.Status{ID: 99, IDStr: "99", FullText: "new" + EditedSuffix}, nil)

	status, err := svc.Edit(context.Background(), user, 42, "new")
	require.NoError(t, err)
	assert.Equal(t, "99", status.IDStr)

	rows, _ := mirror.ListByUser(context.Background(), 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "99", rows[0].TwitterID)
	assert.Equal(t, "new"+EditedSuffix, rows[0].Text)
}

func TestEditLosesTweetWhenRepostFails(t *testing.T) {
	api := new(MockAPI)
	mirror := newMemMirror()
	svc := NewService(api, mirror)
	user := testUser()

	require.NoError(t, mirror.Insert(context.Background(), &domain.Tweet{TwitterID: "42", UserID: 1, Text: "old"}))

	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(42)).
		Return(&twitter.Status{ID: 42, IDStr: "42"}, nil)
	api.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &twitter.APIError{StatusCode: 403, Code: 187, Message: "Status is a duplicate"})

	_, err := svc.Edit(context.Background(), user, 42, "new")
	assert.ErrorIs(t, err, domain.ErrDuplicateTweet)

	// The original is gone externally, so its mirror row must go too.
	rows, _ := mirror.ListByUser(context.Background(), 1)
	assert.Empty(t, rows)
}

func TestEditUntrackedTweetStartsMirroring(t *testing.T) {
	api := new(MockAPI)
	mirror := newMemMirror()
	svc := NewService(api, mirror)
	user := testUser()

	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(42)).
		Return(&twitter.Status{ID: 42, IDStr: "42"}, nil)
	api.On("UpdateStatus", mock.Anything, mock.Anything, "new"+EditedSuffix).
		Return(&twitter.Status{ID: 99, IDStr: "99", FullText: "new" + EditedSuffix}, nil)

	_, err := svc.Edit(context.Background(), user, 42, "new")
	require.NoError(t, err)

	rows, _ := mirror.ListByUser(context.Background(), 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "99", rows[0].TwitterID)
}

func TestGetForEditStripsSuffixAndCaches(t *testing.T) {
	api := new(MockAPI)
	svc := NewService(api, newMemMirror())
	creds := twitter.Credentials{Token: "tok", Secret: "sec"}

	api.On("ShowStatus", mock.Anything, creds, int64(42)).
		Return(&twitter.Status{ID: 42, IDStr: "42", FullText: "hello" + EditedSuffix}, nil).Once()

	_, text, err := svc.GetForEdit(context.Background(), creds, 42)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	// Second fetch is served from cache; mock would fail on a second call.
	_, text, err = svc.GetForEdit(context.Background(), creds, 42)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	api.AssertExpectations(t)
}

func TestListRecentCursor(t *testing.T) {
	api := new(MockAPI)
	svc := NewService(api, newMemMirror())
	creds := twitter.Credentials{Token: "tok", Secret: "sec"}

	api.On("UserTimeline", mock.Anything, creds, 20, int64(0)).
		Return([]twitter.Status{{ID: 3}}, nil).Once()
	api.On("UserTimeline", mock.Anything, creds, 20, int64(2)).
		Return([]twitter.Status{{ID: 1}}, nil).Once()

	first, err := svc.ListRecent(context.Background(), creds, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first[0].ID)

	// Page two passes the oldest seen id minus one.
	second, err := svc.ListRecent(context.Background(), creds, 20, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second[0].ID)
	api.AssertExpectations(t)
}

func TestBatchDeleteCountsIndependently(t *testing.T) {
	api := new(MockAPI)
	mirror := newMemMirror()
	svc := NewService(api, mirror)
	user := testUser()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, mirror.Insert(context.Background(), &domain.Tweet{TwitterID: id, UserID: 1, Text: "t"}))
	}

	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(1)).
		Return(&twitter.Status{ID: 1, IDStr: "1"}, nil)
	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(2)).
		Return(nil, &twitter.APIError{StatusCode: 404, Code: 34, Message: "Sorry, that page does not exist"})
	api.On("DestroyStatus", mock.Anything, mock.Anything, int64(3)).
		Return(&twitter.Status{ID: 3, IDStr: "3"}, nil)

	res, err := svc.BatchDelete(context.Background(), user, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)

	// Only the failed id keeps its mirror row.
	rows, _ := mirror.ListByUser(context.Background(), 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].TwitterID)
}
