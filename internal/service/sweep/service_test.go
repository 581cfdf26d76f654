package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/notifier"
	"github.com/iamtxena/finance-scoop/internal/reddit"
	"github.com/iamtxena/finance-scoop/internal/repository"
)

var sweepTime = time.Unix(1_700_000_000, 0).UTC()

// freshUTC returns a created_utc that is age old relative to sweepTime.
func freshUTC(age time.Duration) float64 {
	return float64(sweepTime.Add(-age).Unix())
}

type fakeAlertRepo struct {
	active []*model.Alert
	err    error
}

func (f *fakeAlertRepo) Create(context.Context, *model.Alert) error { return nil }
func (f *fakeAlertRepo) Get(context.Context, uuid.UUID, string) (*model.Alert, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeAlertRepo) Update(context.Context, *model.Alert) error       { return nil }
func (f *fakeAlertRepo) Delete(context.Context, uuid.UUID, string) error  { return nil }
func (f *fakeAlertRepo) List(context.Context, string) ([]*model.Alert, error) { return nil, nil }
func (f *fakeAlertRepo) ListActive(context.Context) ([]*model.Alert, error) {
	return f.active, f.err
}

type fakePostRepo struct {
	mu        sync.Mutex
	seen      map[string]*model.Post
	existsErr error
	createErr error
	// duplicateOnCreate simulates losing an insert race: Exists answers
	// false but Create reports a duplicate.
	duplicateOnCreate bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{seen: make(map[string]*model.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.duplicateOnCreate {
		return repository.ErrDuplicate
	}
	if _, ok := f.seen[post.PostID]; ok {
		return repository.ErrDuplicate
	}
	f.seen[post.PostID] = post
	return nil
}

func (f *fakePostRepo) Exists(_ context.Context, postID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.seen[postID]
	return ok, nil
}

func (f *fakePostRepo) List(context.Context, string, int) ([]*model.Post, error) { return nil, nil }

type fakeNotificationRepo struct {
	mu      sync.Mutex
	entries []*model.Notification
	err     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, n)
	return nil
}

func (f *fakeNotificationRepo) List(context.Context, string, int) ([]*model.Notification, error) {
	return nil, nil
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	err      error
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) Upsert(context.Context, *model.Profile) error { return nil }

type fakeSearcher struct {
	// results is keyed subreddit+"/"+query.
	results map[string][]reddit.Post
	errs    map[string]error
	calls   []string
}

func (f *fakeSearcher) Search(_ context.Context, subreddit, query string, limit int) ([]reddit.Post, error) {
	key := subreddit + "/" + query
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.results[key], nil
}

type fakeClassifier struct {
	// sentiments is keyed by post title.
	sentiments map[string]model.Sentiment
	errs       map[string]error
	calls      int
}

func (f *fakeClassifier) ClassifySentiment(_ context.Context, text string) (model.Sentiment, error) {
	f.calls++
	for title, err := range f.errs {
		if len(text) >= len(title) && text[:len(title)] == title {
			return "", err
		}
	}
	for title, sentiment := range f.sentiments {
		if len(text) >= len(title) && text[:len(title)] == title {
			return sentiment, nil
		}
	}
	return model.SentimentIrrelevant, nil
}

func (f *fakeClassifier) DraftReply(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeClassifier) Summarize(context.Context, string) (string, error) { return "", nil }

type dispatchCall struct {
	Email    string
	Data     notifier.Data
	Channels notifier.Channels
}

type fakeDispatcher struct {
	calls   []dispatchCall
	results []notifier.ChannelResult
}

func (f *fakeDispatcher) Dispatch(_ context.Context, email string, data notifier.Data, channels notifier.Channels) []notifier.ChannelResult {
	f.calls = append(f.calls, dispatchCall{Email: email, Data: data, Channels: channels})
	return f.results
}

type fixture struct {
	alerts        *fakeAlertRepo
	posts         *fakePostRepo
	notifications *fakeNotificationRepo
	profiles      *fakeProfileRepo
	searcher      *fakeSearcher
	classifier    *fakeClassifier
	dispatcher    *fakeDispatcher
	service       *Service
}

func newFixture(alerts ...*model.Alert) *fixture {
	f := &fixture{
		alerts:        &fakeAlertRepo{active: alerts},
		posts:         newFakePostRepo(),
		notifications: &fakeNotificationRepo{},
		profiles:      &fakeProfileRepo{profiles: make(map[string]*model.Profile)},
		searcher:      &fakeSearcher{results: make(map[string][]reddit.Post), errs: make(map[string]error)},
		classifier:    &fakeClassifier{sentiments: make(map[string]model.Sentiment), errs: make(map[string]error)},
		dispatcher: &fakeDispatcher{results: []notifier.ChannelResult{
			{Channel: model.ChannelEmail},
		}},
	}
	f.service = NewService(
		f.alerts, f.posts, f.notifications, f.profiles,
		f.searcher, f.classifier, f.dispatcher,
		nil, zerolog.Nop(),
		Config{RecencyWindow: 900 * time.Second, SearchLimit: 10},
	)
	f.service.now = func() time.Time { return sweepTime }
	return f
}

func testAlert(userID string, keywords, subreddits []string) *model.Alert {
	return &model.Alert{
		ID:          uuid.New(),
		UserID:      userID,
		Keywords:    keywords,
		Subreddits:  subreddits,
		Active:      true,
		TriggerMode: model.TriggerModeRecurring,
	}
}

func testPost(id, title string, createdUTC float64) reddit.Post {
	return reddit.Post{
		ID:         id,
		Title:      title,
		Selftext:   "body of " + id,
		Author:     "author",
		Subreddit:  "stocks",
		Score:      5,
		CreatedUTC: createdUTC,
		Permalink:  "https://reddit.com/r/stocks/comments/" + id + "/",
	}
}

func TestRunOpportunityNotifies(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.profiles.profiles["user-1"] = &model.Profile{
		UserID:            "user-1",
		EmailAddress:      "user@example.com",
		NotificationEmail: true,
		NotificationSlack: true,
	}
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA earnings blowout", freshUTC(time.Minute)),
	}
	f.classifier.sentiments["NVDA earnings blowout"] = model.SentimentOpportunity

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Alerts)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Notifications)

	require.Len(t, f.dispatcher.calls, 1)
	call := f.dispatcher.calls[0]
	assert.Equal(t, "user@example.com", call.Email)
	assert.Equal(t, notifier.Channels{Email: true, Slack: true}, call.Channels)
	assert.Equal(t, "NVDA earnings blowout", call.Data.PostTitle)
	assert.Equal(t, []string{"NVDA"}, call.Data.Keywords)

	require.Len(t, f.notifications.entries, 1)
	entry := f.notifications.entries[0]
	assert.Equal(t, model.ChannelEmail, entry.Type)
	assert.Equal(t, "New opportunity: NVDA earnings blowout", entry.Content)
	assert.True(t, entry.Sent)

	stored := f.posts.seen["p1"]
	require.NotNil(t, stored)
	require.NotNil(t, stored.Sentiment)
	assert.Equal(t, model.SentimentOpportunity, *stored.Sentiment)
	assert.Equal(t, "user-1", stored.UserID)
}

func TestRunNeutralRecordsWithoutNotifying(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.profiles.profiles["user-1"] = &model.Profile{UserID: "user-1", EmailAddress: "user@example.com", NotificationEmail: true}
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA sideways", freshUTC(time.Minute)),
	}
	f.classifier.sentiments["NVDA sideways"] = model.SentimentNeutral

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Notifications)
	assert.Empty(t, f.dispatcher.calls)
	assert.Empty(t, f.notifications.entries)
	assert.Contains(t, f.posts.seen, "p1", "non-opportunity posts are still recorded")
}

func TestRunSkipsStalePosts(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("old", "NVDA last week", freshUTC(16*time.Minute)),
		testPost("edge", "NVDA at cutoff", freshUTC(15*time.Minute)),
		testPost("new", "NVDA just now", freshUTC(time.Minute)),
	}

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, f.classifier.calls, "stale posts are never classified")
	assert.Contains(t, f.posts.seen, "new")
	assert.NotContains(t, f.posts.seen, "old")
	assert.NotContains(t, f.posts.seen, "edge", "a post exactly at the cutoff is stale")
}

func TestRunDedupAcrossRuns(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA thread", freshUTC(time.Minute)),
	}

	first, err := f.service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := f.service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed, "second run sees the post as already processed")
	assert.Equal(t, 1, f.classifier.calls, "seen posts are never re-classified")
}

func TestRunDedupAcrossOverlappingAlerts(t *testing.T) {
	f := newFixture(
		testAlert("user-1", []string{"NVDA"}, []string{"stocks"}),
		testAlert("user-2", []string{"NVDA"}, []string{"stocks"}),
	)
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA thread", freshUTC(time.Minute)),
	}

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Alerts)
	assert.Equal(t, 1, result.Processed, "a shared post is recorded once for the first alert")
}

func TestRunWithoutProfileRecordsButNeverNotifies(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA rocket", freshUTC(time.Minute)),
	}
	f.classifier.sentiments["NVDA rocket"] = model.SentimentOpportunity

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Notifications)
	assert.Empty(t, f.dispatcher.calls)
	assert.Contains(t, f.posts.seen, "p1")
}

func TestRunPairFailureIsolation(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA", "TSLA"}, []string{"stocks"}))
	f.searcher.errs["stocks/NVDA"] = errors.New("reddit unavailable")
	f.searcher.results["stocks/TSLA"] = []reddit.Post{
		testPost("p2", "TSLA delivery numbers", freshUTC(time.Minute)),
	}

	result, err := f.service.Run(context.Background())
	require.NoError(t, err, "one failed pair must not fail the sweep")
	assert.Equal(t, 1, result.Processed)
	assert.Len(t, f.searcher.calls, 2, "the sibling pair is still evaluated")
}

func TestRunCandidateFailureIsolation(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA bad candidate", freshUTC(2*time.Minute)),
		testPost("p2", "NVDA good candidate", freshUTC(time.Minute)),
	}
	f.classifier.errs["NVDA bad candidate"] = errors.New("model timeout")

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed, "failed candidate is skipped, sibling survives")
	assert.NotContains(t, f.posts.seen, "p1", "a post that failed classification is not recorded")
	assert.Contains(t, f.posts.seen, "p2")
}

func TestRunInsertRaceTreatedAsSeen(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.posts.duplicateOnCreate = true
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA thread", freshUTC(time.Minute)),
	}
	f.classifier.sentiments["NVDA thread"] = model.SentimentOpportunity

	result, err := f.service.Run(context.Background())
	require.NoError(t, err, "losing the insert race is not an error")
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Notifications)
	assert.Empty(t, f.dispatcher.calls, "the race loser never notifies")
}

func TestRunListActiveFailureFailsSweep(t *testing.T) {
	f := newFixture()
	f.alerts.err = errors.New("database down")

	_, err := f.service.Run(context.Background())
	require.Error(t, err)
}

func TestRunEmptyAlerts(t *testing.T) {
	f := newFixture()

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)
	assert.Empty(t, f.searcher.calls)
}

func TestRunChannelFailureStillRecordsNotification(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA"}, []string{"stocks"}))
	f.profiles.profiles["user-1"] = &model.Profile{
		UserID:            "user-1",
		EmailAddress:      "user@example.com",
		NotificationSlack: true,
	}
	f.dispatcher.results = []notifier.ChannelResult{
		{Channel: model.ChannelSlack, Err: errors.New("webhook 500")},
	}
	f.searcher.results["stocks/NVDA"] = []reddit.Post{
		testPost("p1", "NVDA opportunity", freshUTC(time.Minute)),
	}
	f.classifier.sentiments["NVDA opportunity"] = model.SentimentOpportunity

	result, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Notifications)
	require.Len(t, f.notifications.entries, 1)
	entry := f.notifications.entries[0]
	assert.Equal(t, model.ChannelSlack, entry.Type, "slack is recorded when email is disabled")
	assert.True(t, entry.Sent, "the entry records the attempt, not delivery")
}

func TestRunWalksFullCrossProduct(t *testing.T) {
	f := newFixture(testAlert("user-1", []string{"NVDA", "TSLA"}, []string{"stocks", "investing"}))

	_, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"stocks/NVDA", "investing/NVDA",
		"stocks/TSLA", "investing/TSLA",
	}, f.searcher.calls)
}

func TestNewServiceDefaults(t *testing.T) {
	s := NewService(nil, nil, nil, nil, nil, nil, nil, nil, zerolog.Nop(), Config{})
	assert.Equal(t, 900*time.Second, s.cfg.RecencyWindow)
	assert.Equal(t, 10, s.cfg.SearchLimit)
}
