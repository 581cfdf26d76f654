package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamtxena/finance-scoop/internal/model"
)

type recordingEmail struct {
	calls []string
	err   error
}

func (r *recordingEmail) Send(_ context.Context, to string, _ Data) error {
	r.calls = append(r.calls, to)
	return r.err
}

type recordingSlack struct {
	calls int
	err   error
}

func (r *recordingSlack) Send(context.Context, Data) error {
	r.calls++
	return r.err
}

func TestDispatchBothChannels(t *testing.T) {
	email := &recordingEmail{}
	slack := &recordingSlack{}
	d := &dispatcher{email: email, slack: slack}

	results := d.Dispatch(context.Background(), "user@example.com", Data{PostTitle: "t"}, Channels{Email: true, Slack: true})

	require.Len(t, results, 2)
	assert.Equal(t, model.ChannelEmail, results[0].Channel)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, model.ChannelSlack, results[1].Channel)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, []string{"user@example.com"}, email.calls)
	assert.Equal(t, 1, slack.calls)
}

func TestDispatchChannelFailureIsolation(t *testing.T) {
	email := &recordingEmail{err: errors.New("smtp refused")}
	slack := &recordingSlack{}
	d := &dispatcher{email: email, slack: slack}

	results := d.Dispatch(context.Background(), "user@example.com", Data{}, Channels{Email: true, Slack: true})

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err, "slack still attempted after email failure")
	assert.Equal(t, 1, slack.calls)
}

func TestDispatchRespectsToggles(t *testing.T) {
	email := &recordingEmail{}
	slack := &recordingSlack{}
	d := &dispatcher{email: email, slack: slack}

	results := d.Dispatch(context.Background(), "user@example.com", Data{}, Channels{Slack: true})

	require.Len(t, results, 1)
	assert.Equal(t, model.ChannelSlack, results[0].Channel)
	assert.Empty(t, email.calls)
}

func TestDispatchSkipsEmailWithoutAddress(t *testing.T) {
	email := &recordingEmail{}
	d := &dispatcher{email: email}

	results := d.Dispatch(context.Background(), "", Data{}, Channels{Email: true})

	assert.Empty(t, results, "email enabled but no address means nothing to do")
	assert.Empty(t, email.calls)
}

func TestDispatchUnconfiguredChannels(t *testing.T) {
	d := New(nil, nil)
	results := d.Dispatch(context.Background(), "user@example.com", Data{}, Channels{Email: true, Slack: true})
	assert.Empty(t, results)
}

func TestSlackNotifierSend(t *testing.T) {
	var payload slackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	n := NewSlackNotifier(srv.URL)
	err := n.Send(context.Background(), Data{
		PostTitle: "NVDA earnings",
		PostURL:   "https://reddit.com/r/stocks/comments/abc1/",
		Subreddit: "stocks",
		Sentiment: "opportunity",
		Keywords:  []string{"NVDA"},
	})
	require.NoError(t, err)

	require.Len(t, payload.Blocks, 3)
	assert.Equal(t, "header", payload.Blocks[0].Type)
	assert.Contains(t, payload.Blocks[1].Text.Text, "NVDA earnings")
	assert.Contains(t, payload.Blocks[1].Text.Text, "r/stocks")
	require.Len(t, payload.Blocks[2].Elements, 1)
	assert.Equal(t, "https://reddit.com/r/stocks/comments/abc1/", payload.Blocks[2].Elements[0].URL)
}

func TestSlackNotifierSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	n := NewSlackNotifier(srv.URL)
	err := n.Send(context.Background(), Data{PostTitle: "t"})
	require.Error(t, err)
}

func TestEmailNotifierCancelledContext(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{Host: "localhost", Port: 2525, From: "noreply@example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Send(ctx, "user@example.com", Data{PostTitle: "t"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmailBodyRendering(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{AppURL: "https://app.example.com"})
	body := n.renderBody(Data{
		PostTitle: "NVDA earnings",
		PostURL:   "https://reddit.com/r/stocks/comments/abc1/",
		Subreddit: "stocks",
		Sentiment: "opportunity",
		Keywords:  []string{"NVDA", "earnings"},
	})

	assert.Contains(t, body, "NVDA earnings")
	assert.Contains(t, body, "r/stocks")
	assert.Contains(t, body, "NVDA, earnings")
	assert.Contains(t, body, `href="https://reddit.com/r/stocks/comments/abc1/"`)
	assert.Contains(t, body, "https://app.example.com/settings")
}
