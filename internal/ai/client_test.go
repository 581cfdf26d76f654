package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamtxena/finance-scoop/internal/model"
	pkgerrors "github.com/iamtxena/finance-scoop/pkg/errors"
)

// stubCompletion serves an OpenAI-style chat completion with a fixed answer.
func stubCompletion(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, mustJSON(answer))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newStubClient(t *testing.T, answer string) *Client {
	srv := stubCompletion(t, answer)
	return NewClient(Config{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		Model:          "grok-4-fast-reasoning",
		RequestTimeout: 5 * time.Second,
	})
}

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   model.Sentiment
	}{
		{"exact opportunity", "opportunity", model.SentimentOpportunity},
		{"verbose opportunity", "This is clearly an Opportunity for outreach.", model.SentimentOpportunity},
		{"exact neutral", "neutral", model.SentimentNeutral},
		{"padded neutral", "  Neutral\n", model.SentimentNeutral},
		{"exact irrelevant", "irrelevant", model.SentimentIrrelevant},
		{"unparseable answer", "I cannot classify this.", model.SentimentIrrelevant},
		{"empty answer", "", model.SentimentIrrelevant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubClient(t, tt.answer)
			got, err := client.ClassifySentiment(context.Background(), "some post content")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifySentimentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Model: "m", RequestTimeout: 5 * time.Second})
	_, err := client.ClassifySentiment(context.Background(), "content")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrExternalSource, pkgerrors.Code(err))
}

func TestDraftReplyTrimsAnswer(t *testing.T) {
	client := newStubClient(t, "\n  Hey, you should try Lona!  \n")
	draft, err := client.DraftReply(context.Background(), "looking for an AI stock tool", "")
	require.NoError(t, err)
	assert.Equal(t, "Hey, you should try Lona!", draft)
}

func TestSummarizeTrimsAnswer(t *testing.T) {
	client := newStubClient(t, " A short summary. ")
	summary, err := client.Summarize(context.Background(), "a very long post body")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Model: "m", RequestTimeout: 5 * time.Second})
	_, err := client.Summarize(context.Background(), "content")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrExternalSource, pkgerrors.Code(err))
}
