// Package ai wraps the external text classification and generation
// capability. xAI exposes an OpenAI-compatible surface, so the go-openai
// client is pointed at a configurable base URL.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/iamtxena/finance-scoop/internal/model"
	pkgerrors "github.com/iamtxena/finance-scoop/pkg/errors"
)

// Sampling temperatures per task: classification wants determinism, drafting
// wants some variety.
const (
	tempClassify  = 0.1
	tempSummarize = 0.3
	tempDraft     = 0.7
)

// Classifier is the contract the sweep and the on-demand AI routes depend
// on. Calls are slow (seconds-scale) and uncached; callers budget them.
type Classifier interface {
	ClassifySentiment(ctx context.Context, text string) (model.Sentiment, error)
	DraftReply(ctx context.Context, text, customContext string) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
}

// Config holds the upstream endpoint settings.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// Client implements Classifier on an OpenAI-compatible chat endpoint.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(cfg Config) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiConfig),
		model:   cfg.Model,
		timeout: cfg.RequestTimeout,
	}
}

// ClassifySentiment labels post content as opportunity, neutral or
// irrelevant. The model answers free text; anything that does not
// unambiguously contain "opportunity" or "neutral" resolves to irrelevant.
// That substring fallback is load-bearing: downstream consumers rely on it.
func (c *Client) ClassifySentiment(ctx context.Context, text string) (model.Sentiment, error) {
	answer, err := c.complete(ctx, sentimentPrompt(text), tempClassify)
	if err != nil {
		return "", err
	}

	sentiment := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case strings.Contains(sentiment, "opportunity"):
		return model.SentimentOpportunity, nil
	case strings.Contains(sentiment, "neutral"):
		return model.SentimentNeutral, nil
	default:
		return model.SentimentIrrelevant, nil
	}
}

// DraftReply generates a promotional reply for the given post content.
func (c *Client) DraftReply(ctx context.Context, text, customContext string) (string, error) {
	answer, err := c.complete(ctx, replyDraftPrompt(text, customContext), tempDraft)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Summarize condenses post content to one or two sentences.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	answer, err := c.complete(ctx, summarizePrompt(text), tempSummarize)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", pkgerrors.ExternalSource("ai", err)
	}
	if len(resp.Choices) == 0 {
		return "", pkgerrors.ExternalSource("ai", fmt.Errorf("empty completion response"))
	}
	return resp.Choices[0].Message.Content, nil
}
