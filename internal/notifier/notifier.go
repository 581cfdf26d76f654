// Package notifier dispatches alert notifications over the configured
// channels. Dispatch is best-effort and collect-all-outcomes: one channel
// failing never prevents the other from attempting.
package notifier

import (
	"context"

	"github.com/iamtxena/finance-scoop/internal/model"
)

// Data is the event payload rendered into each channel.
type Data struct {
	UserID    string   `json:"user_id"`
	PostTitle string   `json:"post_title"`
	PostURL   string   `json:"post_url"`
	Subreddit string   `json:"subreddit"`
	Sentiment string   `json:"sentiment,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Channels toggles which transports a dispatch may use.
type Channels struct {
	Email bool
	Slack bool
}

// ChannelResult is the per-channel outcome of a dispatch. Err is nil when
// the send was handed to the transport without error; it does not prove
// delivery.
type ChannelResult struct {
	Channel model.NotificationChannel
	Err     error
}

// Dispatcher fans an event out to all enabled, available channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, email string, data Data, channels Channels) []ChannelResult
}

type emailSender interface {
	Send(ctx context.Context, to string, data Data) error
}

type slackSender interface {
	Send(ctx context.Context, data Data) error
}

type dispatcher struct {
	email emailSender
	slack slackSender
}

// New builds a Dispatcher from the configured transports. Either transport
// may be nil, in which case that channel is unavailable and skipped.
func New(email *EmailNotifier, slack *SlackNotifier) Dispatcher {
	d := &dispatcher{}
	if email != nil {
		d.email = email
	}
	if slack != nil {
		d.slack = slack
	}
	return d
}

func (d *dispatcher) Dispatch(ctx context.Context, email string, data Data, channels Channels) []ChannelResult {
	var results []ChannelResult

	if channels.Email && email != "" && d.email != nil {
		err := d.email.Send(ctx, email, data)
		results = append(results, ChannelResult{Channel: model.ChannelEmail, Err: err})
	}

	if channels.Slack && d.slack != nil {
		err := d.slack.Send(ctx, data)
		results = append(results, ChannelResult{Channel: model.ChannelSlack, Err: err})
	}

	return results
}
