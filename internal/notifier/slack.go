package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SlackNotifier posts opportunity alerts to an incoming webhook as a Block
// Kit message with an actionable link.
type SlackNotifier struct {
	webhookURL string
	http       *http.Client
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string     `json:"type"`
	Text  *slackText `json:"text,omitempty"`
	URL   string     `json:"url,omitempty"`
	Style string     `json:"style,omitempty"`
}

func (n *SlackNotifier) Send(ctx context.Context, data Data) error {
	payload, err := json.Marshal(n.buildMessage(data))
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *SlackNotifier) buildMessage(data Data) slackMessage {
	var details strings.Builder
	fmt.Fprintf(&details, "*%s*\n\n*Subreddit:* r/%s\n", data.PostTitle, data.Subreddit)
	if data.Sentiment != "" {
		fmt.Fprintf(&details, "*Sentiment:* %s\n", data.Sentiment)
	}
	if len(data.Keywords) > 0 {
		fmt.Fprintf(&details, "*Keywords:* %s\n", strings.Join(data.Keywords, ", "))
	}

	return slackMessage{
		Text: "*New Reddit Opportunity!*",
		Blocks: []slackBlock{
			{
				Type: "header",
				Text: &slackText{Type: "plain_text", Text: "New Reddit Opportunity Detected"},
			},
			{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: details.String()},
			},
			{
				Type: "actions",
				Elements: []slackElement{
					{
						Type:  "button",
						Text:  &slackText{Type: "plain_text", Text: "View on Reddit"},
						URL:   data.PostURL,
						Style: "primary",
					},
				},
			},
		},
	}
}
