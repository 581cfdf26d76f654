package notifier

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP settings for the email channel.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
}

// EmailNotifier sends opportunity alerts over SMTP.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
	appURL string
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		appURL: cfg.AppURL,
	}
}

func (n *EmailNotifier) Send(ctx context.Context, to string, data Data) error {
	// gomail dials synchronously; honor an already-cancelled context before
	// touching the network.
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("New opportunity: %s", data.PostTitle))
	msg.SetBody("text/html", n.renderBody(data))

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (n *EmailNotifier) renderBody(data Data) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2>New Reddit Opportunity Detected!</h2>`)
	b.WriteString(`<div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	fmt.Fprintf(&b, `<h3 style="margin-top: 0;">%s</h3>`, data.PostTitle)
	fmt.Fprintf(&b, `<p><strong>Subreddit:</strong> r/%s</p>`, data.Subreddit)
	if data.Sentiment != "" {
		fmt.Fprintf(&b, `<p><strong>Sentiment:</strong> %s</p>`, data.Sentiment)
	}
	if len(data.Keywords) > 0 {
		fmt.Fprintf(&b, `<p><strong>Keywords matched:</strong> %s</p>`, strings.Join(data.Keywords, ", "))
	}
	b.WriteString(`</div>`)
	fmt.Fprintf(&b, `<a href="%s" style="background: #0079d3; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">View Post on Reddit</a>`, data.PostURL)
	fmt.Fprintf(&b, `<p style="color: #666; font-size: 14px; margin-top: 30px;">This notification was sent by Finance Scoop. <a href="%s/settings">Manage notification settings</a></p>`, n.appURL)
	b.WriteString(`</div>`)
	return b.String()
}
