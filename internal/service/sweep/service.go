// Package sweep implements the alert matching engine: one invocation walks
// every active alert's keyword/subreddit cross product, pulls fresh search
// results through the rate-limited Reddit client, deduplicates against the
// seen-post store, classifies new candidates and dispatches notifications
// for opportunities. Failures are isolated per alert, per pair and per
// candidate so a single bad evaluation never aborts the batch.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iamtxena/finance-scoop/internal/ai"
	"github.com/iamtxena/finance-scoop/internal/model"
	"github.com/iamtxena/finance-scoop/internal/notifier"
	"github.com/iamtxena/finance-scoop/internal/reddit"
	"github.com/iamtxena/finance-scoop/internal/repository"
	"github.com/iamtxena/finance-scoop/pkg/metrics"
)

// Config bounds a single sweep.
type Config struct {
	// RecencyWindow excludes candidates created before sweep start minus
	// this duration; older posts are assumed handled by a prior sweep.
	RecencyWindow time.Duration
	// SearchLimit is the page size requested per keyword/subreddit search.
	SearchLimit int
}

// Result aggregates the counters of one sweep. Only successfully processed
// items are counted.
type Result struct {
	Processed     int `json:"processed"`
	Notifications int `json:"notifications"`
	Alerts        int `json:"alerts"`
}

// Service is the matching engine. Every collaborator is injected; nothing
// is an ambient singleton.
type Service struct {
	alerts        repository.AlertRepository
	posts         repository.PostRepository
	notifications repository.NotificationRepository
	profiles      repository.ProfileRepository
	searcher      reddit.Searcher
	classifier    ai.Classifier
	dispatcher    notifier.Dispatcher
	metrics       *metrics.Metrics
	logger        zerolog.Logger
	cfg           Config

	// now is swappable in tests.
	now func() time.Time
}

func NewService(
	alerts repository.AlertRepository,
	posts repository.PostRepository,
	notifications repository.NotificationRepository,
	profiles repository.ProfileRepository,
	searcher reddit.Searcher,
	classifier ai.Classifier,
	dispatcher notifier.Dispatcher,
	m *metrics.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Service {
	if cfg.RecencyWindow <= 0 {
		cfg.RecencyWindow = 900 * time.Second
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 10
	}
	return &Service{
		alerts:        alerts,
		posts:         posts,
		notifications: notifications,
		profiles:      profiles,
		searcher:      searcher,
		classifier:    classifier,
		dispatcher:    dispatcher,
		metrics:       m,
		logger:        logger,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Run executes one complete sweep across all active alerts. It fails as a
// whole only when the alert listing itself fails; every deeper error is
// caught, logged and skipped.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := s.now()
	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
	}

	alerts, err := s.alerts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}

	result := &Result{Alerts: len(alerts)}
	for _, alert := range alerts {
		if err := s.evaluateAlert(ctx, alert, result); err != nil {
			if s.metrics != nil {
				s.metrics.AlertErrors.Inc()
			}
			s.logger.Error().Err(err).
				Str("alert_id", alert.ID.String()).
				Msg("alert evaluation failed, continuing sweep")
		}
	}

	if s.metrics != nil {
		s.metrics.SweepDuration.Observe(s.now().Sub(start).Seconds())
	}
	s.logger.Info().
		Int("alerts", result.Alerts).
		Int("processed", result.Processed).
		Int("notifications", result.Notifications).
		Dur("duration", s.now().Sub(start)).
		Msg("sweep completed")

	return result, nil
}

func (s *Service) evaluateAlert(ctx context.Context, alert *model.Alert, result *Result) error {
	// Profile load is best-effort: a user without one still gets posts
	// recorded, just never notified.
	profile, err := s.profiles.GetByUserID(ctx, alert.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).
				Str("user_id", alert.UserID).
				Msg("profile lookup failed, proceeding without notifications")
		}
		profile = nil
	}

	for _, keyword := range alert.Keywords {
		for _, subreddit := range alert.Subreddits {
			if err := s.evaluatePair(ctx, alert, profile, keyword, subreddit, result); err != nil {
				if s.metrics != nil {
					s.metrics.PairErrors.Inc()
				}
				s.logger.Error().Err(err).
					Str("alert_id", alert.ID.String()).
					Str("keyword", keyword).
					Str("subreddit", subreddit).
					Msg("pair evaluation failed, continuing with siblings")
			}
		}
	}
	return nil
}

func (s *Service) evaluatePair(ctx context.Context, alert *model.Alert, profile *model.Profile, keyword, subreddit string, result *Result) error {
	posts, err := s.searcher.Search(ctx, subreddit, keyword, s.cfg.SearchLimit)
	if err != nil {
		return err
	}

	cutoff := float64(s.now().Add(-s.cfg.RecencyWindow).Unix())
	for _, post := range posts {
		if post.CreatedUTC <= cutoff {
			continue
		}

		processed, notified, err := s.processCandidate(ctx, alert, profile, keyword, post)
		if err != nil {
			s.logger.Error().Err(err).
				Str("post_id", post.ID).
				Str("subreddit", subreddit).
				Msg("candidate processing failed, continuing with siblings")
			continue
		}
		if processed {
			result.Processed++
			if s.metrics != nil {
				s.metrics.PostsProcessed.Inc()
			}
		}
		if notified {
			result.Notifications++
		}
	}
	return nil
}

// processCandidate runs one post through dedup, classification, persistence
// and notification. It reports whether the post was newly recorded and
// whether a notification was dispatched.
func (s *Service) processCandidate(ctx context.Context, alert *model.Alert, profile *model.Profile, keyword string, post reddit.Post) (processed, notified bool, err error) {
	// Dedup is checked per post; overlapping keyword/subreddit pairs cause
	// redundant checks, which is acceptable.
	exists, err := s.posts.Exists(ctx, post.ID)
	if err != nil {
		return false, false, fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		return false, false, nil
	}

	content := post.Title + "\n\n" + post.Selftext
	sentiment, err := s.classifier.ClassifySentiment(ctx, content)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ClassifierRequests.WithLabelValues("error").Inc()
		}
		return false, false, fmt.Errorf("classification failed: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ClassifierRequests.WithLabelValues(string(sentiment)).Inc()
	}

	record := &model.Post{
		UserID:      alert.UserID,
		PostID:      post.ID,
		Subreddit:   post.Subreddit,
		Title:       post.Title,
		Content:     post.Selftext,
		Author:      post.Author,
		URL:         post.Permalink,
		Score:       post.Score,
		NumComments: post.NumComments,
		Sentiment:   &sentiment,
		CreatedAt:   time.Unix(int64(post.CreatedUTC), 0).UTC(),
		FetchedAt:   s.now(),
	}
	if err := s.posts.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent sweep won the insert race; already seen.
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to persist post: %w", err)
	}

	if sentiment == model.SentimentOpportunity && profile != nil {
		s.notify(ctx, alert, profile, keyword, post, sentiment)
		notified = true
	}

	return true, notified, nil
}

func (s *Service) notify(ctx context.Context, alert *model.Alert, profile *model.Profile, keyword string, post reddit.Post, sentiment model.Sentiment) {
	data := notifier.Data{
		UserID:    alert.UserID,
		PostTitle: post.Title,
		PostURL:   post.Permalink,
		Subreddit: post.Subreddit,
		Sentiment: string(sentiment),
		Keywords:  []string{keyword},
	}
	channels := notifier.Channels{
		Email: profile.NotificationEmail,
		Slack: profile.NotificationSlack,
	}

	for _, res := range s.dispatcher.Dispatch(ctx, profile.EmailAddress, data, channels) {
		if res.Err != nil {
			s.logger.Error().Err(res.Err).
				Str("channel", string(res.Channel)).
				Str("post_id", post.ID).
				Msg("notification channel failed")
			continue
		}
		if s.metrics != nil {
			s.metrics.NotificationsSent.WithLabelValues(string(res.Channel)).Inc()
		}
	}

	// The log entry records the attempt, not confirmed delivery: email is
	// the preferred channel when enabled, slack otherwise.
	channel := model.ChannelSlack
	if profile.NotificationEmail {
		channel = model.ChannelEmail
	}
	entry := &model.Notification{
		UserID:  alert.UserID,
		Type:    channel,
		Content: fmt.Sprintf("New opportunity: %s", post.Title),
		Sent:    true,
	}
	if err := s.notifications.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("post_id", post.ID).
			Msg("failed to record notification entry")
	}
}
