package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iamtxena/finance-scoop/internal/ai"
	"github.com/iamtxena/finance-scoop/internal/cache"
	"github.com/iamtxena/finance-scoop/internal/config"
	"github.com/iamtxena/finance-scoop/internal/handler"
	aiHandler "github.com/iamtxena/finance-scoop/internal/handler/ai"
	alertHandler "github.com/iamtxena/finance-scoop/internal/handler/alert"
	cronHandler "github.com/iamtxena/finance-scoop/internal/handler/cron"
	draftHandler "github.com/iamtxena/finance-scoop/internal/handler/draft"
	postHandler "github.com/iamtxena/finance-scoop/internal/handler/post"
	profileHandler "github.com/iamtxena/finance-scoop/internal/handler/profile"
	redditHandler "github.com/iamtxena/finance-scoop/internal/handler/reddit"
	"github.com/iamtxena/finance-scoop/internal/middleware"
	"github.com/iamtxena/finance-scoop/internal/notifier"
	"github.com/iamtxena/finance-scoop/internal/reddit"
	"github.com/iamtxena/finance-scoop/internal/repository/postgres"
	"github.com/iamtxena/finance-scoop/internal/router"
	alertService "github.com/iamtxena/finance-scoop/internal/service/alert"
	"github.com/iamtxena/finance-scoop/internal/service/sweep"
	"github.com/iamtxena/finance-scoop/pkg/logger"
	"github.com/iamtxena/finance-scoop/pkg/metrics"
)

func main() {
	// Load .env in development; production injects real environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.New(&logger.Config{Level: level, Pretty: cfg.Logging.Pretty})
	log.Logger = *appLogger.Zerolog()

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Gateway backend is selected by configuration: an empty Redis URL
	// means the in-process gateway, useful for local development.
	var gateway cache.Gateway
	if cfg.Redis.URL == "" {
		gateway = cache.NewMemoryGateway()
		log.Info().Msg("using in-process cache gateway")
	} else {
		redisGateway, err := cache.NewRedisGateway(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisGateway.Close()
		gateway = redisGateway
	}

	m := metrics.NewDefault("finance_scoop")

	redditClient := reddit.NewClient(reddit.Config{
		BaseURL:        cfg.Reddit.BaseURL,
		UserAgent:      cfg.Reddit.UserAgent,
		RequestTimeout: cfg.Reddit.RequestTimeout,
		RateLimit:      cfg.Reddit.RateLimit,
		RateWindow:     cfg.Reddit.RateWindow,
	}, gateway, m)

	classifier := ai.NewClient(ai.Config{
		BaseURL:        cfg.AI.BaseURL,
		APIKey:         cfg.Secrets.AIAPIKey,
		Model:          cfg.AI.Model,
		RequestTimeout: cfg.AI.RequestTimeout,
	})

	var emailNotifier *notifier.EmailNotifier
	if cfg.Notifier.SMTPHost != "" {
		emailNotifier = notifier.NewEmailNotifier(notifier.EmailConfig{
			Host:     cfg.Notifier.SMTPHost,
			Port:     cfg.Notifier.SMTPPort,
			Username: cfg.Notifier.SMTPUser,
			Password: cfg.Secrets.SMTPPassword,
			From:     cfg.Notifier.FromEmail,
			AppURL:   cfg.Notifier.AppURL,
		})
	}
	var slackNotifier *notifier.SlackNotifier
	if cfg.Secrets.SlackWebhookURL != "" {
		slackNotifier = notifier.NewSlackNotifier(cfg.Secrets.SlackWebhookURL)
	}
	dispatcher := notifier.New(emailNotifier, slackNotifier)

	// Initialize repositories
	base := postgres.NewBaseRepository(db)
	alertRepo := postgres.NewAlertRepository(base)
	postRepo := postgres.NewPostRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)
	draftRepo := postgres.NewDraftRepository(base)
	profileRepo := postgres.NewProfileRepository(base)

	// Initialize services
	alertSvc := alertService.NewService(alertRepo)
	sweepSvc := sweep.NewService(
		alertRepo,
		postRepo,
		notificationRepo,
		profileRepo,
		redditClient,
		classifier,
		dispatcher,
		m,
		log.With().Str("component", "sweep").Logger(),
		sweep.Config{
			RecencyWindow: cfg.Sweep.RecencyWindow,
			SearchLimit:   cfg.Sweep.SearchLimit,
		},
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Secrets.JWTSecret)

	// Initialize handlers
	h := handler.NewHandler()
	cronH := cronHandler.NewHandler(sweepSvc, cfg.Secrets.CronSecret, cfg.Sweep.Timeout)
	alertH := alertHandler.NewHandler(alertSvc)
	redditH := redditHandler.NewHandler(redditClient)
	aiH := aiHandler.NewHandler(classifier, draftRepo)
	draftH := draftHandler.NewHandler(draftRepo)
	postH := postHandler.NewHandler(postRepo)
	profileH := profileHandler.NewHandler(profileRepo, notificationRepo)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		cronH,
		alertH,
		redditH,
		aiH,
		draftH,
		postH,
		profileH,
		h,
		router.RouterConfig{
			RequestTimeout:    cfg.Server.RequestTimeout,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			CORSConfig:        middleware.DefaultCORSConfig(),
			MetricsPrefix:     "finance_scoop_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
