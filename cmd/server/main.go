package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/database"
	"github.com/doerhub/doerhub-backend/internal/handler"
	"github.com/doerhub/doerhub-backend/internal/logger"
	"github.com/doerhub/doerhub-backend/internal/metrics"
	"github.com/doerhub/doerhub-backend/internal/middleware"
	"github.com/doerhub/doerhub-backend/internal/repository"
	"github.com/doerhub/doerhub-backend/internal/router"
	"github.com/doerhub/doerhub-backend/internal/security"
	"github.com/doerhub/doerhub-backend/internal/service"
	"github.com/doerhub/doerhub-backend/internal/validator"
	"github.com/doerhub/doerhub-backend/internal/worker"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting DoerHub Backend")

	// ─── Initialize Validator & Metrics ───────────────────────────────
	validator.Setup()
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Connect to Object Storage ─────────────────────────────────────
	store, err := database.NewObjectStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to object storage")
	}

	sealer, err := security.NewSealerFromHex(cfg.BankDetailsKey)
	if err != nil {
		log.Fatal().Err(err).Msg("BANK_DETAILS_KEY must be 64 hex characters")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	ownerRepo := repository.NewOwnerRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	activationRepo := repository.NewActivationRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	bankRepo := repository.NewBankDetailsRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	pushRepo := repository.NewPushSubscriptionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	guard := authz.NewGuard(ownerRepo, recordDenial)

	authService := service.NewAuthService(cfg, rdb)
	mediaService := service.NewMediaService(cfg, store)
	notificationService := service.NewNotificationService(guard, pushRepo, rdb, log)
	profileService := service.NewProfileService(guard, profileRepo, mediaService, log)
	activationService := service.NewActivationService(cfg, guard, activationRepo, quizRepo, bankRepo,
		sealer, service.NewRedisLocker(rdb), log)
	projectService := service.NewProjectService(guard, projectRepo, ownerRepo, mediaService, notificationService, log)
	chatService := service.NewChatService(guard, chatRepo, ownerRepo, notificationService, rdb, log)
	analysisService := service.NewAnalysisService(projectService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Profile:    handler.NewProfileHandler(authService, profileService, log),
		Activation: handler.NewActivationHandler(activationService, log),
		Project:    handler.NewProjectHandler(projectService, log),
		Chat:       handler.NewChatHandler(chatService, log),
		Analysis:   handler.NewAnalysisHandler(analysisService, log),
		Push:       handler.NewPushHandler(notificationService, log),
		WS:         handler.NewWSHandler(chatService, cfg, log),
	}

	// Analysis is CPU bound; 30 requests per minute per user.
	analysisLimiter := middleware.NewRateLimiter(30, time.Minute)

	r := router.SetupRouter(&router.Guards{
		Auth:            authService,
		Activation:      activationService,
		AnalysisLimiter: analysisLimiter,
	}, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// ─── Start Background Workers ─────────────────────────────────────
	if cfg.PushEnabled() {
		notificationWorker := worker.NewNotificationWorker(cfg, rdb, pushRepo, log)
		g.Go(func() error {
			notificationWorker.Start(gctx)
			return nil
		})
	} else {
		log.Warn().Msg("VAPID keys not set; push notifications stay queued")
	}

	g.Go(func() error {
		analysisLimiter.Run(gctx)
		return nil
	})

	// ─── Start Server ──────────────────────────────────────────────────
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server error")
	}
	log.Info().Msg("Shutdown complete")
}

// recordDenial counts rejected ownership checks by resource and reason.
func recordDenial(resource authz.Resource, err error) {
	reason := "forbidden"
	var notFound *authz.NotFoundError
	var authErr *authz.AuthenticationError
	switch {
	case errors.As(err, &notFound):
		reason = "not_found"
	case errors.As(err, &authErr):
		reason = "unauthenticated"
	}
	metrics.GuardDenials.WithLabelValues(string(resource), reason).Inc()
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
