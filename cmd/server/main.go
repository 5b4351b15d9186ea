package main

import (
	"context"
	"log"

	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/clubportal/api/handler"
	"github.com/fastygo/clubportal/internal/config"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/clubportal/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/clubportal/internal/infrastructure/redis"
	"github.com/fastygo/clubportal/internal/infrastructure/snapshot"
	"github.com/fastygo/clubportal/internal/metrics"
	"github.com/fastygo/clubportal/internal/middleware"
	"github.com/fastygo/clubportal/internal/router"
	"github.com/fastygo/clubportal/internal/security"
	"github.com/fastygo/clubportal/internal/services"
	"github.com/fastygo/clubportal/internal/services/lifecycle"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	"github.com/fastygo/clubportal/pkg/logger"
	"github.com/fastygo/clubportal/repository/memory"
	"github.com/fastygo/clubportal/repository/postgres"
	redisRepo "github.com/fastygo/clubportal/repository/redis"
	analyticsUC "github.com/fastygo/clubportal/usecase/analytics"
	authUC "github.com/fastygo/clubportal/usecase/auth"
	contentUC "github.com/fastygo/clubportal/usecase/content"
	courseUC "github.com/fastygo/clubportal/usecase/course"
	membersUC "github.com/fastygo/clubportal/usecase/members"
	profileUC "github.com/fastygo/clubportal/usecase/profile"
	progressUC "github.com/fastygo/clubportal/usecase/progress"
	setupUC "github.com/fastygo/clubportal/usecase/setup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.Listen(context.Background())
	defer cancel()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.RegisterCloser("redis", redisClient.Close)

	snapshots, err := snapshot.Open(cfg.Analytics.SnapshotPath, "")
	if err != nil {
		zapLogger.Fatal("failed to open analytics snapshot store", zap.Error(err))
	}
	manager.RegisterCloser("snapshots", snapshots.Close)

	mon := monitor.New(pool, redisClient, snapshots, cfg.Monitor.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	// Repositories
	txManager := postgres.NewTxManager(pool)
	userRepo := postgres.NewUserRepository(pool)
	identityCache := memory.NewCachedUserRepository(userRepo, cfg.IdentityCache.Size, cfg.IdentityCache.TTL)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Auth.TokenTTL)
	courseRepo := postgres.NewCourseRepository(pool)
	moduleRepo := postgres.NewModuleRepository(pool)
	progressRepo := postgres.NewProgressRepository(pool)
	contentRepo := postgres.NewContentRepository(pool)
	setupRepo := postgres.NewSetupRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	recorder, err := services.NewAnalyticsRecorder(analyticsRepo, snapshots, mon, zapLogger, services.RecorderConfig{
		Schedule:     cfg.Analytics.Schedule,
		Retention:    cfg.Analytics.Retention,
		ActiveWindow: cfg.Analytics.ActiveWindow,
	})
	if err != nil {
		zapLogger.Fatal("invalid analytics schedule", zap.Error(err))
	}
	recorder.Start()
	manager.Register("analytics_recorder", recorder.Stop)

	var appMetrics *metrics.Metrics
	var decisions gate.Recorder
	if cfg.HTTP.EnableMetrics {
		appMetrics = metrics.New()
		decisions = appMetrics
	}
	accessGate := gate.New(decisions, zapLogger)

	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	// Identity reads go through the cache; writes go to the store and invalidate it.
	authUseCase := authUC.New(identityCache, sessionRepo, hasher, tokens, zapLogger)
	setupUseCase := setupUC.New(setupUC.Stores{
		Tx:      txManager,
		Setup:   setupRepo,
		Users:   userRepo,
		Courses: courseRepo,
		Modules: moduleRepo,
		Content: contentRepo,
		Audit:   auditRepo,
	}, accessGate, hasher, authUseCase, zapLogger)
	membersUseCase := membersUC.New(txManager, userRepo, sessionRepo, auditRepo, accessGate, identityCache, zapLogger)
	profileUseCase := profileUC.New(identityCache, courseRepo, progressRepo, accessGate, zapLogger)
	courseUseCase := courseUC.New(txManager, courseRepo, moduleRepo, auditRepo, accessGate, zapLogger)
	progressUseCase := progressUC.New(progressRepo, moduleRepo, courseRepo, accessGate, zapLogger)
	contentUseCase := contentUC.New(txManager, contentRepo, auditRepo, accessGate, zapLogger)
	analyticsUseCase := analyticsUC.New(analyticsRepo, snapshots, accessGate, cfg.Analytics.ActiveWindow, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:   apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Setup:     apiHandler.NewSetupHandler(setupUseCase, ctxAdapter, zapLogger),
		Members:   apiHandler.NewMembersHandler(membersUseCase, ctxAdapter, zapLogger),
		Course:    apiHandler.NewCourseHandler(courseUseCase, ctxAdapter, zapLogger),
		Progress:  apiHandler.NewProgressHandler(progressUseCase, ctxAdapter, zapLogger),
		Content:   apiHandler.NewContentHandler(contentUseCase, ctxAdapter, zapLogger),
		Analytics: apiHandler.NewAnalyticsHandler(analyticsUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	if appMetrics != nil {
		handlers.Metrics = appMetrics.Handler()
	}

	var limits router.Limits
	if cfg.RateLimit.Enabled {
		store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: cfg.RateLimit.Prefix, MaxRetry: 3})
		if err != nil {
			zapLogger.Fatal("rate limiter store failed", zap.Error(err))
		}
		if limits.Auth, err = middleware.NewRateLimiter(store, "auth", cfg.RateLimit.Auth, zapLogger); err != nil {
			zapLogger.Fatal("invalid RATE_LIMIT_AUTH", zap.Error(err))
		}
		if limits.Setup, err = middleware.NewRateLimiter(store, "setup", cfg.RateLimit.Setup, zapLogger); err != nil {
			zapLogger.Fatal("invalid RATE_LIMIT_SETUP", zap.Error(err))
		}
	}

	r := router.New(handlers, accessGate, limits)

	var handler fasthttp.RequestHandler = r.Handler
	handler = middleware.Identify(authUseCase, ctxAdapter, zapLogger)(handler)
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	if appMetrics != nil {
		handler = middleware.Metrics(appMetrics)(handler)
	}

	server := &fasthttp.Server{
		Handler:            handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: 1 << 20,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
