package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"auralink/config"
	"auralink/internal/database"
	"auralink/internal/handler"
	"auralink/internal/mailer"
	"auralink/internal/middleware"
	"auralink/internal/payment"
	"auralink/internal/queue"
	"auralink/internal/repository"
	"auralink/internal/service"
	"auralink/internal/site"
	"auralink/internal/web"
	"auralink/internal/worker"
	"auralink/pkg/auth"
	"auralink/pkg/logger"
	"auralink/pkg/obs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "auralink"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L.Fatal("Failed to load config", zap.Error(err))
	}
	logger.SetLevel(cfg.LogLevel)
	log := logger.WithComponent("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, serviceName, cfg.Tracing.Endpoint)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// redis 只在 mail 佇列使用 redis 模式時連線
	var rdb *redis.Client
	if cfg.Mail.Queue == "redis" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	notifier, closeMail, err := buildMailer(workerCtx, cfg, rdb)
	if err != nil {
		log.Fatal("Failed to initialize mail pipeline", zap.Error(err))
	}

	// repository
	eventRepo := repository.NewEventRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// service
	catalogService := service.NewCatalogService(eventRepo, categoryRepo)
	registrationService := service.NewRegistrationService(eventRepo, registrationRepo, payment.NewSimulatedGateway(), notifier)
	dashboardService := service.NewDashboardService(eventRepo, registrationRepo, categoryRepo)
	authService := service.NewAuthService(userRepo)

	tokens := auth.NewTokenManager(cfg.App.SessionSecret, cfg.App.SessionTTL)
	limiter := middleware.NewRateLimiter(middleware.LimiterConfig{RPS: 1, Burst: 5, IdleTTL: 10 * time.Minute})
	defer limiter.Close()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HTMLRender = web.MustRenderer()
	router.Use(gin.Recovery(), logger.GinMiddleware(), middleware.Tracing(), middleware.Session(tokens, authService))
	router.Static("/static", filepath.Join(cfg.App.BaseDir, "static"))

	presenter := handler.NewPresenter(site.Load(cfg.App.BaseDir, cfg.App.SiteName), cfg.App.SecureCookie)
	handler.NewEventHandler(presenter, catalogService, registrationService, dashboardService, authService, tokens, limiter).RegisterRoutes(router)
	handler.NewDashboardHandler(presenter, dashboardService, catalogService).RegisterRoutes(router)
	handler.NewAuthHandler(presenter, authService, tokens, limiter).RegisterRoutes(router)
	handler.NewHealthHandler(pool).RegisterRoutes(router)
	router.NoRoute(func(c *gin.Context) {
		presenter.Error(c, http.StatusNotFound, "Page not found.")
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.App.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	cancelWorker()
	closeMail(shutdownCtx)
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

// buildMailer 依 MAIL_QUEUE 決定直接寄送或經由佇列與 worker
func buildMailer(ctx context.Context, cfg *config.Config, rdb *redis.Client) (mailer.Mailer, func(context.Context), error) {
	sender, err := mailer.New(&cfg.Mail)
	if err != nil {
		return nil, nil, err
	}
	noop := func(context.Context) {}

	var (
		mailQueue queue.MailQueue
		closers   []func() error
	)
	switch cfg.Mail.Queue {
	case "", "none":
		return sender, noop, nil
	case "memory":
		mailQueue = queue.NewMailQueue(cfg.Mail.BufferSize, cfg.Mail.MaxRetry)
	case "redis":
		hostname, _ := os.Hostname()
		mailQueue, err = queue.NewRedisStreamMailQueue(rdb, hostname, &queue.RedisStreamMailQueueConfig{
			MaxAttempts: cfg.Mail.MaxRetry,
		})
		if err != nil {
			return nil, nil, err
		}
	case "rabbit":
		rq, err := queue.NewRabbitMailQueue(cfg.Rabbit.URL, cfg.Rabbit.Exchange, cfg.Rabbit.Queue)
		if err != nil {
			return nil, nil, fmt.Errorf("init rabbitmq: %w", err)
		}
		mailQueue = rq
		closers = append(closers, rq.Close)
	default:
		return nil, nil, fmt.Errorf("unknown mail queue %q", cfg.Mail.Queue)
	}

	mailWorker := worker.NewMailWorker(sender, mailQueue)
	if err := mailWorker.Start(ctx); err != nil {
		for _, c := range closers {
			_ = c()
		}
		return nil, nil, err
	}

	shutdown := func(waitCtx context.Context) {
		select {
		case <-mailWorker.Done():
		case <-waitCtx.Done():
			logger.WithComponent("server").Warn("Mail worker did not stop in time")
		}
		for _, c := range closers {
			if err := c(); err != nil {
				logger.WithComponent("server").Warn("Close mail queue failed", zap.Error(err))
			}
		}
	}
	return mailer.NewQueueMailer(mailQueue), shutdown, nil
}
