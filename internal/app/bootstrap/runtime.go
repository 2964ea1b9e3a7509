package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialpulse/visibility-service/internal/adapters/cache"
	eventadapter "github.com/socialpulse/visibility-service/internal/adapters/events"
	httpadapter "github.com/socialpulse/visibility-service/internal/adapters/http"
	"github.com/socialpulse/visibility-service/internal/adapters/postgres"
	"github.com/socialpulse/visibility-service/internal/adapters/providers"
	"github.com/socialpulse/visibility-service/internal/application"
	"github.com/socialpulse/visibility-service/internal/domain"
	"github.com/socialpulse/visibility-service/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	cleanupFn  func(context.Context)
}

// NewRuntime wires the service from configuration. Postgres, Redis and Kafka
// are all optional: a scan without them still scores and returns a result,
// it just skips persistence, rate limiting and event publication. Missing
// provider API keys are not a startup error either; the affected platform
// reports "<KEY> not configured" per scan instead.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var closers []io.Closer

	var repos postgres.Repositories
	if cfg.DatabaseURL != "" {
		db, connErr := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if connErr != nil {
			return nil, connErr
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, dbErr
		}
		if migErr := postgres.RunMigrations(ctx, db); migErr != nil {
			_ = sqlDB.Close()
			return nil, migErr
		}
		repos = postgres.NewRepositories(db)
		closers = append(closers, sqlDB)
	} else {
		logger.WarnContext(ctx, "postgres not configured, scans will not be persisted")
	}

	var limiter ports.ScanRateLimiter
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			runCleanup(closers)
			return nil, redisErr
		}
		limiter = cache.NewRedisScanRateLimiter(redisClient, cfg.ScanRateLimit, cfg.ScanRateWindow)
		closers = append(closers, redisClient)
	} else {
		logger.WarnContext(ctx, "redis not configured, scan rate limiting disabled")
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			domain.EventScanCompleted: cfg.KafkaTopicScanCompleted,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}

	instagram := providers.NewInstagramClient(cfg.RapidAPIKey, cfg.InstagramBaseURL, cfg.ProviderTimeout)
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:      cfg.ServiceID,
			MaxPostsReturned: cfg.MaxPostsReturned,
			ScorePeriodDays:  cfg.ScorePeriodDays,
		},
		Providers: []ports.ProviderClient{
			instagram,
			providers.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.YouTubeBaseURL, cfg.ProviderTimeout),
			providers.NewFacebookClient(cfg.SociaVaultAPIKey, cfg.SociaVaultBaseURL, cfg.ProviderTimeout),
			providers.NewTikTokClient(cfg.SociaVaultAPIKey, cfg.SociaVaultBaseURL, cfg.ProviderTimeout),
		},
		IGStats:   instagram,
		Pages:     providers.NewWebPageFetcher(cfg.ProviderTimeout),
		Scores:    repos.Scores,
		Posts:     repos.Posts,
		Profiles:  repos.Profiles,
		Limiter:   limiter,
		Publisher: publisher,
		Logger:    logger,
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		runCleanup(closers)
		return nil, err
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		cleanupFn: func(context.Context) {
			runCleanup(closers)
		},
	}, nil
}

func runCleanup(closers []io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()
	r.logger.InfoContext(ctx, "visibility service listening", "http_port", r.cfg.HTTPPort, "grpc_port", r.cfg.GRPCPort)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}
