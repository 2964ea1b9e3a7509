package application

import (
	"log/slog"
	"time"

	"github.com/socialpulse/visibility-service/internal/ports"
)

// Service orchestrates visibility scans: provider fan-out, scoring,
// best-effort persistence and event publication. It holds no mutable state,
// so concurrent scans from unrelated requests are safe.
type Service struct {
	cfg       Config
	providers []ports.ProviderClient
	igStats   ports.InstagramStatsClient
	pages     ports.PageFetcher
	scores    ports.ScoreRepository
	posts     ports.PostRepository
	profiles  ports.ProfileRepository
	limiter   ports.ScanRateLimiter
	publisher ports.EventPublisher
	logger    *slog.Logger
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Providers []ports.ProviderClient
	IGStats   ports.InstagramStatsClient
	Pages     ports.PageFetcher
	Scores    ports.ScoreRepository
	Posts     ports.PostRepository
	Profiles  ports.ProfileRepository
	Limiter   ports.ScanRateLimiter
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "visibility-service"
	}
	if cfg.MaxPostsReturned <= 0 {
		cfg.MaxPostsReturned = 20
	}
	if cfg.ScorePeriodDays <= 0 {
		cfg.ScorePeriodDays = 30
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		providers: deps.Providers,
		igStats:   deps.IGStats,
		pages:     deps.Pages,
		scores:    deps.Scores,
		posts:     deps.Posts,
		profiles:  deps.Profiles,
		limiter:   deps.Limiter,
		publisher: deps.Publisher,
		logger:    logger.With("module", "application", "layer", "service"),
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}
