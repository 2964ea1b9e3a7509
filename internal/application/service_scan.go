package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/socialpulse/visibility-service/internal/domain"
	"github.com/socialpulse/visibility-service/internal/ports"
)

const dataSourceRealTimeScrape = "real_time_scrape"

// cleanHandle strips a leading @ and surrounding whitespace. Empty after
// cleaning means the platform was not provided.
func cleanHandle(handle string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// ScanProfile runs one visibility scan end to end: validation, rate limit,
// concurrent provider fetches with a settle-all join, scoring, and
// best-effort persistence and event publication. A fully computed score is
// returned to the caller even when every storage write fails.
func (s *Service) ScanProfile(ctx context.Context, caller Caller, req ScanRequest) (ScanScore, error) {
	handles := map[domain.Platform]string{
		domain.PlatformInstagram: cleanHandle(req.Instagram),
		domain.PlatformYouTube:   cleanHandle(req.YouTube),
		domain.PlatformFacebook:  cleanHandle(req.Facebook),
		domain.PlatformTikTok:    cleanHandle(req.TikTok),
	}
	var requested []domain.Platform
	for _, platform := range domain.AllPlatforms {
		if handles[platform] != "" {
			requested = append(requested, platform)
		}
	}
	if len(requested) == 0 {
		return ScanScore{}, fmt.Errorf("%w: at least one platform handle is required", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	if err := s.checkRateLimit(ctx, caller, now); err != nil {
		return ScanScore{}, err
	}

	settled := s.fetchAll(ctx, handles, requested)

	// Every platform appears in the envelope; the unrequested ones carry
	// the "Not provided" category.
	results := make([]domain.PlatformResult, 0, len(domain.AllPlatforms))
	for _, platform := range domain.AllPlatforms {
		if r, ok := settled[platform]; ok {
			results = append(results, r)
			continue
		}
		results = append(results, domain.PlatformResult{
			Platform:  platform,
			Available: false,
			Error:     "Not provided",
		})
	}

	score := domain.ComputeScore(results, requested, now)
	insight := domain.GenerateInsight(score.Overall, score.SubScores)
	recommendations := domain.GenerateRecommendations(score.SubScores)
	topPosts := collectTopPosts(results, s.cfg.MaxPostsReturned)

	scanID := "scan-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	s.persistScan(ctx, caller, scanID, score, insight, recommendations, topPosts, now)
	s.publishScanCompleted(ctx, caller, scanID, score, requested, len(topPosts), now)

	return ScanScore{
		Overall:           score.Overall,
		SubScores:         score.SubScores,
		Dimensions:        score.Dimensions,
		Platforms:         summarizePlatforms(results),
		Posts:             topPosts,
		AIInsight:         insight,
		AIRecommendations: recommendations,
		DataSource:        dataSourceRealTimeScrape,
	}, nil
}

func (s *Service) checkRateLimit(ctx context.Context, caller Caller, now time.Time) error {
	if s.limiter == nil || caller.ClientIP == "" {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, caller.ClientIP, now)
	if err != nil {
		// The limiter is a gate, not a dependency of the score itself:
		// when it is unreachable the scan proceeds.
		s.logger.WarnContext(ctx, "rate limiter unavailable",
			"operation", "scan", "outcome", "degraded", "error", err.Error())
		return nil
	}
	if !allowed {
		return domain.ErrRateLimitExceeded
	}
	return nil
}

// fetchAll fans out one goroutine per requested provider and waits for all
// of them. Each slot is written by exactly one goroutine, so no locking is
// needed; a panicking provider settles its own platform as a fetch failure
// without disturbing the others.
func (s *Service) fetchAll(ctx context.Context, handles map[domain.Platform]string, requested []domain.Platform) map[domain.Platform]domain.PlatformResult {
	clients := make(map[domain.Platform]ports.ProviderClient, len(s.providers))
	for _, client := range s.providers {
		clients[client.Platform()] = client
	}

	results := make([]domain.PlatformResult, len(requested))
	var wg sync.WaitGroup
	for i, platform := range requested {
		client, ok := clients[platform]
		if !ok {
			results[i] = domain.PlatformResult{
				Platform:  platform,
				Available: false,
				Error:     "Fetch failed",
			}
			continue
		}
		wg.Add(1)
		go func(slot int, platform domain.Platform, handle string) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					s.logger.ErrorContext(ctx, "provider fetch panicked",
						"operation", "scan", "outcome", "failure",
						"platform", string(platform), "panic", fmt.Sprint(rec))
					results[slot] = domain.PlatformResult{
						Platform:  platform,
						Available: false,
						Error:     "Fetch failed",
					}
				}
			}()
			results[slot] = client.Fetch(ctx, handle)
		}(i, platform, handles[platform])
	}
	wg.Wait()

	settled := make(map[domain.Platform]domain.PlatformResult, len(requested))
	for i, platform := range requested {
		r := results[i]
		r.Platform = platform
		settled[platform] = r
	}
	return settled
}

// collectTopPosts merges posts from every available platform, most recent
// first, capped at limit.
func collectTopPosts(results []domain.PlatformResult, limit int) []domain.NormalizedPost {
	var all []domain.NormalizedPost
	for _, r := range results {
		if r.Available {
			all = append(all, r.Posts...)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func summarizePlatforms(results []domain.PlatformResult) map[string]PlatformSummary {
	out := make(map[string]PlatformSummary, len(results))
	for _, r := range results {
		if !r.Available {
			errText := r.Error
			if errText == "" {
				errText = "Not available"
			}
			out[string(r.Platform)] = PlatformSummary{Available: false, Error: errText}
			continue
		}
		followers := r.Followers
		analyzed := len(r.Posts)
		collecting := r.Collecting
		out[string(r.Platform)] = PlatformSummary{
			Available:     true,
			Followers:     &followers,
			PostsAnalyzed: &analyzed,
			Collecting:    &collecting,
		}
	}
	return out
}

// persistScan writes the score row, the deduplicated post batch, and the
// profile's last-scan timestamp. Storage is decoupled from the scoring
// contract: every failure is logged and swallowed.
func (s *Service) persistScan(ctx context.Context, caller Caller, scanID string, score domain.ScoreResult, insight string, recommendations []string, topPosts []domain.NormalizedPost, now time.Time) {
	if caller.UserID == "" || s.scores == nil {
		return
	}
	record := ports.ScoreRecord{
		ScanID:            scanID,
		UserID:            caller.UserID,
		Overall:           score.Overall,
		SubScores:         score.SubScores,
		DataSource:        dataSourceRealTimeScrape,
		AISummary:         insight,
		AIRecommendations: recommendations,
		PeriodStart:       now.AddDate(0, 0, -s.cfg.ScorePeriodDays),
		PeriodEnd:         now,
		CreatedAt:         now,
	}
	if err := s.scores.Insert(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "score persistence failed",
			"operation", "scan", "outcome", "degraded", "scan_id", scanID, "error", err.Error())
		return
	}
	if len(topPosts) > 0 && s.posts != nil {
		if err := s.posts.UpsertBatch(ctx, caller.UserID, topPosts); err != nil {
			s.logger.ErrorContext(ctx, "post persistence failed",
				"operation", "scan", "outcome", "degraded", "scan_id", scanID, "error", err.Error())
		}
	}
	if s.profiles != nil {
		if err := s.profiles.TouchLastScan(ctx, caller.UserID, now); err != nil {
			s.logger.ErrorContext(ctx, "profile touch failed",
				"operation", "scan", "outcome", "degraded", "scan_id", scanID, "error", err.Error())
		}
	}
}

func (s *Service) publishScanCompleted(ctx context.Context, caller Caller, scanID string, score domain.ScoreResult, requested []domain.Platform, postsScanned int, now time.Time) {
	if s.publisher == nil {
		return
	}
	event := domain.ScanCompletedEvent{
		ScanID:       scanID,
		CallerID:     caller.UserID,
		Overall:      score.Overall,
		SubScores:    score.SubScores,
		Platforms:    requested,
		PostsScanned: postsScanned,
		CompletedAt:  now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	partitionKey := caller.UserID
	if partitionKey == "" {
		partitionKey = caller.ClientIP
	}
	if err := s.publisher.Publish(ctx, domain.EventScanCompleted, payload, partitionKey); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"operation", "scan", "outcome", "degraded", "scan_id", scanID,
			"event_type", domain.EventScanCompleted, "error", err.Error())
	}
}
