package domain

import (
	"testing"
	"time"
)

var scoringNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func postAt(daysAgo int, contentType ContentType) NormalizedPost {
	return NormalizedPost{
		Platform: PlatformInstagram,
		Type:     contentType,
		Date:     scoringNow.AddDate(0, 0, -daysAgo),
	}
}

func TestInterpolateClampsAndInterpolates(t *testing.T) {
	t.Parallel()

	if got := Interpolate(-5, velocityBreakpoints); got != 0 {
		t.Fatalf("below-range value should clamp to first Y, got %v", got)
	}
	if got := Interpolate(100, velocityBreakpoints); got != 100 {
		t.Fatalf("above-range value should clamp to last Y, got %v", got)
	}
	if got := Interpolate(3, velocityBreakpoints); got != 50 {
		t.Fatalf("exact breakpoint should return its Y, got %v", got)
	}
	if got := Interpolate(0.5, velocityBreakpoints); got != 10 {
		t.Fatalf("midpoint of (0,0)-(1,20) should be 10, got %v", got)
	}
	if got := Interpolate(2.5, engagementBreakpoints); got != 73.75 {
		t.Fatalf("midpoint of (2,70)-(4,85) should be 73.75, got %v", got)
	}
}

func TestInterpolateMonotonicOverVelocityTable(t *testing.T) {
	t.Parallel()

	prev := Interpolate(0, velocityBreakpoints)
	for v := 0.1; v <= 20; v += 0.1 {
		cur := Interpolate(v, velocityBreakpoints)
		if cur < prev {
			t.Fatalf("score decreased from %v to %v at value %v", prev, cur, v)
		}
		prev = cur
	}
}

func TestScoreVelocityWindow(t *testing.T) {
	t.Parallel()

	// 8 posts inside the 56-day window plus 5 stale ones. 8/8 weeks = 1/wk.
	posts := make([]NormalizedPost, 0, 13)
	for i := 0; i < 8; i++ {
		posts = append(posts, postAt(i*7, ContentTypeImage))
	}
	for i := 0; i < 5; i++ {
		posts = append(posts, postAt(60+i, ContentTypeImage))
	}
	if got := ScoreVelocity(posts, scoringNow); got != 20 {
		t.Fatalf("expected velocity 20 for 1 post/week, got %d", got)
	}
	if got := ScoreVelocity(nil, scoringNow); got != 0 {
		t.Fatalf("expected velocity 0 with no posts, got %d", got)
	}
}

func TestScoreVideoDominance(t *testing.T) {
	t.Parallel()

	if got := ScoreVideoDominance(nil); got != 30 {
		t.Fatalf("expected neutral 30 with no posts, got %d", got)
	}
	posts := []NormalizedPost{
		postAt(1, ContentTypeReel),
		postAt(2, ContentTypeShort),
		postAt(3, ContentTypeVideo),
		postAt(4, ContentTypeImage),
	}
	// 3/4 video = 75%, an exact breakpoint.
	if got := ScoreVideoDominance(posts); got != 80 {
		t.Fatalf("expected 80 at 75%% video share, got %d", got)
	}
	static := []NormalizedPost{postAt(1, ContentTypeImage), postAt(2, ContentTypeCarousel)}
	if got := ScoreVideoDominance(static); got != 10 {
		t.Fatalf("expected 10 with zero video share, got %d", got)
	}
}

func TestScoreEngagementPrefersProviderRate(t *testing.T) {
	t.Parallel()

	providerRate := 4.0
	results := []PlatformResult{
		{
			Platform:       PlatformInstagram,
			Available:      true,
			Followers:      1000,
			EngagementRate: &providerRate,
			// Post-derived rate would be 10; the provider rate must win.
			Posts: []NormalizedPost{{EngagementRate: 10}},
		},
	}
	if got := ScoreEngagement(results); got != 85 {
		t.Fatalf("expected 85 from provider rate 4.0, got %d", got)
	}
}

func TestScoreEngagementAveragesAcrossPlatforms(t *testing.T) {
	t.Parallel()

	results := []PlatformResult{
		{Platform: PlatformInstagram, Available: true, Followers: 1000, Posts: []NormalizedPost{{EngagementRate: 1}, {EngagementRate: 3}}},
		{Platform: PlatformTikTok, Available: true, Followers: 500, Posts: []NormalizedPost{{EngagementRate: 1}}},
		{Platform: PlatformYouTube, Available: false, Posts: []NormalizedPost{{EngagementRate: 50}}},
		{Platform: PlatformFacebook, Available: true, Followers: 0, Posts: []NormalizedPost{{EngagementRate: 50}}},
	}
	// Mean of per-platform means (2, 1) is 1.5, halfway between (1,50) and (2,70).
	if got := ScoreEngagement(results); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
}

func TestScoreEngagementFloorWithNoMeasurablePlatforms(t *testing.T) {
	t.Parallel()

	results := []PlatformResult{
		{Platform: PlatformInstagram, Available: true, Followers: 0, Posts: []NormalizedPost{{EngagementRate: 9}}},
	}
	if got := ScoreEngagement(results); got != 15 {
		t.Fatalf("zero-follower platform should fall back to the 15 floor, got %d", got)
	}
}

func TestScoreCoverage(t *testing.T) {
	t.Parallel()

	requested := []Platform{PlatformInstagram, PlatformYouTube}
	results := []PlatformResult{
		{Platform: PlatformInstagram, Available: true, Posts: []NormalizedPost{postAt(5, ContentTypeImage)}},
		{Platform: PlatformYouTube, Available: true, Posts: []NormalizedPost{postAt(45, ContentTypeVideo)}},
	}
	if got := ScoreCoverage(results, requested, scoringNow); got != 50 {
		t.Fatalf("expected 50 with one of two platforms active, got %d", got)
	}

	// A collecting platform is available with no posts yet: it widens the
	// denominator without joining the numerator.
	collecting := []PlatformResult{
		{Platform: PlatformInstagram, Available: true, Posts: []NormalizedPost{postAt(5, ContentTypeImage)}},
		{Platform: PlatformYouTube, Available: true, Collecting: true},
	}
	if got := ScoreCoverage(collecting, requested, scoringNow); got != 50 {
		t.Fatalf("expected 50 with a collecting platform, got %d", got)
	}

	if got := ScoreCoverage(nil, nil, scoringNow); got != 0 {
		t.Fatalf("expected 0 with nothing requested, got %d", got)
	}
}

func TestScoreRecency(t *testing.T) {
	t.Parallel()

	if got := ScoreRecency(nil, scoringNow); got != 10 {
		t.Fatalf("expected 10 floor with no posts, got %d", got)
	}
	if got := ScoreRecency([]NormalizedPost{postAt(0, ContentTypeImage)}, scoringNow); got != 100 {
		t.Fatalf("expected 100 for a post today, got %d", got)
	}
	if got := ScoreRecency([]NormalizedPost{postAt(9, ContentTypeImage)}, scoringNow); got != 40 {
		t.Fatalf("expected 40 on the two-week plateau, got %d", got)
	}
	if got := ScoreRecency([]NormalizedPost{postAt(45, ContentTypeImage)}, scoringNow); got != 5 {
		t.Fatalf("expected 5 past a month of silence, got %d", got)
	}
	// Clock skew can put a post slightly in the future; treat it as now.
	future := []NormalizedPost{{Date: scoringNow.Add(2 * time.Hour)}}
	if got := ScoreRecency(future, scoringNow); got != 100 {
		t.Fatalf("expected 100 for a future-dated post, got %d", got)
	}
}

func TestEffectiveWeightsRedistribution(t *testing.T) {
	t.Parallel()

	w := EffectiveWeights()
	if w.Sum() != 100 {
		t.Fatalf("weights must sum to 100, got %v", w.Sum())
	}
	if w.Competitor != 0 {
		t.Fatalf("competitor weight must be zeroed, got %v", w.Competitor)
	}
	if w.Velocity != 31.25 || w.Engagement != 28.75 {
		t.Fatalf("redistribution mismatch: velocity %v engagement %v", w.Velocity, w.Engagement)
	}
}

func TestComputeScoreAllPlatformsUnavailable(t *testing.T) {
	t.Parallel()

	results := []PlatformResult{
		{Platform: PlatformInstagram, Error: "API 429: too many requests"},
		{Platform: PlatformYouTube, Error: "YOUTUBE_API_KEY not configured"},
	}
	requested := []Platform{PlatformInstagram, PlatformYouTube}
	score := ComputeScore(results, requested, scoringNow)

	// 0*31.25 + 30*20 + 15*28.75 + 0*10 + 10*10 = 1131.25 -> 11.
	if score.Overall != 11 {
		t.Fatalf("expected floor composite 11, got %d", score.Overall)
	}
	if got := subScore(score.SubScores, DimensionVideo); got != 30 {
		t.Fatalf("expected video floor 30, got %d", got)
	}
	if got := subScore(score.SubScores, DimensionEngagement); got != 15 {
		t.Fatalf("expected engagement floor 15, got %d", got)
	}
	if got := subScore(score.SubScores, DimensionRecency); got != 10 {
		t.Fatalf("expected recency floor 10, got %d", got)
	}
	if score.SubScores[DimensionCompetitor] != nil {
		t.Fatalf("competitor sub-score must be nil")
	}
}

func TestComputeScoreHealthyProfile(t *testing.T) {
	t.Parallel()

	igRate, ytRate := 3.0, 2.0
	igPosts := make([]NormalizedPost, 0, 20)
	ytPosts := make([]NormalizedPost, 0, 20)
	for i := 0; i < 20; i++ {
		contentType := ContentTypeReel
		if i%4 == 3 {
			contentType = ContentTypeImage
		}
		igPosts = append(igPosts, postAt(i, contentType))
		ytContentType := ContentTypeVideo
		if i%4 == 3 {
			ytContentType = ContentTypeImage
		}
		ytPosts = append(ytPosts, postAt(i, ytContentType))
	}

	results := []PlatformResult{
		{Platform: PlatformInstagram, Available: true, Followers: 10000, EngagementRate: &igRate, Posts: igPosts},
		{Platform: PlatformYouTube, Available: true, Followers: 5000, EngagementRate: &ytRate, Posts: ytPosts},
	}
	requested := []Platform{PlatformInstagram, PlatformYouTube}
	score := ComputeScore(results, requested, scoringNow)

	// 40 posts in 8 weeks = 5/wk -> 75; 30/40 video = 75% -> 80; mean rate
	// 2.5 -> 74; both platforms active -> 100; newest post today -> 100.
	if got := subScore(score.SubScores, DimensionVelocity); got != 75 {
		t.Fatalf("expected velocity 75, got %d", got)
	}
	if got := subScore(score.SubScores, DimensionVideo); got != 80 {
		t.Fatalf("expected video 80, got %d", got)
	}
	if got := subScore(score.SubScores, DimensionEngagement); got != 74 {
		t.Fatalf("expected engagement 74, got %d", got)
	}
	if got := subScore(score.SubScores, DimensionCoverage); got != 100 {
		t.Fatalf("expected coverage 100, got %d", got)
	}
	if got := subScore(score.SubScores, DimensionRecency); got != 100 {
		t.Fatalf("expected recency 100, got %d", got)
	}
	if score.Overall != 81 {
		t.Fatalf("expected composite 81, got %d", score.Overall)
	}
	if len(score.Dimensions) != 6 {
		t.Fatalf("expected 6 dimension descriptors, got %d", len(score.Dimensions))
	}
	for _, d := range score.Dimensions {
		if d.Key == DimensionCompetitor && d.Score != nil {
			t.Fatalf("competitor descriptor must carry a nil score")
		}
	}
}

func TestComputeScoreIgnoresUnavailablePosts(t *testing.T) {
	t.Parallel()

	// A failed platform may still carry stale post data; it must not leak
	// into the pooled dimensions.
	results := []PlatformResult{
		{Platform: PlatformInstagram, Available: false, Posts: []NormalizedPost{postAt(1, ContentTypeReel)}},
	}
	score := ComputeScore(results, []Platform{PlatformInstagram}, scoringNow)
	if got := subScore(score.SubScores, DimensionRecency); got != 10 {
		t.Fatalf("expected recency floor when the only posts are unavailable, got %d", got)
	}
}
