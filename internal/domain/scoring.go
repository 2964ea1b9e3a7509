package domain

import (
	"math"
	"time"
)

// Scoring windows.
const (
	velocityWindowDays = 56
	velocityWeeks      = 8
	coverageWindowDays = 30
)

// Breakpoint is one (raw metric, score) calibration point.
type Breakpoint struct {
	X float64
	Y float64
}

// Product-calibrated breakpoint tables. The shapes are deliberate (note the
// recency plateau: small gaps are forgiven, past two weeks the score falls
// off a cliff) and must not be "tuned" without product sign-off.
var (
	velocityBreakpoints = []Breakpoint{
		{0, 0}, {1, 20}, {2, 35}, {3, 50}, {4, 65}, {5, 75}, {7, 85}, {10, 95}, {14, 100},
	}
	videoBreakpoints = []Breakpoint{
		{0, 10}, {25, 30}, {50, 55}, {75, 80}, {90, 95},
	}
	engagementBreakpoints = []Breakpoint{
		{0, 15}, {0.5, 30}, {1, 50}, {2, 70}, {4, 85}, {7, 95},
	}
	recencyBreakpoints = []Breakpoint{
		{0, 100}, {1, 100}, {2, 85}, {3, 85}, {4, 65}, {7, 65}, {8, 40}, {14, 40}, {15, 20}, {30, 20}, {31, 5},
	}
)

// Interpolate maps a raw metric onto a score via piecewise-linear
// interpolation over breakpoints sorted by X. Values below the first
// breakpoint clamp to its Y, values past the last clamp to the last Y.
func Interpolate(value float64, breakpoints []Breakpoint) float64 {
	if value <= breakpoints[0].X {
		return breakpoints[0].Y
	}
	for i := 1; i < len(breakpoints); i++ {
		prev, next := breakpoints[i-1], breakpoints[i]
		if value <= next.X {
			return prev.Y + (value-prev.X)/(next.X-prev.X)*(next.Y-prev.Y)
		}
	}
	return breakpoints[len(breakpoints)-1].Y
}

// ScoreVelocity scores posts-per-week over the trailing 8 weeks.
func ScoreVelocity(posts []NormalizedPost, now time.Time) int {
	cutoff := now.AddDate(0, 0, -velocityWindowDays)
	recent := 0
	for _, p := range posts {
		if !p.Date.Before(cutoff) {
			recent++
		}
	}
	perWeek := float64(recent) / velocityWeeks
	return int(math.Round(Interpolate(perWeek, velocityBreakpoints)))
}

// ScoreVideoDominance scores the share of video-family content. With zero
// posts it returns a neutral-low 30 rather than punishing brand-new scans.
func ScoreVideoDominance(posts []NormalizedPost) int {
	if len(posts) == 0 {
		return 30
	}
	videos := 0
	for _, p := range posts {
		if IsVideoContent(p.Type) {
			videos++
		}
	}
	ratio := float64(videos) / float64(len(posts)) * 100
	return int(math.Round(Interpolate(ratio, videoBreakpoints)))
}

// ScoreEngagement averages per-platform engagement rates across available
// platforms with followers. A provider-reported rate wins over the
// post-derived estimate for that platform.
func ScoreEngagement(results []PlatformResult) int {
	var rates []float64
	for _, r := range results {
		if !r.Available || r.Followers == 0 {
			continue
		}
		if r.EngagementRate != nil && *r.EngagementRate > 0 {
			rates = append(rates, *r.EngagementRate)
			continue
		}
		if len(r.Posts) > 0 {
			var sum float64
			for _, p := range r.Posts {
				sum += p.EngagementRate
			}
			rates = append(rates, sum/float64(len(r.Posts)))
		}
	}
	avg := 0.0
	if len(rates) > 0 {
		var sum float64
		for _, v := range rates {
			sum += v
		}
		avg = sum / float64(len(rates))
	}
	return int(math.Round(Interpolate(avg, engagementBreakpoints)))
}

// ScoreCoverage scores the share of requested platforms with at least one
// post inside the 30-day window. Platforms the caller never requested do not
// count against coverage. A collecting platform counts in the denominator
// (it is available) but rarely in the numerator, since it has no posts yet.
func ScoreCoverage(results []PlatformResult, requested []Platform, now time.Time) int {
	if len(requested) == 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -coverageWindowDays)
	byPlatform := make(map[Platform]PlatformResult, len(results))
	for _, r := range results {
		byPlatform[r.Platform] = r
	}
	active := 0
	for _, platform := range requested {
		r, ok := byPlatform[platform]
		if !ok || !r.Available {
			continue
		}
		for _, p := range r.Posts {
			if !p.Date.Before(cutoff) {
				active++
				break
			}
		}
	}
	return int(math.Round(float64(active) / float64(len(requested)) * 100))
}

// ScoreRecency scores days since the single most recent post across all
// platforms. With zero posts it returns the 10 floor.
func ScoreRecency(posts []NormalizedPost, now time.Time) int {
	if len(posts) == 0 {
		return 10
	}
	mostRecent := posts[0].Date
	for _, p := range posts[1:] {
		if p.Date.After(mostRecent) {
			mostRecent = p.Date
		}
	}
	days := now.Sub(mostRecent).Hours() / 24
	if days < 0 {
		days = 0
	}
	return int(math.Round(Interpolate(days, recencyBreakpoints)))
}

// WeightTable holds the effective per-dimension weights for one scan.
type WeightTable struct {
	Velocity   float64
	Video      float64
	Engagement float64
	Competitor float64
	Coverage   float64
	Recency    float64
}

// EffectiveWeights returns the weight table with the deferred competitor
// dimension's 15 points redistributed. The split is deliberately uneven
// (velocity +6.25, engagement +8.75), weighting the still-measurable
// activity dimensions rather than diluting across all five.
func EffectiveWeights() WeightTable {
	return WeightTable{
		Velocity:   25 + 6.25,
		Video:      20,
		Engagement: 20 + 8.75,
		Competitor: 0,
		Coverage:   10,
		Recency:    10,
	}
}

// Sum returns the total effective weight; it must always be exactly 100.
func (w WeightTable) Sum() float64 {
	return w.Velocity + w.Video + w.Engagement + w.Competitor + w.Coverage + w.Recency
}

// ComputeScore runs every dimension scorer over the settled platform results
// and combines them into the composite. Competitor gap stays a nil slot in
// the output schema until the comparison feature ships.
func ComputeScore(results []PlatformResult, requested []Platform, now time.Time) ScoreResult {
	var all []NormalizedPost
	for _, r := range results {
		if r.Available {
			all = append(all, r.Posts...)
		}
	}

	velocity := ScoreVelocity(all, now)
	video := ScoreVideoDominance(all)
	engagement := ScoreEngagement(results)
	coverage := ScoreCoverage(results, requested, now)
	recency := ScoreRecency(all, now)

	weights := EffectiveWeights()
	weighted := (float64(velocity)*weights.Velocity +
		float64(video)*weights.Video +
		float64(engagement)*weights.Engagement +
		float64(coverage)*weights.Coverage +
		float64(recency)*weights.Recency) / 100
	overall := int(math.Round(math.Min(100, math.Max(0, weighted))))

	subScores := map[string]*int{
		DimensionVelocity:   &velocity,
		DimensionVideo:      &video,
		DimensionEngagement: &engagement,
		DimensionCompetitor: nil,
		DimensionCoverage:   &coverage,
		DimensionRecency:    &recency,
	}

	dimensions := []DimensionDescriptor{
		{Name: "Velocity", Key: DimensionVelocity, Weight: weights.Velocity, Score: &velocity, MaxScore: 100, Description: "Posting frequency & consistency across platforms"},
		{Name: "Video Dominance", Key: DimensionVideo, Weight: weights.Video, Score: &video, MaxScore: 100, Description: "Ratio of video content to static posts"},
		{Name: "Engagement", Key: DimensionEngagement, Weight: weights.Engagement, Score: &engagement, MaxScore: 100, Description: "Estimated engagement rate vs. industry average"},
		{Name: "Competitor Gap", Key: DimensionCompetitor, Weight: weights.Competitor, Score: nil, MaxScore: 100, Description: "How your velocity compares to tracked competitors"},
		{Name: "Coverage", Key: DimensionCoverage, Weight: weights.Coverage, Score: &coverage, MaxScore: 100, Description: "Number of active platforms with recent content"},
		{Name: "Recency", Key: DimensionRecency, Weight: weights.Recency, Score: &recency, MaxScore: 100, Description: "How recent your latest content is"},
	}

	return ScoreResult{Overall: overall, SubScores: subScores, Dimensions: dimensions}
}
