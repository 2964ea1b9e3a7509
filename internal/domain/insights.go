package domain

import (
	"fmt"
	"sort"
)

// insightRule pairs a predicate with its message. Rules are evaluated top to
// bottom and the first match wins, so ordering is part of the contract.
type insightRule struct {
	matches func(overall int, sub map[string]*int) bool
	message string
}

func subScore(sub map[string]*int, key string) int {
	if v, ok := sub[key]; ok && v != nil {
		return *v
	}
	return 0
}

var insightRules = []insightRule{
	{
		matches: func(_ int, sub map[string]*int) bool { return subScore(sub, DimensionRecency) < 40 },
		message: "Your most recent post is over 2 weeks old. Algorithms penalize inactivity — every day without a post is visibility lost to competitors.",
	},
	{
		matches: func(_ int, sub map[string]*int) bool { return subScore(sub, DimensionVelocity) < 50 },
		message: "You're publishing less frequently than most brands in your space. Increasing to 4+ posts per week is the fastest way to boost your score.",
	},
	{
		matches: func(_ int, sub map[string]*int) bool { return subScore(sub, DimensionVideo) < 40 },
		message: "Less than 25% of your content is video. In 2026, video drives 3x more algorithmic reach — shifting to Reels, Shorts, and TikTok could significantly boost visibility.",
	},
	{
		matches: func(_ int, sub map[string]*int) bool { return subScore(sub, DimensionEngagement) < 40 },
		message: "Your engagement rate is below average. Focus on hooks in your first 3 seconds (video) or first line (captions) to drive more interaction.",
	},
	{
		matches: func(overall int, _ map[string]*int) bool { return overall < 40 },
		message: "Your brand is in the 'Low Visibility' range. Competitors are capturing the audience attention you're missing.",
	},
	{
		matches: func(overall int, _ map[string]*int) bool { return overall < 60 },
		message: "You're in the 'Fading' zone — you have a foundation, but significant gaps are letting competitors pull ahead.",
	},
}

const insightDefault = "Your visibility is solid but there's room to grow. See your full breakdown to find where to focus."

// GenerateInsight derives the single-sentence insight from the score via the
// ordered rule list.
func GenerateInsight(overall int, subScores map[string]*int) string {
	for _, rule := range insightRules {
		if rule.matches(overall, subScores) {
			return rule.message
		}
	}
	return insightDefault
}

var recommendationTemplates = map[string]string{
	DimensionVelocity:   "Your posting velocity score is %d/100. Try increasing to at least 4 posts per week across your active platforms to move into the 65+ range.",
	DimensionVideo:      "Video dominance is at %d/100. Shift at least 50%% of your content to Reels, Shorts, or TikTok videos to reach a score of 55+.",
	DimensionEngagement: "Engagement score is %d/100. Experiment with stronger hooks, questions in captions, and interactive Stories/polls to drive more comments and likes.",
	DimensionCoverage:   "Platform coverage scored %d/100. You have inactive platforms — post at least once in the next 30 days on each to maximize cross-platform reach.",
	DimensionRecency:    "Recency score is %d/100. Post something today — even a Story or Short — to signal freshness to platform algorithms.",
}

// GenerateRecommendations ranks the scored dimensions ascending and emits one
// templated sentence for each of the three weakest. The sort is stable, so
// ties break in RankedDimensions order.
func GenerateRecommendations(subScores map[string]*int) []string {
	type ranked struct {
		key   string
		score int
	}
	dims := make([]ranked, 0, len(RankedDimensions))
	for _, key := range RankedDimensions {
		dims = append(dims, ranked{key: key, score: subScore(subScores, key)})
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].score < dims[j].score })

	recs := make([]string, 0, 3)
	for _, d := range dims {
		if len(recs) >= 3 {
			break
		}
		recs = append(recs, fmt.Sprintf(recommendationTemplates[d.key], d.score))
	}
	return recs
}
