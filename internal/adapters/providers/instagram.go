package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
)

const defaultInstagramBaseURL = "https://instagram-statistics-api.p.rapidapi.com"

// InstagramClient talks to the Instagram statistics API (RapidAPI). The
// profile lookup carries followers, the provider-reported average engagement
// rate, and an embedded last-posts list that serves as the fallback source
// when the richer feed endpoint fails or the account is still collecting.
type InstagramClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	nowFn   func() time.Time
}

func NewInstagramClient(apiKey, baseURL string, timeout time.Duration) *InstagramClient {
	if baseURL == "" {
		baseURL = defaultInstagramBaseURL
	}
	return &InstagramClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    newHTTPClient(timeout),
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *InstagramClient) Platform() domain.Platform { return domain.PlatformInstagram }

func (c *InstagramClient) headers() http.Header {
	host := c.baseURL
	if parsed, err := url.Parse(c.baseURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	return http.Header{
		"X-Rapidapi-Key":  []string{c.apiKey},
		"X-Rapidapi-Host": []string{host},
	}
}

type igProfileResponse struct {
	CommunityID     string       `json:"cid"`
	UsersCount      int64        `json:"usersCount"`
	CommunityStatus string       `json:"communityStatus"`
	AvgER           float64      `json:"avgER"`
	LastPosts       []igFeedPost `json:"lastPosts"`
}

type igFeedPost struct {
	PostID       flexString `json:"postID"`
	SocialPostID flexString `json:"socialPostID"`
	ID           flexString `json:"id"`
	Type         string     `json:"type"`
	Text         string     `json:"text"`
	Description  string     `json:"description"`
	Likes        flexInt    `json:"likes"`
	Comments     flexInt    `json:"comments"`
	Views        flexInt    `json:"views"`
	VideoViews   flexInt    `json:"videoViews"`
	Date         flexTime   `json:"date"`
}

type igFeedResponse struct {
	Posts []igFeedPost `json:"posts"`
	Data  []igFeedPost `json:"data"`
}

func (c *InstagramClient) Fetch(ctx context.Context, handle string) domain.PlatformResult {
	unavailable := domain.PlatformResult{Platform: domain.PlatformInstagram, Available: false}
	if c.apiKey == "" {
		unavailable.Error = "RAPIDAPI_KEY not configured"
		return unavailable
	}

	profileURL := c.baseURL + "/community?url=" + url.QueryEscape("https://www.instagram.com/"+handle)
	var profile igProfileResponse
	if err := fetchJSON(ctx, c.http, profileURL, c.headers(), &profile); err != nil {
		unavailable.Error = err.Error()
		return unavailable
	}

	followers := profile.UsersCount
	collecting := profile.CommunityStatus == "COLLECTING"

	var posts []domain.NormalizedPost
	if profile.CommunityID != "" && !collecting {
		posts = c.fetchFeed(ctx, profile.CommunityID, followers)
	}
	if len(posts) == 0 {
		posts = c.mapLastPosts(profile.LastPosts, followers)
	}

	avgER := profile.AvgER
	return domain.PlatformResult{
		Platform:       domain.PlatformInstagram,
		Available:      true,
		Collecting:     collecting,
		Followers:      followers,
		EngagementRate: &avgER,
		Posts:          posts,
	}
}

// fetchFeed pulls the trailing 8-week post window. Failures fall back to the
// profile's embedded last-posts list rather than failing the platform.
func (c *InstagramClient) fetchFeed(ctx context.Context, communityID string, followers int64) []domain.NormalizedPost {
	now := c.nowFn()
	from := now.AddDate(0, 0, -56)
	feedURL := fmt.Sprintf("%s/feed?cid=%s&from=%s&to=%s&type=posts&sort=-date",
		c.baseURL, url.QueryEscape(communityID), from.Format("02.01.2006"), now.Format("02.01.2006"))

	var feed igFeedResponse
	if err := fetchJSON(ctx, c.http, feedURL, c.headers(), &feed); err != nil {
		return nil
	}
	raw := feed.Posts
	if len(raw) == 0 {
		raw = feed.Data
	}
	if len(raw) > 50 {
		raw = raw[:50]
	}

	posts := make([]domain.NormalizedPost, 0, len(raw))
	for i, p := range raw {
		likes := p.Likes.Or(0)
		comments := p.Comments.Or(0)
		views := p.Views.Ptr()
		if views == nil {
			views = p.VideoViews.Ptr()
		}
		content := p.Text
		if content == "" {
			content = p.Description
		}
		posts = append(posts, domain.NormalizedPost{
			Platform:       domain.PlatformInstagram,
			Type:           classifyContent(p.Type),
			Content:        truncate(content, 200),
			Likes:          likes,
			Comments:       comments,
			Views:          views,
			Date:           resolveDate(now, p.Date),
			EngagementRate: engagementRate(likes, comments, followers),
			ExternalID:     "instagram_" + firstNonEmpty(strconv.Itoa(i), p.PostID, p.SocialPostID, p.ID),
		})
	}
	return posts
}

// mapLastPosts normalizes the weaker embedded source. Its type vocabulary is
// coarser: anything video-like is a reel, sidecars are carousels.
func (c *InstagramClient) mapLastPosts(raw []igFeedPost, followers int64) []domain.NormalizedPost {
	now := c.nowFn()
	posts := make([]domain.NormalizedPost, 0, len(raw))
	for i, p := range raw {
		likes := p.Likes.Or(0)
		comments := p.Comments.Or(0)
		rawType := strings.ToLower(p.Type)
		contentType := domain.ContentTypeImage
		switch {
		case strings.Contains(rawType, "video") || strings.Contains(rawType, "reel"):
			contentType = domain.ContentTypeReel
		case rawType == "graphsidecar":
			contentType = domain.ContentTypeCarousel
		}
		posts = append(posts, domain.NormalizedPost{
			Platform:       domain.PlatformInstagram,
			Type:           contentType,
			Content:        truncate(p.Text, 200),
			Likes:          likes,
			Comments:       comments,
			Views:          nil,
			Date:           resolveDate(now, p.Date),
			EngagementRate: engagementRate(likes, comments, followers),
			ExternalID:     "instagram_" + firstNonEmpty(strconv.Itoa(i), p.ID),
		})
	}
	return posts
}

type igSearchResponse struct {
	Data []igSearchProfile `json:"data"`
}

type igSearchProfile struct {
	CommunityID      string   `json:"cid"`
	Name             string   `json:"name"`
	ScreenName       string   `json:"screenName"`
	Image            string   `json:"image"`
	URL              string   `json:"url"`
	Verified         bool     `json:"verified"`
	UsersCount       int64    `json:"usersCount"`
	Tags             []string `json:"tags"`
	AvgER            float64  `json:"avgER"`
	AvgLikes         float64  `json:"avgLikes"`
	AvgComments      float64  `json:"avgComments"`
	AvgInteractions  float64  `json:"avgInteractions"`
	AvgViews         *float64 `json:"avgViews"`
	AvgVideoLikes    float64  `json:"avgVideoLikes"`
	AvgVideoComments float64  `json:"avgVideoComments"`
	AvgVideoViews    float64  `json:"avgVideoViews"`
	QualityScore     float64  `json:"qualityScore"`
}

// FetchStats resolves a handle through the search endpoint, preferring an
// exact screen-name match over the first result.
func (c *InstagramClient) FetchStats(ctx context.Context, handle string) (domain.InstagramStats, error) {
	if c.apiKey == "" {
		return domain.InstagramStats{}, fmt.Errorf("RAPIDAPI_KEY not configured")
	}
	searchURL := c.baseURL + "/search?q=" + url.QueryEscape(handle) + "&perPage=5"
	var result igSearchResponse
	if err := fetchJSON(ctx, c.http, searchURL, c.headers(), &result); err != nil {
		return domain.InstagramStats{}, err
	}

	var profile *igSearchProfile
	for i := range result.Data {
		if strings.EqualFold(result.Data[i].ScreenName, handle) {
			profile = &result.Data[i]
			break
		}
	}
	if profile == nil && len(result.Data) > 0 {
		profile = &result.Data[0]
	}
	if profile == nil {
		return domain.InstagramStats{}, fmt.Errorf("%w: no instagram profile found for this handle", domain.ErrNotFound)
	}

	return domain.InstagramStats{
		CommunityID:       profile.CommunityID,
		Name:              profile.Name,
		ScreenName:        profile.ScreenName,
		Image:             profile.Image,
		URL:               profile.URL,
		Verified:          profile.Verified,
		Followers:         profile.UsersCount,
		Tags:              profile.Tags,
		AvgEngagementRate: profile.AvgER,
		AvgLikes:          profile.AvgLikes,
		AvgComments:       profile.AvgComments,
		AvgInteractions:   profile.AvgInteractions,
		AvgViews:          profile.AvgViews,
		AvgVideoLikes:     profile.AvgVideoLikes,
		AvgVideoComments:  profile.AvgVideoComments,
		AvgVideoViews:     profile.AvgVideoViews,
		QualityScore:      profile.QualityScore,
	}, nil
}
