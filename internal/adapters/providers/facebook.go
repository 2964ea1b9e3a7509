package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
)

const defaultSociaVaultBaseURL = "https://api.sociavault.com"

// FacebookClient scrapes a profile through the SociaVault API. One call
// returns followers and the recent-post list; there is no richer secondary
// source to fall back to.
type FacebookClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	nowFn   func() time.Time
}

func NewFacebookClient(apiKey, baseURL string, timeout time.Duration) *FacebookClient {
	if baseURL == "" {
		baseURL = defaultSociaVaultBaseURL
	}
	return &FacebookClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    newHTTPClient(timeout),
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *FacebookClient) Platform() domain.Platform { return domain.PlatformFacebook }

type fbProfileResponse struct {
	FollowerCount flexInt  `json:"follower_count"`
	Followers     flexInt  `json:"followers"`
	Posts         []fbPost `json:"posts"`
	RecentPosts   []fbPost `json:"recent_posts"`
}

type fbPost struct {
	ID           flexString `json:"id"`
	Text         string     `json:"text"`
	Content      string     `json:"content"`
	Message      string     `json:"message"`
	Likes        flexInt    `json:"likes"`
	LikeCount    flexInt    `json:"like_count"`
	Comments     flexInt    `json:"comments"`
	CommentCount flexInt    `json:"comment_count"`
	Views        flexInt    `json:"views"`
	Date         flexTime   `json:"date"`
	CreatedAt    flexTime   `json:"created_at"`
	CreatedTime  flexTime   `json:"created_time"`
}

func (c *FacebookClient) Fetch(ctx context.Context, handle string) domain.PlatformResult {
	unavailable := domain.PlatformResult{Platform: domain.PlatformFacebook, Available: false}
	if c.apiKey == "" {
		unavailable.Error = "SOCIAVAULT_API_KEY not configured"
		return unavailable
	}

	profileURL := c.baseURL + "/v1/scrape/facebook/profile?username=" + url.QueryEscape(handle)
	header := http.Header{"Authorization": []string{"Bearer " + c.apiKey}}
	var profile fbProfileResponse
	if err := fetchJSON(ctx, c.http, profileURL, header, &profile); err != nil {
		unavailable.Error = err.Error()
		return unavailable
	}

	followers := profile.FollowerCount.Or(profile.Followers.Or(0))
	raw := profile.Posts
	if len(raw) == 0 {
		raw = profile.RecentPosts
	}
	if len(raw) > 12 {
		raw = raw[:12]
	}

	now := c.nowFn()
	posts := make([]domain.NormalizedPost, 0, len(raw))
	for i, p := range raw {
		likes := p.Likes.Or(p.LikeCount.Or(0))
		comments := p.Comments.Or(p.CommentCount.Or(0))
		content := p.Text
		if content == "" {
			content = p.Content
		}
		if content == "" {
			content = p.Message
		}
		posts = append(posts, domain.NormalizedPost{
			Platform:       domain.PlatformFacebook,
			Type:           domain.ContentTypeImage,
			Content:        truncate(content, 200),
			Likes:          likes,
			Comments:       comments,
			Views:          p.Views.Ptr(),
			Date:           resolveDate(now, p.Date, p.CreatedAt, p.CreatedTime),
			EngagementRate: engagementRate(likes, comments, followers),
			ExternalID:     "facebook_" + firstNonEmpty(strconv.Itoa(i), p.ID),
		})
	}

	return domain.PlatformResult{
		Platform:  domain.PlatformFacebook,
		Available: true,
		Followers: followers,
		Posts:     posts,
	}
}
