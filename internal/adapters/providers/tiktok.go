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

// TikTokClient scrapes a profile through the SociaVault API. Every TikTok
// item is a video by definition.
type TikTokClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	nowFn   func() time.Time
}

func NewTikTokClient(apiKey, baseURL string, timeout time.Duration) *TikTokClient {
	if baseURL == "" {
		baseURL = defaultSociaVaultBaseURL
	}
	return &TikTokClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    newHTTPClient(timeout),
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *TikTokClient) Platform() domain.Platform { return domain.PlatformTikTok }

type ttProfileResponse struct {
	FollowerCount flexInt   `json:"followerCount"`
	Followers     flexInt   `json:"followers"`
	Videos        []ttVideo `json:"videos"`
	RecentVideos  []ttVideo `json:"recent_videos"`
}

type ttVideo struct {
	ID           flexString `json:"id"`
	Desc         string     `json:"desc"`
	Title        string     `json:"title"`
	Text         string     `json:"text"`
	DiggCount    flexInt    `json:"diggCount"`
	Likes        flexInt    `json:"likes"`
	CommentCount flexInt    `json:"commentCount"`
	Comments     flexInt    `json:"comments"`
	PlayCount    flexInt    `json:"playCount"`
	Views        flexInt    `json:"views"`
	CreateTime   flexTime   `json:"createTime"`
	Date         flexTime   `json:"date"`
}

func (c *TikTokClient) Fetch(ctx context.Context, handle string) domain.PlatformResult {
	unavailable := domain.PlatformResult{Platform: domain.PlatformTikTok, Available: false}
	if c.apiKey == "" {
		unavailable.Error = "SOCIAVAULT_API_KEY not configured"
		return unavailable
	}

	profileURL := c.baseURL + "/v1/scrape/tiktok/profile?username=" + url.QueryEscape(handle)
	header := http.Header{"Authorization": []string{"Bearer " + c.apiKey}}
	var profile ttProfileResponse
	if err := fetchJSON(ctx, c.http, profileURL, header, &profile); err != nil {
		unavailable.Error = err.Error()
		return unavailable
	}

	followers := profile.FollowerCount.Or(profile.Followers.Or(0))
	raw := profile.Videos
	if len(raw) == 0 {
		raw = profile.RecentVideos
	}
	if len(raw) > 12 {
		raw = raw[:12]
	}

	now := c.nowFn()
	posts := make([]domain.NormalizedPost, 0, len(raw))
	for i, v := range raw {
		likes := v.DiggCount.Or(v.Likes.Or(0))
		comments := v.CommentCount.Or(v.Comments.Or(0))
		views := v.PlayCount.Or(v.Views.Or(0))
		content := v.Desc
		if content == "" {
			content = v.Title
		}
		if content == "" {
			content = v.Text
		}
		posts = append(posts, domain.NormalizedPost{
			Platform:       domain.PlatformTikTok,
			Type:           domain.ContentTypeVideo,
			Content:        truncate(content, 200),
			Likes:          likes,
			Comments:       comments,
			Views:          &views,
			Date:           resolveDate(now, v.CreateTime, v.Date),
			EngagementRate: engagementRate(likes, comments, followers),
			ExternalID:     "tiktok_" + firstNonEmpty(strconv.Itoa(i), v.ID),
		})
	}

	return domain.PlatformResult{
		Platform:  domain.PlatformTikTok,
		Available: true,
		Followers: followers,
		Posts:     posts,
	}
}
