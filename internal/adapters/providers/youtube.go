package providers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubeClient resolves a handle through the Data API: a direct forHandle
// channel lookup with a search fallback, then one recent-videos search and
// one details batch for the statistics.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	nowFn   func() time.Time
}

func NewYouTubeClient(apiKey, baseURL string, timeout time.Duration) *YouTubeClient {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    newHTTPClient(timeout),
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *YouTubeClient) Platform() domain.Platform { return domain.PlatformYouTube }

type ytChannelList struct {
	Items []struct {
		ID         string        `json:"id"`
		Statistics *ytStatistics `json:"statistics"`
	} `json:"items"`
}

type ytStatistics struct {
	SubscriberCount flexInt `json:"subscriberCount"`
	LikeCount       flexInt `json:"likeCount"`
	CommentCount    flexInt `json:"commentCount"`
	ViewCount       flexInt `json:"viewCount"`
}

type ytSearchList struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
			VideoID   string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			ChannelID string `json:"channelId"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideoList struct {
	Items []struct {
		ID             string        `json:"id"`
		Statistics     *ytStatistics `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Snippet struct {
			Title       string   `json:"title"`
			PublishedAt flexTime `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *YouTubeClient) Fetch(ctx context.Context, handle string) domain.PlatformResult {
	unavailable := domain.PlatformResult{Platform: domain.PlatformYouTube, Available: false}
	if c.apiKey == "" {
		unavailable.Error = "YOUTUBE_API_KEY not configured"
		return unavailable
	}

	channelID, stats := c.resolveChannel(ctx, handle)
	if channelID == "" || stats == nil {
		unavailable.Error = "Channel not found"
		return unavailable
	}
	followers := stats.SubscriberCount.Or(0)

	searchURL := c.baseURL + "/search?part=snippet&channelId=" + url.QueryEscape(channelID) +
		"&type=video&order=date&maxResults=12&key=" + url.QueryEscape(c.apiKey)
	var search ytSearchList
	if err := fetchJSON(ctx, c.http, searchURL, nil, &search); err != nil {
		unavailable.Error = err.Error()
		return unavailable
	}
	var videoIDs []string
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			videoIDs = append(videoIDs, item.ID.VideoID)
		}
	}

	var posts []domain.NormalizedPost
	if len(videoIDs) > 0 {
		posts = c.fetchVideoDetails(ctx, videoIDs, followers)
	}

	return domain.PlatformResult{
		Platform:  domain.PlatformYouTube,
		Available: true,
		Followers: followers,
		Posts:     posts,
	}
}

// resolveChannel tries the direct handle lookup first and falls back to a
// one-result channel search when the handle form is unknown to the API.
func (c *YouTubeClient) resolveChannel(ctx context.Context, handle string) (string, *ytStatistics) {
	directURL := c.baseURL + "/channels?part=statistics,snippet,contentDetails&forHandle=" +
		url.QueryEscape(handle) + "&key=" + url.QueryEscape(c.apiKey)
	var direct ytChannelList
	if err := fetchJSON(ctx, c.http, directURL, nil, &direct); err == nil && len(direct.Items) > 0 {
		return direct.Items[0].ID, direct.Items[0].Statistics
	}

	searchURL := c.baseURL + "/search?part=snippet&type=channel&q=" + url.QueryEscape(handle) +
		"&maxResults=1&key=" + url.QueryEscape(c.apiKey)
	var search ytSearchList
	if err := fetchJSON(ctx, c.http, searchURL, nil, &search); err != nil || len(search.Items) == 0 {
		return "", nil
	}
	channelID := search.Items[0].ID.ChannelID
	if channelID == "" {
		channelID = search.Items[0].Snippet.ChannelID
	}
	if channelID == "" {
		return "", nil
	}

	byIDURL := c.baseURL + "/channels?part=statistics,snippet&id=" + url.QueryEscape(channelID) +
		"&key=" + url.QueryEscape(c.apiKey)
	var byID ytChannelList
	if err := fetchJSON(ctx, c.http, byIDURL, nil, &byID); err != nil || len(byID.Items) == 0 {
		return "", nil
	}
	return channelID, byID.Items[0].Statistics
}

func (c *YouTubeClient) fetchVideoDetails(ctx context.Context, videoIDs []string, followers int64) []domain.NormalizedPost {
	now := c.nowFn()
	detailsURL := c.baseURL + "/videos?part=statistics,contentDetails,snippet&id=" +
		url.QueryEscape(strings.Join(videoIDs, ",")) + "&key=" + url.QueryEscape(c.apiKey)
	var details ytVideoList
	if err := fetchJSON(ctx, c.http, detailsURL, nil, &details); err != nil {
		return nil
	}

	posts := make([]domain.NormalizedPost, 0, len(details.Items))
	for _, v := range details.Items {
		contentType := domain.ContentTypeVideo
		if parseISODuration(v.ContentDetails.Duration) < 60 {
			contentType = domain.ContentTypeShort
		}
		var likes, comments int64
		var views *int64
		if v.Statistics != nil {
			likes = v.Statistics.LikeCount.Or(0)
			comments = v.Statistics.CommentCount.Or(0)
			viewCount := v.Statistics.ViewCount.Or(0)
			views = &viewCount
		}
		posts = append(posts, domain.NormalizedPost{
			Platform:       domain.PlatformYouTube,
			Type:           contentType,
			Content:        truncate(v.Snippet.Title, 200),
			Likes:          likes,
			Comments:       comments,
			Views:          views,
			Date:           resolveDate(now, v.Snippet.PublishedAt),
			EngagementRate: engagementRate(likes, comments, followers),
			ExternalID:     "youtube_" + v.ID,
		})
	}
	return posts
}
