package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/socialpulse/visibility-service/internal/domain"
)

// Per-platform URL patterns for handle discovery. YouTube tries the handle
// form first and legacy channel paths second.
var socialPatterns = map[domain.Platform][]*regexp.Regexp{
	domain.PlatformInstagram: {
		regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/([a-zA-Z0-9_.]+)/?`),
	},
	domain.PlatformFacebook: {
		regexp.MustCompile(`(?i)https?://(?:www\.)?facebook\.com/([a-zA-Z0-9_.]+)/?`),
	},
	domain.PlatformTikTok: {
		regexp.MustCompile(`(?i)https?://(?:www\.)?tiktok\.com/@([a-zA-Z0-9_.]+)/?`),
	},
	domain.PlatformYouTube: {
		regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/@([a-zA-Z0-9_.]+)/?`),
		regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/(?:c|channel|user)/([a-zA-Z0-9_.]+)/?`),
	},
}

// Share/login style slugs that show up in platform links on most sites and
// are never real handles.
var genericHandles = map[string]struct{}{
	"share": {}, "sharer": {}, "intent": {}, "dialog": {}, "login": {},
	"signup": {}, "help": {}, "about": {}, "policies": {}, "legal": {},
}

// DiscoverSocials fetches one website page and extracts the first plausible
// handle per platform from its HTML.
func (s *Service) DiscoverSocials(ctx context.Context, req DiscoverRequest) (DiscoverResult, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return DiscoverResult{}, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	html, err := s.pages.FetchHTML(ctx, url)
	if err != nil {
		s.logger.WarnContext(ctx, "site fetch failed",
			"operation", "discover_socials", "outcome", "failure", "url", url, "error", err.Error())
		return DiscoverResult{}, fmt.Errorf("%w: %s", domain.ErrSiteUnreachable, err.Error())
	}

	found := make(map[string]string)
	for _, platform := range domain.AllPlatforms {
		for _, pattern := range socialPatterns[platform] {
			if handle := firstRealHandle(pattern, html); handle != "" {
				found[string(platform)] = handle
				break
			}
		}
	}
	return DiscoverResult{Socials: found}, nil
}

func firstRealHandle(pattern *regexp.Regexp, html string) string {
	for _, match := range pattern.FindAllStringSubmatch(html, -1) {
		handle := match[1]
		if _, generic := genericHandles[strings.ToLower(handle)]; !generic {
			return handle
		}
	}
	return ""
}
