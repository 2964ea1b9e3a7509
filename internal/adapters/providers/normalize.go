package providers

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
)

// contentTypeRules maps provider type vocabulary onto the normalized enum by
// substring, first match wins. The precedence (reel > video > carousel >
// story > image) matches the original classification chain; a provider
// string containing several keywords classifies as the first hit, which is a
// known fragility we keep rather than silently reorder.
var contentTypeRules = []struct {
	keyword string
	t       domain.ContentType
}{
	{"reel", domain.ContentTypeReel},
	{"video", domain.ContentTypeVideo},
	{"sidecar", domain.ContentTypeCarousel},
	{"carousel", domain.ContentTypeCarousel},
	{"story", domain.ContentTypeStory},
}

func classifyContent(raw string) domain.ContentType {
	raw = strings.ToLower(raw)
	for _, rule := range contentTypeRules {
		if strings.Contains(raw, rule.keyword) {
			return rule.t
		}
	}
	return domain.ContentTypeImage
}

// unixMillisThreshold separates unix-second from unix-millisecond payloads
// by magnitude: 1e12 seconds is year 33658, 1e12 milliseconds is 2001.
const unixMillisThreshold = 1e12

// flexTime decodes the provider date vocabularies (unix seconds, unix
// milliseconds, ISO-8601 strings) into one canonical UTC timestamp. A post
// whose date cannot be resolved keeps the zero value and is defaulted by the
// adapter, so scorers never see an unparsable date.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		t.Time = parseDateString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	if f >= unixMillisThreshold {
		t.Time = time.UnixMilli(int64(f)).UTC()
		return nil
	}
	t.Time = time.Unix(int64(f), 0).UTC()
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700", // facebook created_time offset form
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDateString(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC()
		}
	}
	// Plain numeric strings show up where providers stringify timestamps.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f >= unixMillisThreshold {
			return time.UnixMilli(int64(f)).UTC()
		}
		return time.Unix(int64(f), 0).UTC()
	}
	return time.Time{}
}

// resolveDate picks the first resolvable timestamp, defaulting to now so a
// malformed entry degrades instead of dropping the post.
func resolveDate(now time.Time, candidates ...flexTime) time.Time {
	for _, c := range candidates {
		if !c.IsZero() {
			return c.Time
		}
	}
	return now
}

// flexInt tolerates providers that report counters as JSON numbers or as
// numeric strings (the YouTube statistics block does the latter).
type flexInt struct {
	value int64
	set   bool
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	n.value = int64(f)
	n.set = true
	return nil
}

func (n flexInt) Or(fallback int64) int64 {
	if n.set {
		return n.value
	}
	return fallback
}

func (n flexInt) Ptr() *int64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

// flexString tolerates identifiers serialized as strings or numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(raw)
	return nil
}

// firstNonEmpty returns the first non-empty identifier, falling back to the
// item's position so external IDs stay stable within one response.
func firstNonEmpty(fallback string, candidates ...flexString) string {
	for _, c := range candidates {
		if c != "" {
			return string(c)
		}
	}
	return fallback
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseISODuration returns the duration of an ISO-8601 PT#H#M#S string in
// seconds, 0 when unparsable.
func parseISODuration(dur string) int {
	m := isoDurationPattern.FindStringSubmatch(dur)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(m[3]))
	return hours*3600 + minutes*60 + seconds
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
