package domain

import "time"

const (
	EventScanCompleted = "visibility.scan.completed"
)

// ScanCompletedEvent is published after a scan finishes, whether or not the
// result could be persisted. Consumers key on the caller when present and on
// the client IP otherwise.
type ScanCompletedEvent struct {
	ScanID       string          `json:"scan_id"`
	CallerID     string          `json:"caller_id,omitempty"`
	Overall      int             `json:"overall"`
	SubScores    map[string]*int `json:"sub_scores"`
	Platforms    []Platform      `json:"platforms"`
	PostsScanned int             `json:"posts_scanned"`
	CompletedAt  time.Time       `json:"completed_at"`
}
