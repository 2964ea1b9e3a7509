package application

import (
	"context"
	"fmt"

	"github.com/socialpulse/visibility-service/internal/domain"
)

// InstagramStats resolves a handle to its normalized profile stat block.
func (s *Service) InstagramStats(ctx context.Context, handle string) (domain.InstagramStats, error) {
	handle = cleanHandle(handle)
	if handle == "" {
		return domain.InstagramStats{}, fmt.Errorf("%w: instagram handle is required", domain.ErrInvalidInput)
	}
	if s.igStats == nil {
		return domain.InstagramStats{}, fmt.Errorf("%w: instagram statistics lookup is not configured", domain.ErrNotFound)
	}
	stats, err := s.igStats.FetchStats(ctx, handle)
	if err != nil {
		s.logger.WarnContext(ctx, "instagram stats lookup failed",
			"operation", "instagram_stats", "outcome", "failure", "handle", handle, "error", err.Error())
		return domain.InstagramStats{}, err
	}
	return stats, nil
}
