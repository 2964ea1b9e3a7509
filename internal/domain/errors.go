package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid_input")
	ErrNotFound           = errors.New("not_found")
	ErrRateLimitExceeded  = errors.New("rate_limit_exceeded")
	ErrSiteUnreachable    = errors.New("site_unreachable")
	ErrStorageUnavailable = errors.New("storage_unavailable")
)
