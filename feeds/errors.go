package feeds

import "errors"

var (
	// ErrInvalidDateFormat is returned when a publication date cannot be parsed
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrCacheUnavailable is returned when the cache fails or none is configured for a cached render
	ErrCacheUnavailable = errors.New("cache unavailable")
)
