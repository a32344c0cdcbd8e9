package api

// API limits and constants.
const (
	// DefaultPageSize is the session listing page size when none is given.
	DefaultPageSize = 20

	// MaxPageSize caps listing and search pages.
	MaxPageSize = 100
)

// Cache-Control header values.
const (
	CacheOneDay  = "public, max-age=86400"
	CacheNoStore = "no-store"
)
