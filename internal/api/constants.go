package api

// Cache-Control header values.
const (
	CacheNoStore    = "no-store"
	CacheShortLived = "private, max-age=30"
)

// EnvelopeVersion is the response envelope format sent as "v".
const EnvelopeVersion = 1
