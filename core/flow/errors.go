package flow

import "errors"

// Failure categories for the search/retrieve flow. Every external failure is
// mapped onto one of these so the gateway can pick the user-facing message
// with errors.Is and nothing escalates past the interaction boundary.
var (
	// ErrCatalogUnavailable means the catalog search or lookup failed at
	// the transport or API level. Retrying the interaction may succeed.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrUnknownToken means a result token did not resolve, typically
	// because the cache was cleared by a restart or the entry expired.
	ErrUnknownToken = errors.New("unknown result token")

	// ErrDownloadFailed means the primary media fetch failed. The caller
	// degrades to sending the raw media URL instead of inline audio.
	ErrDownloadFailed = errors.New("media download failed")

	// ErrNoMatch means the recognition service could not identify the
	// recording. Not retriable with the same audio.
	ErrNoMatch = errors.New("no recognition match")

	// ErrRecognitionFailed means the recognition call itself failed.
	ErrRecognitionFailed = errors.New("recognition failed")

	// ErrMalformedCallback means a callback payload failed validation.
	ErrMalformedCallback = errors.New("malformed callback payload")
)
