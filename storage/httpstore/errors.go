package httpstore

import "errors"

// Sentinel errors for remote store operations.
// Callers should use errors.Is to check.
var (
	// ErrFetchFailed indicates the request could not be completed or its body could not be read.
	ErrFetchFailed = errors.New("httpstore: request failed")
	// ErrHTTPStatus indicates an unexpected HTTP status (e.g. 500).
	ErrHTTPStatus = errors.New("httpstore: unexpected HTTP status")
)
