package opensearch

import "errors"

var (
	// ErrConnectionFailed is returned by New when the client cannot be created.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
	ErrSearchFailed      = errors.New("opensearch search failed")
)
