package cdnclient

import (
	"fmt"
	"time"
)

// backoffBase is the initial delay used by FetchWithBackoff's exponential retry.
const backoffBase = 200 * time.Millisecond

// StatusError reports a CDN HTTP transport returning an unexpected status code.
type StatusError struct {
	Host       string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cdnclient: %s%s: unexpected status code %d", e.Host, e.Path, e.StatusCode)
}
