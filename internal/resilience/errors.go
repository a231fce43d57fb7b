package resilience

import (
	"errors"
	"net"
	"strings"
)

// FetchErrorKind classifies a failed page fetch. Only rate-limit
// failures are retried in place; rate-limit, timeout, and server-error
// failures are recordable (the URL is set aside for a later pass);
// anything else is logged and skipped.
type FetchErrorKind int

const (
	FetchOther FetchErrorKind = iota
	FetchRateLimited
	FetchTimeout
	FetchServerError
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchRateLimited:
		return "rate_limited"
	case FetchTimeout:
		return "timeout"
	case FetchServerError:
		return "server_error"
	default:
		return "other"
	}
}

// httpStatusError is satisfied by client errors that carry the upstream
// HTTP status (e.g. firecrawl.APIError).
type httpStatusError interface {
	HTTPStatus() int
}

// ClassifyFetch maps a fetch error to its failure class. Typed client
// errors are inspected first; string heuristics cover errors that come
// back wrapped or stringified by the transport.
func ClassifyFetch(err error) FetchErrorKind {
	if err == nil {
		return FetchOther
	}

	var se httpStatusError
	if errors.As(err, &se) {
		switch se.HTTPStatus() {
		case 429:
			return FetchRateLimited
		case 408:
			return FetchTimeout
		case 502, 503, 504:
			return FetchServerError
		}
		return FetchOther
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FetchTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return FetchRateLimited
	case strings.Contains(msg, "408") || strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout"):
		return FetchTimeout
	case strings.Contains(msg, "502") || strings.Contains(msg, "503") || strings.Contains(msg, "504"):
		return FetchServerError
	}

	return FetchOther
}

// IsRateLimited reports whether err is a rate-limit failure. This is
// the only class retried in place.
func IsRateLimited(err error) bool {
	return ClassifyFetch(err) == FetchRateLimited
}

// IsRecordable reports whether the URL behind err should be recorded
// for a later retry pass instead of being dropped.
func IsRecordable(err error) bool {
	switch ClassifyFetch(err) {
	case FetchRateLimited, FetchTimeout, FetchServerError:
		return true
	default:
		return false
	}
}
