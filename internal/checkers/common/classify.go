// internal/checkers/common/classify.go
package common

import (
	"context"
	"net"
	"strings"

	"credprobe/internal/core/domain"
	"credprobe/internal/platform/errors"
)

// ClassifyDialError maps a connection establishment error to an outcome.
// Errors here happen before any authentication exchange, so the result
// is always a timeout or a network error, never an auth failure.
func ClassifyDialError(err error) domain.Outcome {
	if err == nil {
		return domain.Success()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Timeout("connection timed out")
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return domain.Timeout(err.Error())
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout"):
		return domain.Timeout(err.Error())
	case strings.Contains(lower, "connection refused"):
		return domain.NetworkError("connection refused")
	case strings.Contains(lower, "connection reset"):
		return domain.NetworkError("connection reset")
	case strings.Contains(lower, "no route"),
		strings.Contains(lower, "network unreachable"),
		strings.Contains(lower, "host unreachable"),
		strings.Contains(lower, "no such host"):
		return domain.NetworkError("host unreachable")
	default:
		return domain.NetworkError(err.Error())
	}
}

// IsTimeoutString reports whether an error message looks like a timeout.
func IsTimeoutString(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "i/o timeout") || strings.Contains(lower, "timeout")
}

// ContainsAny reports whether the lowercased message contains any of the
// given markers. Checker error taxonomies are string driven: most
// services only expose failure reasons through the error text.
func ContainsAny(msg string, markers ...string) bool {
	lower := strings.ToLower(msg)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
