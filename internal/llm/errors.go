package llm

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
)

type failureKind int

const (
	failureFatal failureKind = iota
	failureRateLimit
	failureTimeout
)

// classify buckets a call error into the retry taxonomy. Transports differ
// in how they surface HTTP status, so rate limiting is matched on both the
// status code and the conventional wording.
func classify(err error) failureKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "resource_exhausted"):
		return failureRateLimit
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return failureTimeout
	}
	return failureFatal
}
