package probe

import (
	"context"
	"time"
)

// Target is a single endpoint to probe.
type Target struct {
	URL            string
	ExpectedStatus int           // 0 accepts any 2xx
	Timeout        time.Duration // 0 uses the checker default
}

// CheckResult is the unified result of a single probe.
//
// StatusCode is 0 for transport errors and timeouts.
type CheckResult struct {
	Success    bool
	StatusCode int
	LatencyMS  float64
	Message    string
}

// Checker performs a single check. Failures are reported in the result,
// never as an error.
type Checker interface {
	Check(ctx context.Context, t Target) CheckResult
}
