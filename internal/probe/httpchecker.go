package probe

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultUserAgent = "uptimehistory/1.0"

type HTTPChecker struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		Client:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}
}

// Check sends HEAD to the target, retrying once with GET when the server
// does not allow HEAD.
func (h *HTTPChecker) Check(ctx context.Context, t Target) CheckResult {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = h.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := h.do(ctx, http.MethodHead, t.URL)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = h.do(ctx, http.MethodGet, t.URL)
	}
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	return CheckResult{
		Success:    statusOK(resp.StatusCode, t.ExpectedStatus),
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
		Message:    resp.Status,
	}
}

func (h *HTTPChecker) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}
	return h.Client.Do(req)
}

func statusOK(code, expected int) bool {
	if expected > 0 {
		return code == expected
	}
	return code >= 200 && code < 300
}
