package telegram

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/telegram/netutil"
)

const (
	dialTimeout         = 5 * time.Second
	tlsHandshakeTimeout = 5 * time.Second
	idleConnTimeout     = 30 * time.Second
	keepAliveInterval   = 30 * time.Second
	// Long polling holds getUpdates open for the poll timeout, so the header
	// timeout only bounds ordinary calls and the client timeout covers the rest.
	responseHeaderTimeout = 75 * time.Second
	clientTimeout         = 90 * time.Second
	retryAttempts         = 3
	retryBackoff          = time.Second
)

// BuildHTTPClient returns the HTTP client used for Bot API calls. Transient
// dial and timeout failures are retried with linear backoff.
func BuildHTTPClient() *http.Client {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: keepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ResponseHeaderTimeout: responseHeaderTimeout,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   clientTimeout,
		Transport: &retryTransport{base: base, maxRetries: retryAttempts, backoff: retryBackoff},
	}
}

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	var lastErr error
	for attempt := 1; attempt <= t.maxRetries+1; attempt++ {
		cur := req
		if attempt > 1 {
			// A body that cannot be replayed ends the retry loop.
			if req.Body != nil && req.GetBody == nil {
				return nil, lastErr
			}
			cur = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				cur.Body = body
			}
		}

		resp, err := base.RoundTrip(cur)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) || attempt > t.maxRetries {
			break
		}

		delay := t.backoff * time.Duration(attempt)
		if logger.Transport != nil {
			logger.Transport.Debug("api call retry",
				slog.String("event", "http.retry"),
				slog.String("status", "retry"),
				slog.Int("attempts", attempt),
				slog.Duration("backoff", delay),
				slog.String("err", netutil.Redact(err)),
			)
		}
		timer := time.NewTimer(delay)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}
