package telegram

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	coreconfig "github.com/citygreen/mastersbot/core/config"
)

func middlewareNames(mws []Middleware) []string {
	names := make([]string, len(mws))
	for i, m := range mws {
		names[i] = m.Name
	}
	return names
}

func TestDefaultMiddlewaresOrder(t *testing.T) {
	base := DefaultMiddlewares(&coreconfig.Config{}, nil)
	if diff := cmp.Diff([]string{"recover", "logger", "metrics"}, middlewareNames(base)); diff != "" {
		t.Fatalf("chain without rate limit (-want +got):\n%s", diff)
	}

	cfg := &coreconfig.Config{RateLimit: coreconfig.RateLimitConfig{IntervalMS: 500, ExcludeUpdates: []string{"callback"}}}
	limited := DefaultMiddlewares(cfg, nil)
	if diff := cmp.Diff([]string{"recover", "logger", "metrics", "rate_limit"}, middlewareNames(limited)); diff != "" {
		t.Fatalf("chain with rate limit (-want +got):\n%s", diff)
	}
}
