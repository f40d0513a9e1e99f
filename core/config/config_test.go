package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeDefaultsRunMode(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: "Polling"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing token",
			cfg:  Config{},
			want: "token is required",
		},
		{
			name: "webhook without url",
			cfg:  Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}},
			want: "webhook.url",
		},
		{
			name: "webhook without port",
			cfg: Config{
				Telegram: TelegramConfig{Token: "t", RunMode: "webhook"},
				Webhook:  WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0"},
			},
			want: "webhook.port",
		},
		{
			name: "unknown run mode",
			cfg:  Config{Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}},
			want: "invalid telegram.run_mode",
		},
		{
			name: "negative long poll timeout",
			cfg:  Config{Telegram: TelegramConfig{Token: "t", LongPollTimeoutSeconds: -1}},
			want: "longpoll_timeout_seconds",
		},
		{
			name: "unknown rate limit exclusion",
			cfg: Config{
				Telegram:  TelegramConfig{Token: "t"},
				RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}},
			},
			want: "rate_limit.exclude_updates",
		},
		{
			name: "metrics listen without port",
			cfg: Config{
				Telegram: TelegramConfig{Token: "t"},
				Metrics:  MetricsConfig{Listen: "localhost"},
			},
			want: "metrics.listen",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := Normalize(&cfg)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want substring %q", err, tc.want)
			}
		})
	}
}

func TestNormalizeLowercasesExclusions(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback ", "MESSAGE"}},
	}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := strings.Join(cfg.RateLimit.ExcludeUpdates, ","); got != "callback,message" {
		t.Fatalf("exclusions = %q", got)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "telegram:\n  token: from-file\n  run_mode: longpoll\nmetrics:\n  listen: \":9100\"\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, want env override", cfg.Telegram.Token)
	}
	if cfg.Metrics.Listen != ":9100" {
		t.Fatalf("metrics listen = %q", cfg.Metrics.Listen)
	}
}
