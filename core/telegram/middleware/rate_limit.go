package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/citygreen/mastersbot/core/logger"
	tghelpers "github.com/citygreen/mastersbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Rate-limit exclusion groups as spelled in configuration.
const (
	ExcludeCallback = "callback"
	ExcludeMessage  = "message"
)

// RateLimitOptions configures RateLimitMiddleware. Exclude holds exclusion
// groups: "callback" for button presses, "message" for every message kind.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	now       func() time.Time
}

func exclusionGroup(c tele.Context) string {
	switch UpdateKind(c) {
	case KindCallback:
		return ExcludeCallback
	case KindOther:
		return ""
	}
	return ExcludeMessage
}

// RateLimitMiddleware drops updates from a user arriving sooner than Interval
// after that user's previous accepted update.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		mu       sync.Mutex
		lastSeen = make(map[int64]time.Time)
	)
	now := opts.now
	if now == nil {
		now = time.Now
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if _, skip := opts.Exclude[exclusionGroup(c)]; skip {
				return next(c)
			}

			t := now()
			mu.Lock()
			last, seen := lastSeen[user.ID]
			limited := seen && t.Sub(last) < opts.Interval
			if !limited {
				lastSeen[user.ID] = t
			}
			mu.Unlock()

			if !limited {
				return next(c)
			}
			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelWarn, "tg.rate_limit",
				slog.String("status", "rate_limited"),
				slog.Bool("rate_limited", true),
			)
			if opts.OnLimited != nil {
				return opts.OnLimited(c)
			}
			return nil
		}
	}
}
