package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/citygreen/mastersbot/core/config"
	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/telegram/netutil"
	tghelpers "github.com/citygreen/mastersbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Middleware is a named global middleware registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route binds a handler to a telebot endpoint: a command, a tele.On* constant
// or a "\f"-prefixed callback unique.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	Middlewares []Middleware
	Routes      []Route

	// DisableWebhookCleanup keeps a previously set webhook when long polling.
	DisableWebhookCleanup bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes the running bot to lifecycle hooks.
type Runtime struct {
	Bot      *tele.Bot
	Registry *Registry
}

// RunTelegram builds the bot, wires middlewares and routes, publishes the
// command menu and serves updates until ctx is cancelled.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return errors.New("telegram: nil config provided")
	}
	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	poller := BuildPoller(PollerOptionsFrom(cfg))
	buildStart := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:   cfg.Telegram.Token,
		Poller:  poller,
		Client:  BuildHTTPClient(),
		OnError: logUpdateError,
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %s", netutil.Redact(err))
	}
	buildTook := logger.RoundMS(time.Since(buildStart))
	rt := Runtime{Bot: bot, Registry: reg}

	switch p := poller.(type) {
	case *tele.Webhook:
		logger.TG.LogAttrs(ctx, slog.LevelInfo, "webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", buildTook),
		)
	case *tele.LongPoller:
		logger.TG.LogAttrs(ctx, slog.LevelInfo, "polling mode",
			slog.String("event", "mode"),
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Duration("poll_timeout", p.Timeout),
			slog.Duration("duration", buildTook),
		)
		if !opts.DisableWebhookCleanup {
			// A leftover webhook makes getUpdates fail with 409.
			if err := bot.RemoveWebhook(false); err != nil {
				logger.TG.Warn("webhook removal failed",
					slog.String("event", "delete_webhook"),
					slog.String("err", netutil.Redact(err)),
				)
			}
		}
	}

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint != nil && route.Handler != nil {
			bot.Handle(route.Endpoint, route.Handler)
		}
	}
	if logger.TWire != nil {
		logger.TWire.Info("bot wired",
			slog.String("event", "wire.complete"),
			slog.Int("middlewares", len(opts.Middlewares)),
			slog.Int("routes", len(opts.Routes)),
			slog.Int("callbacks", len(reg.ListCallbacks())),
		)
	}

	// A failed menu publish is logged and otherwise harmless.
	_ = InitBotCommands(bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	if opts.OnStop != nil {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := opts.OnStop(stopCtx, rt); err != nil {
			return err
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// logUpdateError receives errors returned by handlers and poller failures.
func logUpdateError(err error, c tele.Context) {
	if err == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("status", "fail"),
		slog.String("err", netutil.Redact(err)),
		slog.String("err_code", netutil.Kind(err)),
	}
	if c == nil {
		logger.LogEvent(context.Background(), logger.TG, slog.LevelError, "tg.poll_error", attrs...)
		return
	}
	logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelWarn, "tg.update_error", attrs...)
}
