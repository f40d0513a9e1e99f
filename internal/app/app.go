// Package app assembles the masters bot: store, dialogue engine, bot routes
// and lifecycle hooks.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/citygreen/mastersbot/core/bootstrap"
	corecmd "github.com/citygreen/mastersbot/core/cmd"
	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/metrics"
	tg "github.com/citygreen/mastersbot/core/telegram"
	"github.com/citygreen/mastersbot/core/telegram/commands"
	"github.com/citygreen/mastersbot/core/telegram/router"
	"github.com/citygreen/mastersbot/internal/config"
	"github.com/citygreen/mastersbot/internal/dialogue"
	"github.com/citygreen/mastersbot/internal/presentation"
	"github.com/citygreen/mastersbot/internal/storage/postgres"
	"github.com/citygreen/mastersbot/internal/transport"

	tele "gopkg.in/telebot.v4"
)

// botCommands are published to the Telegram command menu.
var botCommands = []struct {
	name string
	cmd  commands.Command
}{
	{"/start", commands.Command{Description: "Start the bot"}},
	{"/menu", commands.Command{Description: "Show the main menu"}},
	{"/help", commands.Command{Description: "How to use the bot"}},
}

// App holds the wired application.
type App struct {
	cfg    *config.Config
	db     *sqlx.DB
	engine *dialogue.Engine

	metricsSrv *metrics.Server
}

// Bootstrap is the core/cmd hook: it initializes logging and the database,
// then builds the App.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	a, err := New(cfg, res.DB, postgres.New(res.DB))
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}
	return a, nil
}

// New builds the App over store. db may be nil; it is then neither pinged by
// /healthz nor closed on stop.
func New(cfg *config.Config, db *sqlx.DB, store dialogue.Store) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	engine, err := dialogue.New(dialogue.Options{
		Store:           store,
		Admins:          cfg.Bot.AdminIDs,
		Categories:      cfg.Bot.Categories,
		ManagerUsername: cfg.Bot.ManagerUsername,
		ImportMaxBytes:  cfg.Bot.ImportMaxBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &App{cfg: cfg, db: db, engine: engine}, nil
}

// Registry lists the commands and callback keys the bot serves.
func (a *App) Registry() (*tg.Registry, error) {
	reg := tg.NewRegistry()
	for _, c := range botCommands {
		if err := reg.RegisterCommand(c.name, c.cmd); err != nil {
			return nil, err
		}
	}
	for _, key := range presentation.CallbackKeys() {
		if err := reg.RegisterCallback(key); err != nil {
			return nil, err
		}
	}
	reg.SetCallbackNotFound(answerEmpty)
	return reg, nil
}

// Routes binds commands, messages and callbacks to the dialogue engine.
func (a *App) Routes(reg *tg.Registry) []tg.Route {
	d := transport.NewDispatcher(a.engine)
	routes := router.CommandRoutes(reg, d)
	routes = append(routes, router.MessageRoutes(d)...)
	return append(routes, router.CallbackRoute(reg, d, router.CallbackOptions{}))
}

func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg, err := a.Registry()
	if err != nil {
		return tg.RunOptions{}, fmt.Errorf("app: registry: %w", err)
	}
	core := a.cfg.CoreConfig()
	return tg.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(core, answerEmpty),
		Routes:      a.Routes(reg),
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

// answerEmpty stops the button spinner of callbacks nobody serves.
func answerEmpty(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	return c.Respond()
}

// onStart runs before polling begins. The runner skips OnStop when it fails, so
// a failed start closes the database itself.
func (a *App) onStart(ctx context.Context, _ tg.Runtime) (err error) {
	defer func() {
		if err != nil && a.db != nil {
			if cerr := a.db.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("db close: %w", cerr))
			}
			a.db = nil
		}
	}()
	listen := a.cfg.CoreConfig().Metrics.Listen
	if listen == "" {
		return nil
	}
	var health metrics.Pinger
	if a.db != nil {
		health = a.db
		if err := metrics.RegisterDBStats(a.db.DB, a.cfg.Database.Name); err != nil {
			logger.LogEvent(ctx, logger.Metrics, slog.LevelWarn, "db_stats.register",
				slog.String("err", err.Error()),
			)
		}
	}
	srv, err := metrics.Start(listen, health)
	if err != nil {
		return fmt.Errorf("app: metrics listener: %w", err)
	}
	a.metricsSrv = srv
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	var errs []error
	if err := a.metricsSrv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	return errors.Join(errs...)
}
