// Package bootstrap prepares process-wide infrastructure before the bot starts.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/citygreen/mastersbot/core/config"
	coredatabase "github.com/citygreen/mastersbot/core/database"
	"github.com/citygreen/mastersbot/core/logger"
)

// Options selects the pipeline steps. Nil funcs fall back to the core defaults,
// which lets tests swap out the database.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result exposes infrastructure initialized by Run.
type Result struct {
	DB *sqlx.DB
}

// Run initializes logging, connects to Postgres and applies migrations, in that order.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config provided")
	}
	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}

	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	start := time.Now()
	db, err := connect(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}
	if err := migrate(opts.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}
	if logger.DB != nil {
		logger.DB.Info("database ready",
			slog.String("event", "bootstrap"),
			slog.String("db", opts.Database.Redacted()),
			slog.Duration("duration", logger.Took(start)),
		)
	}
	return &Result{DB: db}, nil
}
