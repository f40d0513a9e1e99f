package bootstrap

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/citygreen/mastersbot/core/config"
	coredatabase "github.com/citygreen/mastersbot/core/database"
)

func TestRunRequiresConfig(t *testing.T) {
	if _, err := Run(Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	var steps []string
	noLogger := func(*coreconfig.Config) error { steps = append(steps, "logger"); return nil }

	_, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			steps = append(steps, "connect")
			return nil, errors.New("refused")
		},
		Migrate: func(coredatabase.Config) error {
			steps = append(steps, "migrate")
			return nil
		},
	})
	if err == nil || !strings.Contains(err.Error(), "database initialization failed") {
		t.Fatalf("err = %v", err)
	}
	if strings.Join(steps, ",") != "logger,connect" {
		t.Fatalf("steps = %v", steps)
	}
}

func TestRunLoggerFailure(t *testing.T) {
	_, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return errors.New("no sink") },
	})
	if err == nil || !strings.Contains(err.Error(), "logger init failed") {
		t.Fatalf("err = %v", err)
	}
}
