package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/citygreen/mastersbot/core/config"
	coretelegram "github.com/citygreen/mastersbot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct{ stopped *bool }

func (a app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		OnStop: func(context.Context, coretelegram.Runtime) error {
			*a.stopped = true
			return nil
		},
	}, nil
}

func TestConfigPathResolution(t *testing.T) {
	t.Setenv("MASTERSBOT_CONFIG", "")
	o := Options{ConfigEnvVar: "MASTERSBOT_CONFIG", DefaultConfigPath: "configs/config.yaml"}
	if p, _ := o.ConfigPath(); p != "configs/config.yaml" {
		t.Fatalf("default path = %q", p)
	}
	t.Setenv("MASTERSBOT_CONFIG", "/etc/mastersbot.yaml")
	if p, _ := o.ConfigPath(); p != "/etc/mastersbot.yaml" {
		t.Fatalf("env path = %q", p)
	}
	if _, err := (Options{ConfigEnvVar: "MASTERSBOT_UNSET_VAR"}).ConfigPath(); err == nil {
		t.Fatal("expected error without any path")
	}
}

func TestRunWiresLifecycleHooks(t *testing.T) {
	stopped := false
	loggerClosed := false
	err := Run(Options{
		DefaultConfigPath: "ignored.yaml",
		ConfigEnvVar:      "MASTERSBOT_UNSET_VAR",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(ConfigCarrier) (TelegramApp, error) {
			return app{stopped: &stopped}, nil
		},
		ShutdownLogger: func() error { loggerClosed = true; return nil },
		Signals: func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		},
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !stopped || !loggerClosed {
		t.Fatalf("stopped=%v loggerClosed=%v", stopped, loggerClosed)
	}
}

func TestRunPropagatesLoadFailure(t *testing.T) {
	boom := errors.New("bad yaml")
	err := Run(Options{
		DefaultConfigPath: "x.yaml",
		ConfigEnvVar:      "MASTERSBOT_UNSET_VAR",
		LoadConfig:        func(string) (ConfigCarrier, error) { return nil, boom },
		Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
