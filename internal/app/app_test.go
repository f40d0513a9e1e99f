package app

import (
	"context"
	"net"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"

	coreconfig "github.com/citygreen/mastersbot/core/config"
	tg "github.com/citygreen/mastersbot/core/telegram"
	"github.com/citygreen/mastersbot/internal/config"
	"github.com/citygreen/mastersbot/internal/presentation"
	"github.com/citygreen/mastersbot/internal/storage/postgres"

	tele "gopkg.in/telebot.v4"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Telegram = coreconfig.TelegramConfig{Token: "t", RunMode: coreconfig.RunModeLongpoll}
	cfg.RateLimit.IntervalMS = 500
	cfg.Bot.AdminIDs = []int64{100}
	cfg.Bot.Categories = []string{"Plumber"}
	return cfg
}

func newApp(t *testing.T) *App {
	t.Helper()
	// The store is never queried while wiring.
	a, err := New(testConfig(), nil, postgres.New(nil))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestRegistryServesEveryButton(t *testing.T) {
	reg, err := newApp(t).Registry()
	if err != nil {
		t.Fatal(err)
	}
	want := presentation.CallbackKeys()
	got := reg.ListCallbacks()
	sort.Strings(want)
	sort.Strings(got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("callbacks (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/help", "/menu", "/start"}, reg.CommandNames()); diff != "" {
		t.Fatalf("commands (-want +got):\n%s", diff)
	}
	if reg.CallbackNotFound() == nil {
		t.Fatal("stale buttons would never be answered")
	}
}

func TestTelegramRunOptions(t *testing.T) {
	a := newApp(t)
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatal(err)
	}
	var endpoints []string
	for _, r := range opts.Routes {
		if s, ok := r.Endpoint.(string); ok {
			endpoints = append(endpoints, s)
		}
	}
	want := []string{"/help", "/menu", "/start", tele.OnText, tele.OnPhoto, tele.OnDocument, tele.OnCallback}
	if diff := cmp.Diff(want, endpoints); diff != "" {
		t.Fatalf("endpoints (-want +got):\n%s", diff)
	}

	var names []string
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	if got := strings.Join(names, ","); got != "recover,logger,metrics,rate_limit" {
		t.Fatalf("middlewares = %s", got)
	}
	if opts.Config != a.cfg.CoreConfig() {
		t.Fatal("run options must carry the core section of the app config")
	}
}

func TestLifecycleWithoutMetricsOrDB(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	if err := a.onStart(ctx, tg.Runtime{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if a.metricsSrv != nil {
		t.Fatal("metrics listener started without an address")
	}
	if err := a.onStop(ctx, tg.Runtime{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestFailedStartClosesDB(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	// sqlx.Open does not dial, so no server is needed.
	db, err := sqlx.Open("postgres", "host=127.0.0.1 dbname=masters sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Metrics.Listen = busy.Addr().String()
	a, err := New(cfg, db, postgres.New(db))
	if err != nil {
		t.Fatal(err)
	}

	err = a.onStart(context.Background(), tg.Runtime{})
	if err == nil || !strings.Contains(err.Error(), "metrics listener") {
		t.Fatalf("start err = %v", err)
	}
	if a.db != nil {
		t.Fatal("app still holds the database after a failed start")
	}
	if err := db.Ping(); err == nil || !strings.Contains(err.Error(), "database is closed") {
		t.Fatalf("ping after failed start = %v, want closed", err)
	}
}

type otherCarrier struct{}

func (otherCarrier) CoreConfig() *coreconfig.Config { return &coreconfig.Config{} }

func TestBootstrapRejectsForeignConfig(t *testing.T) {
	if _, err := Bootstrap(otherCarrier{}); err == nil || !strings.Contains(err.Error(), "unexpected config type") {
		t.Fatalf("err = %v", err)
	}
}

func TestAnswerEmptyIgnoresMessages(t *testing.T) {
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatal(err)
	}
	upd := tele.Update{Message: &tele.Message{Chat: &tele.Chat{ID: 1}, Sender: &tele.User{ID: 1}, Text: "hi"}}
	if err := answerEmpty(b.NewContext(upd)); err != nil {
		t.Fatal(err)
	}
}
