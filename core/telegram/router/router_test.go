package router

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	tg "github.com/citygreen/mastersbot/core/telegram"
	"github.com/citygreen/mastersbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("offline bot: %v", err)
	}
	return b
}

func TestCommandRoutesBindEveryCommand(t *testing.T) {
	reg := tg.NewRegistry()
	_ = reg.RegisterCommand("/start", commands.Command{Description: "Start"})
	_ = reg.RegisterCommand("/help", commands.Command{Description: "Help", Hidden: true})

	var seen []string
	d := DispatcherFunc(func(c tele.Context) (Summary, error) {
		seen = append(seen, c.Text())
		return Summary{Handler: "menu.start", Outcome: "handled", Messages: 1, Keyboard: true}, nil
	})
	routes := CommandRoutes(reg, d)

	var endpoints []string
	for _, r := range routes {
		endpoints = append(endpoints, r.Endpoint.(string))
	}
	if diff := cmp.Diff([]string{"/help", "/start"}, endpoints); diff != "" {
		t.Fatalf("endpoints (-want +got):\n%s", diff)
	}

	b := offlineBot(t)
	upd := tele.Update{ID: 1, Message: &tele.Message{Chat: &tele.Chat{ID: 5}, Sender: &tele.User{ID: 5}, Text: "/start"}}
	if err := routes[1].Handler(b.NewContext(upd)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/start"}, seen); diff != "" {
		t.Fatalf("dispatched texts (-want +got):\n%s", diff)
	}
}

func TestMessageRoutesPropagateErrors(t *testing.T) {
	boom := errors.New("transport down")
	routes := MessageRoutes(DispatcherFunc(func(tele.Context) (Summary, error) { return Summary{}, boom }))
	if len(routes) != 3 {
		t.Fatalf("routes = %d", len(routes))
	}
	if routes[0].Endpoint != tele.OnText || routes[1].Endpoint != tele.OnPhoto || routes[2].Endpoint != tele.OnDocument {
		t.Fatalf("unexpected endpoints: %v %v %v", routes[0].Endpoint, routes[1].Endpoint, routes[2].Endpoint)
	}
	b := offlineBot(t)
	upd := tele.Update{ID: 2, Message: &tele.Message{Chat: &tele.Chat{ID: 5}, Sender: &tele.User{ID: 5}, Text: "hi"}}
	if err := routes[0].Handler(b.NewContext(upd)); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestCallbackRouteUnknownKeyUsesFallback(t *testing.T) {
	reg := tg.NewRegistry()
	_ = reg.RegisterCallback("pick_category")

	dispatched, fallback := 0, 0
	reg.SetCallbackNotFound(func(tele.Context) error { fallback++; return nil })
	route := CallbackRoute(reg, DispatcherFunc(func(tele.Context) (Summary, error) {
		dispatched++
		return Summary{Outcome: "handled"}, nil
	}), CallbackOptions{})

	b := offlineBot(t)
	user := &tele.User{ID: 9}
	known := tele.Update{ID: 3, Callback: &tele.Callback{ID: "a", Sender: user, Data: "\fpick_category|Plumber"}}
	unknown := tele.Update{ID: 4, Callback: &tele.Callback{ID: "b", Sender: user, Data: "\fstale_button|1"}}

	if err := route.Handler(b.NewContext(known)); err != nil {
		t.Fatal(err)
	}
	if err := route.Handler(b.NewContext(unknown)); err != nil {
		t.Fatal(err)
	}
	if dispatched != 1 || fallback != 1 {
		t.Fatalf("dispatched=%d fallback=%d", dispatched, fallback)
	}
}

type codedErr struct{}

func (codedErr) Error() string { return "x" }
func (codedErr) Code() string  { return "store unavailable" }

type plainErr struct{}

func (*plainErr) Error() string { return "y" }

func TestErrorCode(t *testing.T) {
	if got := errorCode(codedErr{}); got != "STORE_UNAVAILABLE" {
		t.Fatalf("coded = %q", got)
	}
	if got := errorCode(&plainErr{}); got != "PLAINERR" {
		t.Fatalf("typed = %q", got)
	}
	if got := normalizeHandlerName(" /Start Now "); got != "start_now" {
		t.Fatalf("normalizeHandlerName = %q", got)
	}
}
