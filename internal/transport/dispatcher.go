package transport

import (
	"github.com/citygreen/mastersbot/core/telegram/router"
	tghelpers "github.com/citygreen/mastersbot/core/telegram/helpers"
	"github.com/citygreen/mastersbot/internal/dialogue"

	tele "gopkg.in/telebot.v4"
)

// Dispatcher feeds routed telebot updates to the dialogue engine.
type Dispatcher struct {
	engine *dialogue.Engine
	// transportFor builds the outbound side for one update.
	transportFor func(c tele.Context) dialogue.Transport
}

var _ router.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(engine *dialogue.Engine) *Dispatcher {
	return &Dispatcher{
		engine: engine,
		transportFor: func(c tele.Context) dialogue.Transport {
			return New(c.Bot())
		},
	}
}

func (d *Dispatcher) Dispatch(c tele.Context) (router.Summary, error) {
	ev, ok := EventFrom(c)
	if !ok {
		return router.Summary{Outcome: string(dialogue.OutcomeIgnored)}, nil
	}
	res, err := d.engine.Handle(tghelpers.BuildContext(c), d.transportFor(c), ev)
	sum := router.Summary{
		Outcome:  string(res.Outcome),
		Messages: res.Messages,
		Keyboard: res.Keyboard,
	}
	if res.Route != "" {
		sum.Handler = "dialogue." + res.Route
	}
	return sum, err
}
