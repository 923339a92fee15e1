package wm

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/go-errors/errors"

	"github.com/1broseidon/dragonwm/internal/ipc"
	"github.com/1broseidon/dragonwm/internal/x11"
)

// Source delivers raw server events and translates them. *x11.Connection
// implements it.
type Source interface {
	Events(ctx context.Context) <-chan x11.Raw
	Translate(raw xgb.Event) (x11.Event, bool)
}

// Run processes server events and control requests one at a time until
// ctx is cancelled or the server connection closes. calls may be nil.
func (m *Manager) Run(ctx context.Context, src Source, calls <-chan *ipc.Call) error {
	events := src.Events(ctx)
	m.log.Info().Msg("event loop started")
	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("event loop stopped")
			return nil
		case raw, ok := <-events:
			if !ok {
				return fmt.Errorf("display connection closed")
			}
			if raw.Err != nil {
				// Async errors are mostly requests against windows that
				// died in flight; the next DestroyNotify cleans up.
				m.log.Debug().Str("error", raw.Err.Error()).Msg("x error")
				continue
			}
			if ev, ok := src.Translate(raw.Event); ok {
				m.Handle(ev)
			}
		case call := <-calls:
			call.Reply(m.Execute(call.Request))
		}
	}
}

// Handle processes one event. A panic in a handler is logged with its
// stack and swallowed; the registry stays authoritative and the next
// layout pass repairs the screen.
func (m *Manager) Handle(ev x11.Event) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Wrap(r, 2)
			m.log.Error().
				Str("event", fmt.Sprintf("%T", ev)).
				Str("stack", err.ErrorStack()).
				Msg("event handler fault")
		}
	}()
	m.dispatch(ev)
}

func (m *Manager) dispatch(ev x11.Event) {
	switch e := ev.(type) {
	case x11.MapRequest:
		m.mapRequest(e)
	case x11.ConfigureRequest:
		m.configureRequest(e)
	case x11.UnmapNotify:
		m.unmapNotify(e)
	case x11.DestroyNotify:
		m.destroyNotify(e)
	case x11.PropertyNotify:
		m.propertyNotify(e)
	case x11.ClientMessage:
		m.clientMessage(e)
	case x11.ButtonPress:
		m.buttonPress(e)
	case x11.ButtonRelease:
		m.buttonRelease(e)
	case x11.MotionNotify:
		m.motion(e)
	case x11.KeyPress:
		m.keyPress(e)
	case x11.KeyRelease:
		m.keyRelease(e)
	case x11.Expose:
		if e.Count == 0 {
			m.relayout()
		}
	default:
		m.log.Debug().Str("event", fmt.Sprintf("%T", ev)).Msg("unhandled event")
	}
}
