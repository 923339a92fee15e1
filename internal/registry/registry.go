package registry

import (
	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/BurntSushi/xgb/xproto"
)

type buttonRef struct {
	action Action
	client xproto.Window
}

// Registry owns every window Record. Records are keyed by client window;
// frame and button lookups go through reverse indices that hold client ids
// only. The registry has a single writer: the event loop.
type Registry struct {
	clients map[xproto.Window]*Record
	frames  map[xproto.Window]xproto.Window
	buttons map[xproto.Window]buttonRef
	order   []xproto.Window
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		clients: make(map[xproto.Window]*Record),
		frames:  make(map[xproto.Window]xproto.Window),
		buttons: make(map[xproto.Window]buttonRef),
	}
}

// Register adds a record for client. If client is already registered the
// existing record is returned unchanged and created is false.
func (r *Registry) Register(client, frame xproto.Window, buttons Buttons, world geom.Rect) (rec *Record, created bool) {
	if existing, ok := r.clients[client]; ok {
		return existing, false
	}

	rec = &Record{
		Client:      client,
		Frame:       frame,
		Buttons:     buttons,
		World:       world,
		Constraints: DefaultConstraints(),
	}
	r.clients[client] = rec
	r.frames[frame] = client
	if buttons.Close != 0 {
		r.buttons[buttons.Close] = buttonRef{action: ActionClose, client: client}
	}
	if buttons.Maximize != 0 {
		r.buttons[buttons.Maximize] = buttonRef{action: ActionMaximize, client: client}
	}
	r.order = append(r.order, client)
	return rec, true
}

// Unregister removes client from every index. It returns the removed
// record, or nil if client was not registered.
func (r *Registry) Unregister(client xproto.Window) *Record {
	rec, ok := r.clients[client]
	if !ok {
		return nil
	}
	delete(r.clients, client)
	delete(r.frames, rec.Frame)
	delete(r.buttons, rec.Buttons.Close)
	delete(r.buttons, rec.Buttons.Maximize)
	for i, id := range r.order {
		if id == client {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return rec
}

// ByClient looks a record up by its client window.
func (r *Registry) ByClient(client xproto.Window) (*Record, bool) {
	rec, ok := r.clients[client]
	return rec, ok
}

// ByFrame looks a record up by its frame window.
func (r *Registry) ByFrame(frame xproto.Window) (*Record, bool) {
	client, ok := r.frames[frame]
	if !ok {
		return nil, false
	}
	return r.ByClient(client)
}

// ByButton resolves a decoration button to its action and owning record.
func (r *Registry) ByButton(button xproto.Window) (Action, *Record, bool) {
	ref, ok := r.buttons[button]
	if !ok {
		return ActionNone, nil, false
	}
	rec, ok := r.clients[ref.client]
	if !ok {
		return ActionNone, nil, false
	}
	return ref.action, rec, true
}

// Resolve finds the record owning win, whether win is a client, frame or
// decoration button.
func (r *Registry) Resolve(win xproto.Window) (*Record, bool) {
	if rec, ok := r.ByClient(win); ok {
		return rec, true
	}
	if rec, ok := r.ByFrame(win); ok {
		return rec, true
	}
	if _, rec, ok := r.ByButton(win); ok {
		return rec, true
	}
	return nil, false
}

// Len returns the number of managed windows.
func (r *Registry) Len() int {
	return len(r.clients)
}

// All returns every record in registration order.
func (r *Registry) All() []*Record {
	out := make([]*Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clients[id])
	}
	return out
}

// ForEachMapped calls fn for every mapped record in registration order.
func (r *Registry) ForEachMapped(fn func(*Record)) {
	for _, id := range r.order {
		if rec := r.clients[id]; rec.Mapped {
			fn(rec)
		}
	}
}

// Mapped returns the client ids of mapped records in registration order.
func (r *Registry) Mapped() []xproto.Window {
	var out []xproto.Window
	r.ForEachMapped(func(rec *Record) {
		out = append(out, rec.Client)
	})
	return out
}

// Fullscreen returns the first record currently in fullscreen, if any.
func (r *Registry) Fullscreen() (*Record, bool) {
	for _, id := range r.order {
		if rec := r.clients[id]; rec.Fullscreen && rec.Mapped {
			return rec, true
		}
	}
	return nil, false
}
