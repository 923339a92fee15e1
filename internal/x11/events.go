package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Event is the closed set of server events the manager reacts to. Every
// implementation lives in this file.
type Event interface {
	event()
}

// MapRequest asks the manager to map a top-level window.
type MapRequest struct {
	Window xproto.Window
	Parent xproto.Window
}

// ConfigureRequest asks the manager to change a window's geometry.
type ConfigureRequest struct {
	Window      xproto.Window
	Mask        uint16
	X, Y        int
	Width       int
	Height      int
	BorderWidth int
	Sibling     xproto.Window
	StackMode   byte
}

// Has reports whether field (an xproto.ConfigWindow* bit) was requested.
func (e ConfigureRequest) Has(field uint16) bool { return e.Mask&field != 0 }

// UnmapNotify reports that Window was unmapped.
type UnmapNotify struct {
	Event  xproto.Window
	Window xproto.Window
}

// DestroyNotify reports that Window was destroyed.
type DestroyNotify struct {
	Event  xproto.Window
	Window xproto.Window
}

// PropertyNotify reports a property change on Window.
type PropertyNotify struct {
	Window  xproto.Window
	Atom    string
	Deleted bool
}

// ClientMessage carries a client request such as _NET_WM_STATE. Atoms
// holds the names of Data[1] and Data[2] for 32-bit messages.
type ClientMessage struct {
	Window xproto.Window
	Type   string
	Data   [5]uint32
	Atoms  [2]string
}

// ButtonPress and ButtonRelease share one payload.
type ButtonPress struct {
	Window xproto.Window
	Root   xproto.Window
	Child  xproto.Window
	Button xproto.Button
	State  uint16
	RootX  int
	RootY  int
	EventX int
	EventY int
	Time   xproto.Timestamp
}

type ButtonRelease ButtonPress

// MotionNotify reports pointer motion during a grab.
type MotionNotify struct {
	Window xproto.Window
	State  uint16
	RootX  int
	RootY  int
	Time   xproto.Timestamp
}

// KeyPress reports a grabbed key. Sym is the keysym name for the key at
// the given state; Mod is the modifier bit the key itself drives, if any.
type KeyPress struct {
	Code  xproto.Keycode
	State uint16
	Sym   string
	Mod   uint16
	Time  xproto.Timestamp
}

type KeyRelease KeyPress

// Expose asks for part of Window to be redrawn.
type Expose struct {
	Window xproto.Window
	Count  int
}

func (MapRequest) event()       {}
func (ConfigureRequest) event() {}
func (UnmapNotify) event()      {}
func (DestroyNotify) event()    {}
func (PropertyNotify) event()   {}
func (ClientMessage) event()    {}
func (ButtonPress) event()      {}
func (ButtonRelease) event()    {}
func (MotionNotify) event()     {}
func (KeyPress) event()         {}
func (KeyRelease) event()       {}
func (Expose) event()           {}

// Translate converts a raw xgb event. It reports false for event kinds
// the manager ignores.
func (c *Connection) Translate(raw xgb.Event) (Event, bool) {
	switch e := raw.(type) {
	case xproto.MapRequestEvent:
		return MapRequest{Window: e.Window, Parent: e.Parent}, true
	case xproto.ConfigureRequestEvent:
		return ConfigureRequest{
			Window:      e.Window,
			Mask:        e.ValueMask,
			X:           int(e.X),
			Y:           int(e.Y),
			Width:       int(e.Width),
			Height:      int(e.Height),
			BorderWidth: int(e.BorderWidth),
			Sibling:     e.Sibling,
			StackMode:   e.StackMode,
		}, true
	case xproto.UnmapNotifyEvent:
		return UnmapNotify{Event: e.Event, Window: e.Window}, true
	case xproto.DestroyNotifyEvent:
		return DestroyNotify{Event: e.Event, Window: e.Window}, true
	case xproto.PropertyNotifyEvent:
		name, err := xprop.AtomName(c.XUtil, e.Atom)
		if err != nil {
			return nil, false
		}
		return PropertyNotify{Window: e.Window, Atom: name, Deleted: e.State == xproto.PropertyDelete}, true
	case xproto.ClientMessageEvent:
		return c.clientMessage(e)
	case xproto.ButtonPressEvent:
		return ButtonPress{
			Window: e.Event, Root: e.Root, Child: e.Child, Button: e.Detail, State: e.State,
			RootX: int(e.RootX), RootY: int(e.RootY), EventX: int(e.EventX), EventY: int(e.EventY),
			Time: e.Time,
		}, true
	case xproto.ButtonReleaseEvent:
		return ButtonRelease{
			Window: e.Event, Root: e.Root, Child: e.Child, Button: e.Detail, State: e.State,
			RootX: int(e.RootX), RootY: int(e.RootY), EventX: int(e.EventX), EventY: int(e.EventY),
			Time: e.Time,
		}, true
	case xproto.MotionNotifyEvent:
		return MotionNotify{Window: e.Event, State: e.State, RootX: int(e.RootX), RootY: int(e.RootY), Time: e.Time}, true
	case xproto.KeyPressEvent:
		return KeyPress{
			Code:  e.Detail,
			State: e.State,
			Sym:   keybind.LookupString(c.XUtil, e.State, e.Detail),
			Mod:   keybind.ModGet(c.XUtil, e.Detail),
			Time:  e.Time,
		}, true
	case xproto.KeyReleaseEvent:
		return KeyRelease{
			Code:  e.Detail,
			State: e.State,
			Sym:   keybind.LookupString(c.XUtil, e.State, e.Detail),
			Mod:   keybind.ModGet(c.XUtil, e.Detail),
			Time:  e.Time,
		}, true
	case xproto.ExposeEvent:
		return Expose{Window: e.Window, Count: int(e.Count)}, true
	case xproto.MappingNotifyEvent:
		keyMap, modMap := keybind.MapsGet(c.XUtil)
		keybind.KeyMapSet(c.XUtil, keyMap)
		keybind.ModMapSet(c.XUtil, modMap)
		return nil, false
	default:
		return nil, false
	}
}

func (c *Connection) clientMessage(e xproto.ClientMessageEvent) (Event, bool) {
	name, err := xprop.AtomName(c.XUtil, e.Type)
	if err != nil {
		return nil, false
	}
	msg := ClientMessage{Window: e.Window, Type: name}
	if e.Format != 32 {
		return msg, true
	}
	copy(msg.Data[:], e.Data.Data32)
	for i := range msg.Atoms {
		if a := xproto.Atom(msg.Data[i+1]); a != xproto.AtomNone {
			msg.Atoms[i], _ = xprop.AtomName(c.XUtil, a)
		}
	}
	return msg, true
}
