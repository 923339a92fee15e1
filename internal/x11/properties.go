package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/registry"
)

// SizeHints reads min/max sizes from WM_NORMAL_HINTS. Missing bounds use
// the registry defaults; inverted bounds are repaired.
func (c *Connection) SizeHints(win xproto.Window) (registry.Constraints, Result) {
	cons := registry.DefaultConstraints()
	hints, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		if _, res := c.Attributes(win); res.Gone() {
			return cons, res
		}
		return cons, Unsupported("no WM_NORMAL_HINTS on 0x%x: %v", uint32(win), err)
	}
	if hints.Flags&icccm.SizeHintPMinSize != 0 {
		cons.MinWidth = int(hints.MinWidth)
		cons.MinHeight = int(hints.MinHeight)
	}
	if hints.Flags&icccm.SizeHintPMaxSize != 0 {
		cons.MaxWidth = int(hints.MaxWidth)
		cons.MaxHeight = int(hints.MaxHeight)
	}
	return cons.Sanitize(), OK
}

// Title prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) Title(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name
	}
	name, _ := icccm.WmNameGet(c.XUtil, win)
	return name
}

// Class returns the class part of WM_CLASS.
func (c *Connection) Class(win xproto.Window) string {
	class, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil || class == nil {
		return ""
	}
	return class.Class
}

// TransientFor returns the WM_TRANSIENT_FOR target, if any.
func (c *Connection) TransientFor(win xproto.Window) (xproto.Window, bool) {
	parent, err := icccm.WmTransientForGet(c.XUtil, win)
	if err != nil || parent == 0 {
		return 0, false
	}
	return parent, true
}

// Protocols returns the WM_PROTOCOLS the client supports.
func (c *Connection) Protocols(win xproto.Window) []string {
	protocols, _ := icccm.WmProtocolsGet(c.XUtil, win)
	return protocols
}

// Fullscreen reports whether _NET_WM_STATE contains the fullscreen atom.
func (c *Connection) Fullscreen(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == StateFullscreen {
			return true
		}
	}
	return false
}

// SetFullscreen adds or removes the fullscreen atom, keeping every other
// state the client has set.
func (c *Connection) SetFullscreen(win xproto.Window, on bool) Result {
	states, _ := ewmh.WmStateGet(c.XUtil, win)
	next := make([]string, 0, len(states)+1)
	for _, s := range states {
		if s != StateFullscreen {
			next = append(next, s)
		}
	}
	if on {
		next = append(next, StateFullscreen)
	}
	return Classify(ewmh.WmStateSet(c.XUtil, win, next))
}

// SetNormalState sets WM_STATE to NormalState.
func (c *Connection) SetNormalState(win xproto.Window) Result {
	return Classify(icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: icccm.StateNormal}))
}

// SetWithdrawnState sets WM_STATE to WithdrawnState.
func (c *Connection) SetWithdrawnState(win xproto.Window) Result {
	return Classify(icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: icccm.StateWithdrawn}))
}

// SendConfigureNotify tells a client its absolute geometry.
func (c *Connection) SendConfigureNotify(win xproto.Window, r geom.Rect) Result {
	ev := xproto.ConfigureNotifyEvent{
		Event:        win,
		Window:       win,
		AboveSibling: xproto.WindowNone,
		X:            int16(r.X),
		Y:            int16(r.Y),
		Width:        uint16(max(r.Width, 1)),
		Height:       uint16(max(r.Height, 1)),
	}
	return Classify(xproto.SendEventChecked(c.XUtil.Conn(), false, win,
		xproto.EventMaskStructureNotify, string(ev.Bytes())).Check())
}

// SendProtocol delivers a WM_PROTOCOLS client message. Clients that do not
// list protocol in WM_PROTOCOLS yield StatusUnsupported and nothing is sent.
func (c *Connection) SendProtocol(win xproto.Window, protocol string, t xproto.Timestamp) Result {
	if !hasProtocol(c.Protocols(win), protocol) {
		return Unsupported("0x%x does not support %s", uint32(win), protocol)
	}
	protocolsAtom, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return Classify(err)
	}
	atom, err := xprop.Atm(c.XUtil, protocol)
	if err != nil {
		return Classify(err)
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(atom), uint32(t), 0, 0, 0}),
	}
	return Classify(xproto.SendEventChecked(c.XUtil.Conn(), false, win,
		xproto.EventMaskNoEvent, string(ev.Bytes())).Check())
}

func hasProtocol(protocols []string, name string) bool {
	for _, p := range protocols {
		if p == name {
			return true
		}
	}
	return false
}

// Focus gives win the input focus.
func (c *Connection) Focus(win xproto.Window, t xproto.Timestamp) Result {
	return Classify(xproto.SetInputFocusChecked(c.XUtil.Conn(),
		xproto.InputFocusPointerRoot, win, t).Check())
}

// FocusRoot returns focus to the root window and clears the active window.
func (c *Connection) FocusRoot() Result {
	res := Classify(xproto.SetInputFocusChecked(c.XUtil.Conn(),
		xproto.InputFocusPointerRoot, xproto.Window(xproto.InputFocusPointerRoot),
		xproto.TimeCurrentTime).Check())
	return First(res, c.SetActiveWindow(xproto.WindowNone))
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW.
func (c *Connection) SetActiveWindow(win xproto.Window) Result {
	return Classify(ewmh.ActiveWindowSet(c.XUtil, win))
}

// SetClientList publishes _NET_CLIENT_LIST.
func (c *Connection) SetClientList(clients []xproto.Window) Result {
	if clients == nil {
		clients = []xproto.Window{}
	}
	return Classify(ewmh.ClientListSet(c.XUtil, clients))
}
