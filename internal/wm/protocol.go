package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/layout"
	"github.com/1broseidon/dragonwm/internal/registry"
	"github.com/1broseidon/dragonwm/internal/x11"
)

// minPlacement is the size below which a requested width or height is
// treated as unconfigured and replaced by the configured default.
const minPlacement = 50

// _NET_WM_STATE client message actions.
const (
	stateRemove = 0
	stateAdd    = 1
	stateToggle = 2
)

func (m *Manager) mapRequest(e x11.MapRequest) {
	if rec, ok := m.reg.ByClient(e.Window); ok {
		m.remap(rec)
		return
	}
	rec, ok := m.manage(e.Window)
	if !ok {
		return
	}
	m.relayout()
	m.focus(rec, xproto.TimeCurrentTime)
	m.notifyGeometry(rec)
}

// manage frames win and registers it. It reports false when win is not
// ours to manage or vanished while being set up.
func (m *Manager) manage(win xproto.Window) (*registry.Record, bool) {
	attrs, res := m.display.Attributes(win)
	if !res.Ok() {
		m.log.Debug().Err(res).Uint32("window", uint32(win)).Msg("map request for unreadable window")
		return nil, false
	}
	if attrs.OverrideRedirect {
		m.display.Map(win)
		return nil, false
	}

	rect, res := m.display.Geometry(win)
	if !res.Ok() {
		m.log.Debug().Err(res).Uint32("window", uint32(win)).Msg("failed to read geometry")
		return nil, false
	}
	cons, res := m.display.SizeHints(win)
	if res.Gone() {
		return nil, false
	}
	cons = cons.Sanitize()

	title := m.display.Title(win)
	if title == "" {
		title = "Untitled"
	}
	class := m.display.Class(win)
	if class == "" {
		class = "unknown"
	}

	w, h := m.initialSize(rect, cons)
	world := geom.Rect{
		X:      m.cam.X - w/2,
		Y:      m.cam.Y - h/2,
		Width:  w,
		Height: h + m.cfg.Decoration.TitleHeight,
	}

	var parent *registry.Record
	if owner, ok := m.display.TransientFor(win); ok {
		if p, ok := m.reg.ByClient(owner); ok {
			parent = p
			world.X = p.World.X + m.cfg.Window.DialogOffset
			world.Y = p.World.Y + m.cfg.Window.DialogOffset
		}
	}

	theme := registry.ThemeFor(class)
	frame, res := m.display.CreateFrame(layout.Project(m.cam, world, m.layout.Screen()), theme)
	if !res.Ok() {
		m.log.Error().Err(res).Uint32("window", uint32(win)).Msg("failed to create frame")
		return nil, false
	}
	titlePx := m.layout.TitleHeight(m.cam.Zoom, false)
	if res := m.display.Reparent(win, frame.Window, 0, titlePx); !res.Ok() {
		m.log.Debug().Err(res).Uint32("window", uint32(win)).Msg("client vanished before reparent")
		m.display.Destroy(frame.Window)
		return nil, false
	}

	rec, _ := m.reg.Register(win, frame.Window, frame.Buttons(), world)
	rec.Title = title
	rec.Class = class
	rec.Theme = theme
	rec.Constraints = cons
	rec.Mapped = true
	// Reparenting keeps an already viewable client mapped.
	rec.ContentVisible = attrs.Viewable
	if parent != nil {
		rec.Dialog = true
		rec.Parent = parent.Client
	}

	m.altTab.Add(win)
	m.display.WatchClient(win)
	m.display.SetNormalState(win)
	m.display.Map(frame.Window)
	if parent != nil {
		m.display.StackAbove(frame.Window, parent.Frame)
	}
	m.updateClientList()

	m.log.Info().
		Uint32("client", uint32(win)).
		Str("class", class).
		Int("width", w).
		Int("height", h).
		Bool("dialog", rec.Dialog).
		Msg("managing window")

	if m.display.Fullscreen(win) {
		m.toggleFullscreen(rec)
		if _, ok := m.reg.ByClient(win); !ok {
			return nil, false
		}
	}
	return rec, true
}

// initialSize clamps the client's own size to its hints, falling back to
// the default size on any axis that is too small to be deliberate.
func (m *Manager) initialSize(r geom.Rect, cons registry.Constraints) (int, int) {
	w := geom.Clamp(r.Width, cons.MinWidth, cons.MaxWidth)
	h := geom.Clamp(r.Height, cons.MinHeight, cons.MaxHeight)
	if w < minPlacement && cons.MinWidth < minPlacement {
		w = m.cfg.Window.DefaultWidth
	}
	if h < minPlacement && cons.MinHeight < minPlacement {
		h = m.cfg.Window.DefaultHeight
	}
	return w, h
}

func (m *Manager) remap(rec *registry.Record) {
	if rec.Mapped {
		return
	}
	rec.Mapped = true
	rec.ContentVisible = false
	m.display.SetNormalState(rec.Client)
	if res := m.display.Map(rec.Frame); res.Gone() {
		m.destroyNotify(x11.DestroyNotify{Event: rec.Client, Window: rec.Client})
		return
	}
	m.updateClientList()
	m.relayout()
	m.focus(rec, xproto.TimeCurrentTime)
}

func (m *Manager) configureRequest(e x11.ConfigureRequest) {
	rec, ok := m.reg.ByClient(e.Window)
	if !ok {
		if res := m.display.GrantConfigure(e); !res.Ok() {
			m.log.Debug().Err(res).Uint32("window", uint32(e.Window)).Msg("configure pass-through failed")
		}
		return
	}
	if rec.Fullscreen {
		m.notifyGeometry(rec)
		return
	}

	if e.Has(xproto.ConfigWindowX) || e.Has(xproto.ConfigWindowY) {
		p := layout.Unproject(m.cam, geom.Point{X: e.X, Y: e.Y}, m.layout.Screen())
		if e.Has(xproto.ConfigWindowX) {
			rec.World.X = p.X
		}
		if e.Has(xproto.ConfigWindowY) {
			rec.World.Y = p.Y
		}
	}
	if e.Has(xproto.ConfigWindowWidth) {
		rec.World.Width = geom.Clamp(e.Width, rec.MinWidth, rec.MaxWidth)
	}
	if e.Has(xproto.ConfigWindowHeight) {
		rec.World.Height = geom.Clamp(e.Height, rec.MinHeight, rec.MaxHeight) + m.cfg.Decoration.TitleHeight
	}

	m.relayout()
	if _, ok := m.reg.ByClient(e.Window); ok {
		m.notifyGeometry(rec)
	}
}

func (m *Manager) unmapNotify(e x11.UnmapNotify) {
	rec, ok := m.reg.ByClient(e.Window)
	if !ok {
		return
	}
	if e.Event == e.Window && rec.IgnoreUnmaps > 0 {
		rec.IgnoreUnmaps--
		return
	}
	if !rec.Mapped {
		return
	}

	rec.Mapped = false
	rec.ContentVisible = false
	m.display.Unmap(rec.Frame)
	m.display.SetWithdrawnState(rec.Client)
	if m.drag.Target == rec.Client {
		m.drag.End()
	}
	if m.focused == rec.Client {
		m.unfocus()
	}
	m.updateClientList()
	m.relayout()
}

// destroyNotify is the only path that removes a record.
func (m *Manager) destroyNotify(e x11.DestroyNotify) {
	rec := m.reg.Unregister(e.Window)
	if rec == nil {
		return
	}
	if res := m.display.Destroy(rec.Frame); !res.Ok() && !res.Gone() {
		m.log.Warn().Err(res).Uint32("frame", uint32(rec.Frame)).Msg("failed to destroy frame")
	}
	m.altTab.Remove(rec.Client)
	if !m.altTab.Active() {
		m.releaseCycleGrab()
	}
	if m.drag.Target == rec.Client {
		m.drag.End()
	}
	if m.focused == rec.Client {
		m.unfocus()
	}
	m.log.Info().Uint32("client", uint32(rec.Client)).Str("class", rec.Class).Msg("window destroyed")

	m.updateClientList()
	m.relayout()
}

func (m *Manager) propertyNotify(e x11.PropertyNotify) {
	rec, ok := m.reg.ByClient(e.Window)
	if !ok {
		return
	}
	switch e.Atom {
	case x11.AtomWMName, x11.AtomNetWMName:
		if title := m.display.Title(rec.Client); title != "" {
			rec.Title = title
		}
		m.relayout()
	case x11.AtomWMNormalHints:
		cons, res := m.display.SizeHints(rec.Client)
		if res.Gone() {
			return
		}
		rec.Constraints = cons.Sanitize()
		m.relayout()
	case x11.AtomNetWMState:
		if m.display.Fullscreen(rec.Client) != rec.Fullscreen {
			m.toggleFullscreen(rec)
		}
	}
}

func (m *Manager) clientMessage(e x11.ClientMessage) {
	rec, ok := m.reg.ByClient(e.Window)
	if !ok {
		return
	}
	switch e.Type {
	case x11.AtomNetWMState:
		if e.Atoms[0] != x11.StateFullscreen && e.Atoms[1] != x11.StateFullscreen {
			return
		}
		want := rec.Fullscreen
		switch e.Data[0] {
		case stateRemove:
			want = false
		case stateAdd:
			want = true
		case stateToggle:
			want = !rec.Fullscreen
		}
		if want != rec.Fullscreen {
			m.toggleFullscreen(rec)
		}
	case x11.AtomNetActiveWin:
		m.focus(rec, xproto.Timestamp(e.Data[1]))
	case x11.AtomNetCloseWindow:
		m.close(rec, xproto.Timestamp(e.Data[0]))
	}
}

// close asks the client to go away. The record stays until the server
// reports the window destroyed.
func (m *Manager) close(rec *registry.Record, t xproto.Timestamp) {
	res := m.display.SendProtocol(rec.Client, x11.ProtoDeleteWindow, t)
	switch {
	case res.Ok():
		m.log.Debug().Uint32("client", uint32(rec.Client)).Msg("sent delete window")
	case res.Status == x11.StatusUnsupported:
		if res := m.display.Kill(rec.Client); !res.Ok() && !res.Gone() {
			m.log.Warn().Err(res).Uint32("client", uint32(rec.Client)).Msg("failed to kill client")
		}
	case res.Gone():
	default:
		m.log.Warn().Err(res).Uint32("client", uint32(rec.Client)).Msg("failed to send delete window")
	}
}

// toggleFullscreen switches rec between its own geometry and one that
// covers the screen at the current zoom.
func (m *Manager) toggleFullscreen(rec *registry.Record) {
	if rec.Fullscreen {
		rec.ExitFullscreen()
	} else {
		rec.EnterFullscreen(layout.FullscreenRect(m.cam, m.layout.Screen()))
	}
	if res := m.display.SetFullscreen(rec.Client, rec.Fullscreen); res.Gone() {
		m.destroyNotify(x11.DestroyNotify{Event: rec.Client, Window: rec.Client})
		return
	}
	if rec.Fullscreen {
		m.raise(rec)
	}
	m.relayout()
	if _, ok := m.reg.ByClient(rec.Client); ok {
		m.notifyGeometry(rec)
	}
}

// Adopt manages every viewable top-level window that existed before the
// manager started.
func (m *Manager) Adopt() {
	wins, res := m.display.TopLevel()
	if !res.Ok() {
		m.log.Warn().Err(res).Msg("failed to list existing windows")
		return
	}
	adopted := 0
	for _, win := range wins {
		attrs, res := m.display.Attributes(win)
		if !res.Ok() || attrs.OverrideRedirect || !attrs.Viewable {
			continue
		}
		if _, ok := m.manage(win); ok {
			adopted++
		}
	}
	if adopted == 0 {
		return
	}
	m.relayout()
	for _, rec := range m.reg.All() {
		m.notifyGeometry(rec)
	}
	if mapped := m.reg.Mapped(); len(mapped) > 0 {
		if rec, ok := m.reg.ByClient(mapped[len(mapped)-1]); ok {
			m.focus(rec, xproto.TimeCurrentTime)
		}
	}
	m.log.Info().Int("windows", adopted).Msg("adopted existing windows")
}
