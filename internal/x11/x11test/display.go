// Package x11test provides an in-memory x11.Display that records every
// request made against it.
package x11test

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/registry"
	"github.com/1broseidon/dragonwm/internal/x11"
)

// Window is the fake server's view of one window.
type Window struct {
	ID               xproto.Window
	Parent           xproto.Window
	Rect             geom.Rect
	Mapped           bool
	OverrideRedirect bool

	Title      string
	Class      string
	Hints      *registry.Constraints
	Transient  xproto.Window
	Protocols  []string
	Fullscreen bool
	WMState    string
	Text       string
}

// Call is one recorded request.
type Call struct {
	Op     string
	Window xproto.Window
	Arg    any
}

// Display is a fake x11.Display. Windows that were destroyed, or removed
// with Vanish, answer every request with StatusVanished.
type Display struct {
	Width  int
	Height int

	Windows    map[xproto.Window]*Window
	Calls      []Call
	Focused    xproto.Window
	Active     xproto.Window
	ClientList []xproto.Window
	Keyboard   bool
	Stack      []xproto.Window

	next xproto.Window
}

const root xproto.Window = 1

// New returns an empty fake screen of the given size.
func New(width, height int) *Display {
	return &Display{
		Width:   width,
		Height:  height,
		Windows: make(map[xproto.Window]*Window),
		next:    0x100,
	}
}

// AddClient creates an unmanaged top-level client window.
func (d *Display) AddClient(title, class string, r geom.Rect) *Window {
	d.next++
	w := &Window{ID: d.next, Parent: root, Rect: r, Title: title, Class: class}
	d.Windows[w.ID] = w
	d.Stack = append(d.Stack, w.ID)
	return w
}

// Vanish removes win without any notification, as if its client died
// between a query and a request.
func (d *Display) Vanish(win xproto.Window) {
	delete(d.Windows, win)
}

// Reset forgets the recorded calls.
func (d *Display) Reset() {
	d.Calls = nil
}

// Count returns how many times op was issued against win. A zero win
// matches every window.
func (d *Display) Count(op string, win xproto.Window) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == op && (win == 0 || c.Window == win) {
			n++
		}
	}
	return n
}

// Last returns the most recent call of op against win.
func (d *Display) Last(op string, win xproto.Window) (Call, bool) {
	for i := len(d.Calls) - 1; i >= 0; i-- {
		if c := d.Calls[i]; c.Op == op && (win == 0 || c.Window == win) {
			return c, true
		}
	}
	return Call{}, false
}

func (d *Display) record(op string, win xproto.Window, arg any) {
	d.Calls = append(d.Calls, Call{Op: op, Window: win, Arg: arg})
}

func (d *Display) lookup(win xproto.Window) (*Window, x11.Result) {
	if win == root {
		return &Window{ID: root, Mapped: true, Rect: geom.Rect{Width: d.Width, Height: d.Height}}, x11.OK
	}
	w, ok := d.Windows[win]
	if !ok {
		return nil, x11.Vanished(win)
	}
	return w, x11.OK
}

func (d *Display) Root() xproto.Window { return root }

func (d *Display) ScreenSize() (int, int) { return d.Width, d.Height }

func (d *Display) TopLevel() ([]xproto.Window, x11.Result) {
	var out []xproto.Window
	for _, id := range d.Stack {
		if w, ok := d.Windows[id]; ok && w.Parent == root {
			out = append(out, id)
		}
	}
	return out, x11.OK
}

func (d *Display) Attributes(win xproto.Window) (x11.Attributes, x11.Result) {
	w, res := d.lookup(win)
	if !res.Ok() {
		return x11.Attributes{}, res
	}
	return x11.Attributes{OverrideRedirect: w.OverrideRedirect, Viewable: w.Mapped}, x11.OK
}

func (d *Display) Geometry(win xproto.Window) (geom.Rect, x11.Result) {
	w, res := d.lookup(win)
	if !res.Ok() {
		return geom.Rect{}, res
	}
	return w.Rect, x11.OK
}

func (d *Display) SizeHints(win xproto.Window) (registry.Constraints, x11.Result) {
	w, res := d.lookup(win)
	if !res.Ok() {
		return registry.DefaultConstraints(), res
	}
	if w.Hints == nil {
		return registry.DefaultConstraints(), x11.Unsupported("no hints")
	}
	return w.Hints.Sanitize(), x11.OK
}

func (d *Display) Title(win xproto.Window) string {
	if w, res := d.lookup(win); res.Ok() {
		return w.Title
	}
	return ""
}

func (d *Display) Class(win xproto.Window) string {
	if w, res := d.lookup(win); res.Ok() {
		return w.Class
	}
	return ""
}

func (d *Display) TransientFor(win xproto.Window) (xproto.Window, bool) {
	if w, res := d.lookup(win); res.Ok() && w.Transient != 0 {
		return w.Transient, true
	}
	return 0, false
}

func (d *Display) Protocols(win xproto.Window) []string {
	if w, res := d.lookup(win); res.Ok() {
		return w.Protocols
	}
	return nil
}

func (d *Display) Fullscreen(win xproto.Window) bool {
	w, res := d.lookup(win)
	return res.Ok() && w.Fullscreen
}

func (d *Display) SetFullscreen(win xproto.Window, on bool) x11.Result {
	d.record("SetFullscreen", win, on)
	w, res := d.lookup(win)
	if !res.Ok() {
		return res
	}
	w.Fullscreen = on
	return x11.OK
}

func (d *Display) CreateFrame(r geom.Rect, theme registry.Theme) (x11.Frame, x11.Result) {
	var f x11.Frame
	for i, dst := range []*xproto.Window{&f.Window, &f.Close, &f.Maximize} {
		d.next++
		parent := root
		if i > 0 {
			parent = f.Window
		}
		d.Windows[d.next] = &Window{ID: d.next, Parent: parent, Rect: r}
		*dst = d.next
	}
	d.Stack = append(d.Stack, f.Window)
	d.record("CreateFrame", f.Window, theme)
	return f, x11.OK
}

func (d *Display) Reparent(win, parent xproto.Window, x, y int) x11.Result {
	d.record("Reparent", win, parent)
	w, res := d.lookup(win)
	if !res.Ok() {
		return res
	}
	w.Parent = parent
	w.Rect.X, w.Rect.Y = x, y
	return x11.OK
}

func (d *Display) WatchClient(win xproto.Window) x11.Result {
	d.record("WatchClient", win, nil)
	_, res := d.lookup(win)
	return res
}

func (d *Display) MoveResize(win xproto.Window, r geom.Rect) x11.Result {
	d.record("MoveResize", win, r)
	w, res := d.lookup(win)
	if !res.Ok() {
		return res
	}
	w.Rect = r
	return x11.OK
}

func (d *Display) Raise(win xproto.Window) x11.Result {
	d.record("Raise", win, nil)
	if _, res := d.lookup(win); !res.Ok() {
		return res
	}
	d.Stack = append(slices.DeleteFunc(d.Stack, func(id xproto.Window) bool { return id == win }), win)
	return x11.OK
}

func (d *Display) StackAbove(win, sibling xproto.Window) x11.Result {
	d.record("StackAbove", win, sibling)
	if _, res := d.lookup(win); !res.Ok() {
		return res
	}
	d.Stack = slices.DeleteFunc(d.Stack, func(id xproto.Window) bool { return id == win })
	i := slices.Index(d.Stack, sibling)
	d.Stack = slices.Insert(d.Stack, i+1, win)
	return x11.OK
}

func (d *Display) Map(win xproto.Window) x11.Result {
	d.record("Map", win, nil)
	w, res := d.lookup(win)
	if !res.Ok() {
		return res
	}
	w.Mapped = true
	return x11.OK
}

func (d *Display) Unmap(win xproto.Window) x11.Result {
	d.record("Unmap", win, nil)
	w, res := d.lookup(win)
	if !res.Ok() {
		return res
	}
	w.Mapped = false
	return x11.OK
}

func (d *Display) Destroy(win xproto.Window) x11.Result {
	d.record("Destroy", win, nil)
	if _, res := d.lookup(win); !res.Ok() {
		return res
	}
	for id, w := range d.Windows {
		if w.Parent == win {
			delete(d.Windows, id)
		}
	}
	delete(d.Windows, win)
	return x11.OK
}

func (d *Display) Kill(win xproto.Window) x11.Result {
	d.record("Kill", win, nil)
	_, res := d.lookup(win)
	return res
}

func (d *Display) GrantConfigure(req x11.ConfigureRequest) x11.Result {
	d.record("GrantConfigure", req.Window, req)
	w, res := d.lookup(req.Window)
	if !res.Ok() {
		return res
	}
	if req.Has(xproto.ConfigWindowX) {
		w.Rect.X = req.X
	}
	if req.Has(xproto.ConfigWindowY) {
		w.Rect.Y = req.Y
	}
	if req.Has(xproto.ConfigWindowWidth) {
		w.Rect.Width = req.Width
	}
	if req.Has(xproto.ConfigWindowHeight) {
		w.Rect.Height = req.Height
	}
	return x11.OK
}

func (d *Display) SetNormalState(win xproto.Window) x11.Result {
	d.record("SetNormalState", win, nil)
	w, res := d.lookup(win)
	if res.Ok() {
		w.WMState = "normal"
	}
	return res
}

func (d *Display) SetWithdrawnState(win xproto.Window) x11.Result {
	d.record("SetWithdrawnState", win, nil)
	w, res := d.lookup(win)
	if res.Ok() {
		w.WMState = "withdrawn"
	}
	return res
}

func (d *Display) SendConfigureNotify(win xproto.Window, r geom.Rect) x11.Result {
	d.record("SendConfigureNotify", win, r)
	_, res := d.lookup(win)
	return res
}

func (d *Display) SendProtocol(win xproto.Window, protocol string, t xproto.Timestamp) x11.Result {
	w, res := d.lookup(win)
	if !res.Ok() {
		return res
	}
	if !slices.Contains(w.Protocols, protocol) {
		return x11.Unsupported("%s not supported", protocol)
	}
	d.record("SendProtocol", win, protocol)
	return x11.OK
}

func (d *Display) Focus(win xproto.Window, t xproto.Timestamp) x11.Result {
	d.record("Focus", win, nil)
	if _, res := d.lookup(win); !res.Ok() {
		return res
	}
	d.Focused = win
	return x11.OK
}

func (d *Display) FocusRoot() x11.Result {
	d.record("FocusRoot", root, nil)
	d.Focused = root
	d.Active = 0
	return x11.OK
}

func (d *Display) SetActiveWindow(win xproto.Window) x11.Result {
	d.record("SetActiveWindow", win, nil)
	d.Active = win
	return x11.OK
}

func (d *Display) SetClientList(clients []xproto.Window) x11.Result {
	d.record("SetClientList", root, clients)
	d.ClientList = slices.Clone(clients)
	return x11.OK
}

func (d *Display) Clear(win xproto.Window, r geom.Rect) x11.Result {
	d.record("Clear", win, r)
	w, res := d.lookup(win)
	if res.Ok() {
		w.Text = ""
	}
	return res
}

func (d *Display) DrawText(win xproto.Window, x, y int, text string) x11.Result {
	d.record("DrawText", win, text)
	w, res := d.lookup(win)
	if res.Ok() {
		w.Text = text
	}
	return res
}

func (d *Display) ReplayPointer(t xproto.Timestamp) x11.Result {
	d.record("ReplayPointer", 0, t)
	return x11.OK
}

func (d *Display) GrabKeyboard() x11.Result {
	d.record("GrabKeyboard", root, nil)
	d.Keyboard = true
	return x11.OK
}

func (d *Display) UngrabKeyboard() {
	d.record("UngrabKeyboard", root, nil)
	d.Keyboard = false
}

func (d *Display) Flush() {}

var _ x11.Display = (*Display)(nil)
