package x11

import (
	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/registry"
	"github.com/BurntSushi/xgb/xproto"
)

// ICCCM and EWMH names the manager reads or writes.
const (
	ProtoDeleteWindow = "WM_DELETE_WINDOW"
	ProtoTakeFocus    = "WM_TAKE_FOCUS"

	AtomWMName         = "WM_NAME"
	AtomNetWMName      = "_NET_WM_NAME"
	AtomWMNormalHints  = "WM_NORMAL_HINTS"
	AtomNetWMState     = "_NET_WM_STATE"
	StateFullscreen    = "_NET_WM_STATE_FULLSCREEN"
	AtomNetActiveWin   = "_NET_ACTIVE_WINDOW"
	AtomNetCloseWindow = "_NET_CLOSE_WINDOW"
)

// Supported is the _NET_SUPPORTED list advertised on the root window.
var Supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_CLIENT_LIST",
	AtomNetActiveWin,
	AtomNetCloseWindow,
	AtomNetWMName,
	AtomNetWMState,
	StateFullscreen,
}

// Attributes is the subset of window attributes the manager inspects.
type Attributes struct {
	OverrideRedirect bool
	Viewable         bool
}

// Frame is the set of windows created to decorate one client.
type Frame struct {
	Window   xproto.Window
	Close    xproto.Window
	Maximize xproto.Window
}

// Buttons converts the frame's buttons into registry form.
func (f Frame) Buttons() registry.Buttons {
	return registry.Buttons{Close: f.Close, Maximize: f.Maximize}
}

// Display is everything the manager asks of the display server. Each
// operation reports its own Result so call sites can tell a vanished
// window from a client that lacks a protocol.
type Display interface {
	Root() xproto.Window
	ScreenSize() (width, height int)
	// TopLevel lists the root's children, bottom to top.
	TopLevel() ([]xproto.Window, Result)

	Attributes(win xproto.Window) (Attributes, Result)
	Geometry(win xproto.Window) (geom.Rect, Result)
	// SizeHints reports StatusUnsupported when WM_NORMAL_HINTS is absent.
	SizeHints(win xproto.Window) (registry.Constraints, Result)
	Title(win xproto.Window) string
	Class(win xproto.Window) string
	TransientFor(win xproto.Window) (xproto.Window, bool)
	Protocols(win xproto.Window) []string
	Fullscreen(win xproto.Window) bool
	SetFullscreen(win xproto.Window, on bool) Result

	CreateFrame(r geom.Rect, theme registry.Theme) (Frame, Result)
	Reparent(win, parent xproto.Window, x, y int) Result
	// WatchClient selects structure and property events on a managed
	// client and grabs the primary button for click-to-focus.
	WatchClient(win xproto.Window) Result
	MoveResize(win xproto.Window, r geom.Rect) Result
	Raise(win xproto.Window) Result
	StackAbove(win, sibling xproto.Window) Result
	Map(win xproto.Window) Result
	Unmap(win xproto.Window) Result
	Destroy(win xproto.Window) Result
	Kill(win xproto.Window) Result
	GrantConfigure(req ConfigureRequest) Result

	SetNormalState(win xproto.Window) Result
	SetWithdrawnState(win xproto.Window) Result
	SendConfigureNotify(win xproto.Window, r geom.Rect) Result
	SendProtocol(win xproto.Window, protocol string, t xproto.Timestamp) Result

	Focus(win xproto.Window, t xproto.Timestamp) Result
	FocusRoot() Result
	SetActiveWindow(win xproto.Window) Result
	SetClientList(clients []xproto.Window) Result

	Clear(win xproto.Window, r geom.Rect) Result
	DrawText(win xproto.Window, x, y int, text string) Result
	ReplayPointer(t xproto.Timestamp) Result
	GrabKeyboard() Result
	UngrabKeyboard()

	Flush()
}

var _ Display = (*Connection)(nil)
