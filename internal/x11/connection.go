package x11

import (
	"context"
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/dragonwm/internal/registry"
)

// ErrOtherManager is returned by BecomeManager when another window manager
// already owns the root window.
var ErrOtherManager = errors.New("another window manager is already running")

// rootEvents is the event mask the manager holds on the root window.
const rootEvents = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskButtonPress |
	xproto.EventMaskPropertyChange

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	root  xproto.Window

	width  int
	height int

	gc     xproto.Gcontext
	pixels map[registry.Color]uint32
	check  *xwindow.Window
}

// NewConnection connects to display, or to $DISPLAY when display is
// empty, and loads the keyboard mapping.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)

	screen := xu.Screen()
	return &Connection{
		XUtil:  xu,
		root:   xu.RootWin(),
		width:  int(screen.WidthInPixels),
		height: int(screen.HeightInPixels),
		pixels: make(map[registry.Color]uint32),
	}, nil
}

// BecomeManager claims SubstructureRedirect on the root window and
// publishes the EWMH supporting window. It fails with ErrOtherManager if
// the root is already redirected.
func (c *Connection) BecomeManager(name string) error {
	root := xwindow.New(c.XUtil, c.root)
	if err := root.Listen(rootEvents); err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrOtherManager
		}
		return fmt.Errorf("failed to select root events: %w", err)
	}

	check, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return fmt.Errorf("failed to allocate check window: %w", err)
	}
	if err := check.CreateChecked(c.root, -1, -1, 1, 1, xproto.CwOverrideRedirect, 1); err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}
	c.check = check

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.root, check.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return fmt.Errorf("failed to name check window: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, append(Supported, desktopAtoms...)); err != nil {
		return fmt.Errorf("failed to set supported hints: %w", err)
	}
	if err := c.advertiseDesktop(); err != nil {
		return err
	}

	gc, err := c.textContext()
	if err != nil {
		return err
	}
	c.gc = gc
	return nil
}

func (c *Connection) textContext() (xproto.Gcontext, error) {
	conn := c.XUtil.Conn()
	font, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate font id: %w", err)
	}
	const fontName = "fixed"
	if err := xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check(); err != nil {
		return 0, fmt.Errorf("failed to open font %q: %w", fontName, err)
	}
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate graphics context: %w", err)
	}
	screen := c.XUtil.Screen()
	err = xproto.CreateGCChecked(conn, gc, xproto.Drawable(c.root),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont,
		[]uint32{screen.WhitePixel, screen.BlackPixel, uint32(font)}).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create graphics context: %w", err)
	}
	return gc, nil
}

// Raw is one item read from the server: an event or an asynchronous error.
type Raw struct {
	Event xgb.Event
	Err   xgb.Error
}

// Events pumps server events onto a channel until ctx is done or the
// connection closes. Translation happens on the receiving goroutine.
func (c *Connection) Events(ctx context.Context) <-chan Raw {
	out := make(chan Raw)
	go func() {
		defer close(out)
		for {
			ev, err := c.XUtil.Conn().WaitForEvent()
			if ev == nil && err == nil {
				return
			}
			select {
			case out <- Raw{Event: ev, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// WithServerGrabbed runs fn while holding a server grab.
func (c *Connection) WithServerGrabbed(fn func()) {
	xproto.GrabServer(c.XUtil.Conn())
	defer xproto.UngrabServer(c.XUtil.Conn())
	fn()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	if c.check != nil {
		c.check.Destroy()
	}
	c.XUtil.Conn().Close()
}
