package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/registry"
)

const (
	frameEvents = xproto.EventMaskStructureNotify |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion |
		xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskExposure
	clientEvents = xproto.EventMaskStructureNotify |
		xproto.EventMaskPropertyChange
)

// Root returns the root window.
func (c *Connection) Root() xproto.Window { return c.root }

// ScreenSize returns the root window size in pixels.
func (c *Connection) ScreenSize() (int, int) { return c.width, c.height }

// TopLevel lists the root's children in stacking order.
func (c *Connection) TopLevel() ([]xproto.Window, Result) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.root).Reply()
	if err != nil {
		return nil, Classify(err)
	}
	return tree.Children, OK
}

// Attributes reads override-redirect and map state.
func (c *Connection) Attributes(win xproto.Window) (Attributes, Result) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return Attributes{}, Classify(err)
	}
	return Attributes{
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
	}, OK
}

// Geometry returns the window's geometry relative to its parent.
func (c *Connection) Geometry(win xproto.Window) (geom.Rect, Result) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Rect{}, Classify(err)
	}
	return geom.Rect{X: int(g.X), Y: int(g.Y), Width: int(g.Width), Height: int(g.Height)}, OK
}

// CreateFrame creates a frame at r with its close and maximize buttons.
// Buttons are created unmapped; the layout pass places and maps them.
func (c *Connection) CreateFrame(r geom.Rect, theme registry.Theme) (Frame, Result) {
	frame, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return Frame{}, Classify(err)
	}
	err = frame.CreateChecked(c.root, r.X, r.Y, r.Width, r.Height,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask,
		c.pixel(theme.Bar), c.XUtil.Screen().BlackPixel, frameEvents)
	if err != nil {
		return Frame{}, Classify(err)
	}

	out := Frame{Window: frame.Id}
	for _, btn := range []struct {
		dst   *xproto.Window
		color registry.Color
	}{
		{&out.Close, theme.Close},
		{&out.Maximize, theme.Maximize},
	} {
		w, err := xwindow.Generate(c.XUtil)
		if err != nil {
			frame.Destroy()
			return Frame{}, Classify(err)
		}
		err = w.CreateChecked(frame.Id, 0, 0, 1, 1,
			xproto.CwBackPixel|xproto.CwEventMask,
			c.pixel(btn.color), xproto.EventMaskButtonPress)
		if err != nil {
			frame.Destroy()
			return Frame{}, Classify(err)
		}
		*btn.dst = w.Id
	}
	return out, OK
}

// pixel allocates col in the default colormap, falling back to a
// truecolor encoding if allocation fails.
func (c *Connection) pixel(col registry.Color) uint32 {
	if p, ok := c.pixels[col]; ok {
		return p
	}
	p := uint32(col.R>>8)<<16 | uint32(col.G>>8)<<8 | uint32(col.B>>8)
	reply, err := xproto.AllocColor(c.XUtil.Conn(), c.XUtil.Screen().DefaultColormap, col.R, col.G, col.B).Reply()
	if err == nil {
		p = reply.Pixel
	}
	c.pixels[col] = p
	return p
}

// Reparent moves win under parent at (x, y) and adds it to the save set so
// it survives the manager exiting.
func (c *Connection) Reparent(win, parent xproto.Window, x, y int) Result {
	conn := c.XUtil.Conn()
	if err := xproto.ChangeSaveSetChecked(conn, xproto.SetModeInsert, win).Check(); err != nil {
		return Classify(err)
	}
	return Classify(xproto.ReparentWindowChecked(conn, win, parent, int16(x), int16(y)).Check())
}

// WatchClient selects client events and installs the synchronous
// click-to-focus grab.
func (c *Connection) WatchClient(win xproto.Window) Result {
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwEventMask, []uint32{clientEvents}).Check()
	if err != nil {
		return Classify(err)
	}
	if res := c.placeOnDesktop(win); res.Gone() {
		return res
	}
	return Classify(mousebind.GrabChecked(c.XUtil, win, 0, xproto.ButtonIndex1, true))
}

// MoveResize configures position and size in one request.
func (c *Connection) MoveResize(win xproto.Window, r geom.Rect) Result {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(int32(r.X)), uint32(int32(r.Y)),
		uint32(max(r.Width, 1)), uint32(max(r.Height, 1)),
	}
	return Classify(xproto.ConfigureWindowChecked(c.XUtil.Conn(), win, mask, values).Check())
}

// Raise stacks win above its siblings.
func (c *Connection) Raise(win xproto.Window) Result {
	return Classify(xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check())
}

// StackAbove stacks win directly above sibling.
func (c *Connection) StackAbove(win, sibling xproto.Window) Result {
	return Classify(xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
		[]uint32{uint32(sibling), xproto.StackModeAbove}).Check())
}

// Map maps win.
func (c *Connection) Map(win xproto.Window) Result {
	return Classify(xproto.MapWindowChecked(c.XUtil.Conn(), win).Check())
}

// Unmap unmaps win.
func (c *Connection) Unmap(win xproto.Window) Result {
	return Classify(xproto.UnmapWindowChecked(c.XUtil.Conn(), win).Check())
}

// Destroy destroys win and its subwindows.
func (c *Connection) Destroy(win xproto.Window) Result {
	return Classify(xproto.DestroyWindowChecked(c.XUtil.Conn(), win).Check())
}

// Kill terminates the client connection owning win.
func (c *Connection) Kill(win xproto.Window) Result {
	return Classify(xproto.KillClientChecked(c.XUtil.Conn(), uint32(win)).Check())
}

// GrantConfigure forwards a configure request unchanged.
func (c *Connection) GrantConfigure(req ConfigureRequest) Result {
	var values []uint32
	if req.Has(xproto.ConfigWindowX) {
		values = append(values, uint32(int32(req.X)))
	}
	if req.Has(xproto.ConfigWindowY) {
		values = append(values, uint32(int32(req.Y)))
	}
	if req.Has(xproto.ConfigWindowWidth) {
		values = append(values, uint32(req.Width))
	}
	if req.Has(xproto.ConfigWindowHeight) {
		values = append(values, uint32(req.Height))
	}
	if req.Has(xproto.ConfigWindowBorderWidth) {
		values = append(values, uint32(req.BorderWidth))
	}
	if req.Has(xproto.ConfigWindowSibling) {
		values = append(values, uint32(req.Sibling))
	}
	if req.Has(xproto.ConfigWindowStackMode) {
		values = append(values, uint32(req.StackMode))
	}
	return Classify(xproto.ConfigureWindowChecked(c.XUtil.Conn(), req.Window, req.Mask, values).Check())
}

// Clear paints r of win with its background.
func (c *Connection) Clear(win xproto.Window, r geom.Rect) Result {
	return Classify(xproto.ClearAreaChecked(c.XUtil.Conn(), false, win,
		int16(r.X), int16(r.Y), uint16(max(r.Width, 0)), uint16(max(r.Height, 0))).Check())
}

// DrawText draws text with its baseline at (x, y). Text longer than 255
// bytes is truncated.
func (c *Connection) DrawText(win xproto.Window, x, y int, text string) Result {
	if c.gc == 0 || text == "" {
		return OK
	}
	if len(text) > 255 {
		text = text[:255]
	}
	return Classify(xproto.ImageText8Checked(c.XUtil.Conn(), byte(len(text)),
		xproto.Drawable(win), c.gc, int16(x), int16(y), text).Check())
}

// Flush sends any buffered requests.
func (c *Connection) Flush() {
	c.XUtil.Sync()
}
