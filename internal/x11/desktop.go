package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// The world is advertised as a single desktop the size of the screen.
// Every managed client lives on it.
var desktopAtoms = []string{
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_DESKTOP_GEOMETRY",
	"_NET_DESKTOP_VIEWPORT",
	"_NET_WM_DESKTOP",
}

func (c *Connection) advertiseDesktop() error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, 1); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	if err := ewmh.CurrentDesktopSet(c.XUtil, 0); err != nil {
		return fmt.Errorf("failed to set current desktop: %w", err)
	}
	if err := ewmh.DesktopGeometrySet(c.XUtil, &ewmh.DesktopGeometry{Width: c.width, Height: c.height}); err != nil {
		return fmt.Errorf("failed to set desktop geometry: %w", err)
	}
	if err := ewmh.DesktopViewportSet(c.XUtil, []ewmh.DesktopViewport{{X: 0, Y: 0}}); err != nil {
		return fmt.Errorf("failed to set desktop viewport: %w", err)
	}
	return nil
}

// placeOnDesktop puts win on the only desktop.
func (c *Connection) placeOnDesktop(win xproto.Window) Result {
	return Classify(ewmh.WmDesktopSet(c.XUtil, win, 0))
}
