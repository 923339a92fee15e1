package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// ReplayPointer releases a synchronous pointer grab and hands the frozen
// click on to the window under the pointer.
func (c *Connection) ReplayPointer(t xproto.Timestamp) Result {
	return Classify(xproto.AllowEventsChecked(c.XUtil.Conn(), xproto.AllowReplayPointer, t).Check())
}

// GrabKeyboard routes every key event to the manager until UngrabKeyboard.
func (c *Connection) GrabKeyboard() Result {
	if err := keybind.GrabKeyboard(c.XUtil, c.root); err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	return OK
}

// UngrabKeyboard releases a grab taken by GrabKeyboard.
func (c *Connection) UngrabKeyboard() {
	keybind.UngrabKeyboard(c.XUtil)
}
