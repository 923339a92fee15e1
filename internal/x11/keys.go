package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ParseKey resolves a binding such as "Mod4-Control-F1" against the
// current keymap.
func (c *Connection) ParseKey(seq string) (uint16, []xproto.Keycode, error) {
	mods, codes, err := keybind.ParseString(c.XUtil, seq)
	if err != nil {
		return 0, nil, err
	}
	if len(codes) == 0 {
		return 0, nil, fmt.Errorf("no keycode for %q", seq)
	}
	return mods, codes, nil
}

// ParseButton resolves a binding such as "Mod4-4".
func (c *Connection) ParseButton(seq string) (uint16, xproto.Button, error) {
	return mousebind.ParseString(c.XUtil, seq)
}

// GrabKey grabs mods+code on the root window under every ignored
// modifier combination.
func (c *Connection) GrabKey(mods uint16, code xproto.Keycode) error {
	return keybind.GrabChecked(c.XUtil, c.root, mods, code)
}

// UngrabKey releases a grab taken by GrabKey.
func (c *Connection) UngrabKey(mods uint16, code xproto.Keycode) {
	keybind.Ungrab(c.XUtil, c.root, mods, code)
}

// GrabButton grabs mods+button on the root window asynchronously, so
// presses, releases and motion land on the root while it is held.
func (c *Connection) GrabButton(mods uint16, button xproto.Button) error {
	return mousebind.GrabChecked(c.XUtil, c.root, mods, button, false)
}

// ModMask returns the modifier bit driven by keysym, or 0 if no key with
// that symbol is a modifier.
func (c *Connection) ModMask(keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(c.XUtil, keysym) {
		if mask := keybind.ModGet(c.XUtil, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

// SetIgnoreMods replaces the modifier combinations every grab is repeated
// under.
func (c *Connection) SetIgnoreMods(masks []uint16) {
	xevent.IgnoreMods = masks
}
