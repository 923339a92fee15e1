package input

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"
)

// AltTab keeps windows in most-recently-focused-first order and walks
// that order while the cycle modifier is held.
type AltTab struct {
	order []xproto.Window

	active     bool
	candidates []xproto.Window
	index      int
}

// NewAltTab creates an empty switcher.
func NewAltTab() *AltTab {
	return &AltTab{}
}

// Active reports whether a cycle is in progress.
func (a *AltTab) Active() bool { return a.active }

// Order returns a copy of the focus order, most recent first.
func (a *AltTab) Order() []xproto.Window {
	return slices.Clone(a.order)
}

// Add appends win to the back of the order if it is not already listed.
// It works during a cycle too; the cycle's candidates stay as they were.
func (a *AltTab) Add(win xproto.Window) {
	if !slices.Contains(a.order, win) {
		a.order = append(a.order, win)
	}
}

// Touch moves win to the front of the order. While a cycle is in progress
// the order is frozen and Touch does nothing.
func (a *AltTab) Touch(win xproto.Window) {
	if a.active {
		return
	}
	a.promote(win)
}

func (a *AltTab) promote(win xproto.Window) {
	a.order = slices.DeleteFunc(a.order, func(w xproto.Window) bool { return w == win })
	a.order = slices.Insert(a.order, 0, win)
}

// Remove drops win from the order and from any cycle in progress.
func (a *AltTab) Remove(win xproto.Window) {
	a.order = slices.DeleteFunc(a.order, func(w xproto.Window) bool { return w == win })
	if !a.active {
		return
	}
	i := slices.Index(a.candidates, win)
	if i < 0 {
		return
	}
	a.candidates = slices.Delete(a.candidates, i, i+1)
	if i < a.index {
		a.index--
	}
	if len(a.candidates) < 2 {
		a.Cancel()
		return
	}
	a.index %= len(a.candidates)
}

// Step advances the selection by one, backwards if reverse is set. The
// first step of a cycle snapshots the windows accepted by eligible and
// needs at least two of them. Later steps skip candidates that are no
// longer eligible; when none is left the cycle is cancelled.
func (a *AltTab) Step(eligible func(xproto.Window) bool, reverse bool) (xproto.Window, bool) {
	if !a.active {
		var candidates []xproto.Window
		for _, w := range a.order {
			if eligible(w) {
				candidates = append(candidates, w)
			}
		}
		if len(candidates) < 2 {
			return 0, false
		}
		a.active = true
		a.candidates = candidates
		a.index = 0
	}

	n := len(a.candidates)
	for range n {
		if reverse {
			a.index = (a.index - 1 + n) % n
		} else {
			a.index = (a.index + 1) % n
		}
		if w := a.candidates[a.index]; eligible(w) {
			return w, true
		}
	}
	a.Cancel()
	return 0, false
}

// Selected returns the highlighted window of the current cycle.
func (a *AltTab) Selected() (xproto.Window, bool) {
	if !a.active {
		return 0, false
	}
	return a.candidates[a.index], true
}

// Commit ends the cycle and promotes the highlighted window to the front.
// A highlighted window that is no longer eligible is not promoted.
func (a *AltTab) Commit(eligible func(xproto.Window) bool) (xproto.Window, bool) {
	win, ok := a.Selected()
	a.Cancel()
	if !ok || !eligible(win) {
		return 0, false
	}
	a.promote(win)
	return win, true
}

// Cancel ends the cycle without changing the order.
func (a *AltTab) Cancel() {
	a.active = false
	a.candidates = nil
	a.index = 0
}
