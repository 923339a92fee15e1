package registry

import (
	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/BurntSushi/xgb/xproto"
)

// Size hint bounds used when a client publishes none.
const (
	DefaultMinSize = 0
	DefaultMaxSize = 32768
)

// Action identifies what a decoration button does.
type Action int

const (
	ActionNone Action = iota
	ActionClose
	ActionMaximize
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionClose:
		return "close"
	case ActionMaximize:
		return "maximize"
	default:
		return "none"
	}
}

// Buttons holds the decoration button windows of a frame.
type Buttons struct {
	Close    xproto.Window
	Maximize xproto.Window
}

// Constraints are the size limits taken from WM_NORMAL_HINTS.
type Constraints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// DefaultConstraints returns the bounds used for missing or malformed hints.
func DefaultConstraints() Constraints {
	return Constraints{
		MinWidth:  DefaultMinSize,
		MinHeight: DefaultMinSize,
		MaxWidth:  DefaultMaxSize,
		MaxHeight: DefaultMaxSize,
	}
}

// Sanitize repairs inverted or negative bounds.
func (c Constraints) Sanitize() Constraints {
	if c.MinWidth < 0 {
		c.MinWidth = 0
	}
	if c.MinHeight < 0 {
		c.MinHeight = 0
	}
	if c.MaxWidth <= 0 {
		c.MaxWidth = DefaultMaxSize
	}
	if c.MaxHeight <= 0 {
		c.MaxHeight = DefaultMaxSize
	}
	if c.MinWidth > c.MaxWidth {
		c.MaxWidth = c.MinWidth
	}
	if c.MinHeight > c.MaxHeight {
		c.MaxHeight = c.MinHeight
	}
	return c
}

// FixedWidth reports whether the client refuses any width but one.
func (c Constraints) FixedWidth() bool {
	return c.MinWidth > 0 && c.MinWidth == c.MaxWidth
}

// FixedHeight reports whether the client refuses any height but one.
func (c Constraints) FixedHeight() bool {
	return c.MinHeight > 0 && c.MinHeight == c.MaxHeight
}

// Record is the manager's bookkeeping for one managed client window.
type Record struct {
	Client  xproto.Window
	Frame   xproto.Window
	Buttons Buttons

	Title string
	Class string
	Theme Theme

	// World geometry, independent of the camera. Height includes the
	// title bar allowance.
	World geom.Rect
	Constraints

	Mapped     bool
	Fullscreen bool
	// Saved is the pre-fullscreen geometry; non-nil iff Fullscreen.
	Saved *geom.Rect

	Dialog bool
	Parent xproto.Window

	// ContentVisible tracks whether the client surface is currently
	// mapped inside the frame.
	ContentVisible bool
	// ButtonsVisible tracks whether the decoration buttons are mapped.
	ButtonsVisible bool
	// IgnoreUnmaps counts UnmapNotify events the manager caused itself.
	IgnoreUnmaps int
}

// EnterFullscreen snapshots the current geometry and replaces it with full.
func (r *Record) EnterFullscreen(full geom.Rect) {
	if r.Fullscreen {
		return
	}
	saved := r.World
	r.Saved = &saved
	r.World = full
	r.Fullscreen = true
}

// ExitFullscreen restores the snapshot taken by EnterFullscreen.
func (r *Record) ExitFullscreen() {
	if !r.Fullscreen {
		return
	}
	if r.Saved != nil {
		r.World = *r.Saved
	}
	r.Saved = nil
	r.Fullscreen = false
}
