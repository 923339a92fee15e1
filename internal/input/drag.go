// Package input holds the pointer drag and alt-tab state machines. Both
// are pure: they never talk to the server, they only say what should
// change.
package input

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/layout"
)

// DefaultMinSize is the smallest world size a resize drag produces.
const DefaultMinSize = 50

// Mode represents the current drag mode
type Mode int

const (
	// ModeIdle means no button is held
	ModeIdle Mode = iota
	// ModePanning moves the camera
	ModePanning
	// ModeMoving moves one window
	ModeMoving
	// ModeResizing resizes one window from its bottom-right corner
	ModeResizing
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeMoving:
		return "moving"
	case ModeResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Step is the outcome of one motion event: the new camera position when
// panning, or the new world rectangle of Target otherwise.
type Step struct {
	Mode   Mode
	Target xproto.Window
	Camera geom.Point
	World  geom.Rect
}

// Drag tracks one button-held gesture. Every motion is applied to the
// snapshot taken when the drag began, never to the live value.
type Drag struct {
	Mode   Mode
	Target xproto.Window

	start   geom.Point
	origin  geom.Rect
	minSize int
}

// NewDrag creates an idle drag whose resizes stop at minSize.
func NewDrag(minSize int) *Drag {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	return &Drag{minSize: minSize}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.Mode != ModeIdle }

// BeginPan starts panning from the pointer position with the camera at cam.
func (d *Drag) BeginPan(pointer, cam geom.Point) {
	d.begin(ModePanning, 0, pointer, geom.Rect{X: cam.X, Y: cam.Y})
}

// BeginMove starts moving client, whose world rectangle is world.
func (d *Drag) BeginMove(pointer geom.Point, client xproto.Window, world geom.Rect) {
	d.begin(ModeMoving, client, pointer, world)
}

// BeginResize starts resizing client, whose world rectangle is world.
func (d *Drag) BeginResize(pointer geom.Point, client xproto.Window, world geom.Rect) {
	d.begin(ModeResizing, client, pointer, world)
}

func (d *Drag) begin(mode Mode, target xproto.Window, pointer geom.Point, origin geom.Rect) {
	d.Mode = mode
	d.Target = target
	d.start = pointer
	d.origin = origin
}

// Motion converts the pointer position into a Step. It reports false when
// no drag is in progress.
func (d *Drag) Motion(pointer geom.Point, zoom float64) (Step, bool) {
	if d.Mode == ModeIdle {
		return Step{}, false
	}
	dx := layout.ScreenToWorld(pointer.X-d.start.X, zoom)
	dy := layout.ScreenToWorld(pointer.Y-d.start.Y, zoom)

	step := Step{Mode: d.Mode, Target: d.Target}
	switch d.Mode {
	case ModePanning:
		step.Camera = geom.Point{X: d.origin.X - dx, Y: d.origin.Y - dy}
	case ModeMoving:
		step.World = d.origin
		step.World.X += dx
		step.World.Y += dy
	case ModeResizing:
		step.World = d.origin
		step.World.Width = max(d.origin.Width+dx, d.minSize)
		step.World.Height = max(d.origin.Height+dy, d.minSize)
	}
	return step, true
}

// End finishes the drag and returns the mode that was active.
func (d *Drag) End() Mode {
	mode := d.Mode
	*d = Drag{minSize: d.minSize}
	return mode
}

// InResizeGrip reports whether a click at p, relative to a frame of the
// given screen size, lands in the bottom-right resize corner. The grip is
// measured in screen pixels so it stays the same size at any zoom.
func InResizeGrip(p geom.Point, width, height, grip int) bool {
	return p.X > width-grip && p.Y > height-grip
}
