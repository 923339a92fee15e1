package camera

import (
	"maps"
	"math"
	"slices"

	"github.com/1broseidon/dragonwm/internal/geom"
)

const (
	// DefaultMinZoom and DefaultMaxZoom bound the zoom factor.
	DefaultMinZoom = 0.11
	DefaultMaxZoom = 5.0
)

// Viewpoint is a saved camera position and zoom.
type Viewpoint struct {
	X    int
	Y    int
	Zoom float64
}

// Camera is the viewpoint onto the world plane. X and Y are the world
// coordinates shown at the centre of the screen.
type Camera struct {
	X    int
	Y    int
	Zoom float64

	minZoom float64
	maxZoom float64
	saved   map[int]Viewpoint
}

// New returns a camera at the world origin with zoom 1.
func New() *Camera {
	return NewWithLimits(DefaultMinZoom, DefaultMaxZoom)
}

// NewWithLimits returns a camera at the world origin whose zoom is
// clamped to [minZoom, maxZoom].
func NewWithLimits(minZoom, maxZoom float64) *Camera {
	if minZoom <= 0 || minZoom > maxZoom {
		minZoom, maxZoom = DefaultMinZoom, DefaultMaxZoom
	}
	c := &Camera{
		Zoom:    1.0,
		minZoom: minZoom,
		maxZoom: maxZoom,
		saved:   make(map[int]Viewpoint),
	}
	c.Zoom = c.clamp(c.Zoom)
	return c
}

// Position returns the camera position as a point.
func (c *Camera) Position() geom.Point {
	return geom.Point{X: c.X, Y: c.Y}
}

// Pan moves the camera by a world-space delta.
func (c *Camera) Pan(dx, dy int) {
	c.X += dx
	c.Y += dy
}

// MoveTo places the camera at an absolute world position.
func (c *Camera) MoveTo(p geom.Point) {
	c.X = p.X
	c.Y = p.Y
}

// ZoomBy adds delta to the zoom factor and returns the clamped result.
func (c *Camera) ZoomBy(delta float64) float64 {
	c.Zoom = c.clamp(c.Zoom + delta)
	return c.Zoom
}

// SetZoom sets the zoom factor, clamped to the camera's limits.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = c.clamp(z)
}

// Save stores the current viewpoint under slot.
func (c *Camera) Save(slot int) Viewpoint {
	vp := Viewpoint{X: c.X, Y: c.Y, Zoom: c.Zoom}
	c.saved[slot] = vp
	return vp
}

// Load restores the viewpoint stored under slot. It reports false and
// leaves the camera untouched if the slot is empty.
func (c *Camera) Load(slot int) bool {
	vp, ok := c.saved[slot]
	if !ok {
		return false
	}
	c.X = vp.X
	c.Y = vp.Y
	c.Zoom = c.clamp(vp.Zoom)
	return true
}

// Saved returns the viewpoint stored under slot.
func (c *Camera) Saved(slot int) (Viewpoint, bool) {
	vp, ok := c.saved[slot]
	return vp, ok
}

// Slots returns the occupied save slots in ascending order.
func (c *Camera) Slots() []int {
	return slices.Sorted(maps.Keys(c.saved))
}

// clamp rounds to three decimals so repeated 0.1 steps land on exact
// thresholds, then bounds the result.
func (c *Camera) clamp(z float64) float64 {
	z = math.Round(z*1000) / 1000
	return math.Max(c.minZoom, math.Min(z, c.maxZoom))
}
