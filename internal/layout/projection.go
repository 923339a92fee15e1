// Package layout projects world geometry through the camera and applies
// the result to real windows.
package layout

import (
	"github.com/1broseidon/dragonwm/internal/camera"
	"github.com/1broseidon/dragonwm/internal/geom"
)

// Projected sizes are clamped to this range so neither a far zoom-out nor
// a huge window produces a request the server rejects.
const (
	MinExtent = 5
	MaxExtent = 30000
)

// Screen is the size of the output the camera projects onto.
type Screen struct {
	Width  int
	Height int
}

// Project maps a world rectangle to screen pixels.
func Project(cam *camera.Camera, world geom.Rect, scr Screen) geom.Rect {
	halfW, halfH := scr.Width/2, scr.Height/2
	return geom.Rect{
		X:      int(float64(world.X-cam.X)*cam.Zoom + float64(halfW)),
		Y:      int(float64(world.Y-cam.Y)*cam.Zoom + float64(halfH)),
		Width:  geom.Clamp(int(float64(world.Width)*cam.Zoom), MinExtent, MaxExtent),
		Height: geom.Clamp(int(float64(world.Height)*cam.Zoom), MinExtent, MaxExtent),
	}
}

// Unproject maps a screen point back into world coordinates.
func Unproject(cam *camera.Camera, p geom.Point, scr Screen) geom.Point {
	z := SafeZoom(cam.Zoom)
	return geom.Point{
		X: cam.X + int(float64(p.X-scr.Width/2)/z),
		Y: cam.Y + int(float64(p.Y-scr.Height/2)/z),
	}
}

// ScreenToWorld converts a screen distance into world units at zoom.
func ScreenToWorld(d int, zoom float64) int {
	return int(float64(d) / SafeZoom(zoom))
}

// SafeZoom floors zoom at 0.1 before it is used as a divisor.
func SafeZoom(zoom float64) float64 {
	return max(zoom, 0.1)
}

// FullscreenRect is the world rectangle that exactly covers the screen at
// the camera's current zoom.
func FullscreenRect(cam *camera.Camera, scr Screen) geom.Rect {
	z := SafeZoom(cam.Zoom)
	w := int(float64(scr.Width) / z)
	h := int(float64(scr.Height) / z)
	return geom.Rect{X: cam.X - w/2, Y: cam.Y - h/2, Width: w, Height: h}
}
