package layout

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/dragonwm/internal/camera"
	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/registry"
	"github.com/1broseidon/dragonwm/internal/x11/x11test"
)

var screen = Screen{Width: 1920, Height: 1080}

func TestProject_IdentityAtOrigin(t *testing.T) {
	cam := camera.New()
	world := geom.Rect{X: 10, Y: -20, Width: 400, Height: 325}

	got := Project(cam, world, screen)

	assert.Equal(t, geom.Rect{X: 970, Y: 520, Width: 400, Height: 325}, got)
}

func TestProject_ScalesAroundCamera(t *testing.T) {
	cam := camera.New()
	cam.MoveTo(geom.Point{X: 100, Y: 100})
	cam.SetZoom(0.5)

	got := Project(cam, geom.Rect{X: 300, Y: 100, Width: 400, Height: 200}, screen)

	assert.Equal(t, geom.Rect{X: 1060, Y: 540, Width: 200, Height: 100}, got)
}

func TestProject_ClampsExtent(t *testing.T) {
	cam := camera.New()
	cam.SetZoom(0.11)

	got := Project(cam, geom.Rect{Width: 10, Height: 400000}, screen)

	assert.Equal(t, MinExtent, got.Width)
	assert.Equal(t, MaxExtent, got.Height)
}

func TestUnproject_InvertsProject(t *testing.T) {
	cam := camera.New()
	cam.MoveTo(geom.Point{X: -500, Y: 250})
	cam.SetZoom(2)

	world := geom.Point{X: -300, Y: 400}
	r := Project(cam, geom.Rect{X: world.X, Y: world.Y, Width: 10, Height: 10}, screen)

	assert.Equal(t, world, Unproject(cam, geom.Point{X: r.X, Y: r.Y}, screen))
}

func TestFullscreenRect_CoversScreen(t *testing.T) {
	cam := camera.New()
	cam.MoveTo(geom.Point{X: 1000, Y: 1000})
	cam.SetZoom(2)

	full := FullscreenRect(cam, screen)
	assert.Equal(t, geom.Rect{X: 520, Y: 730, Width: 960, Height: 540}, full)

	got := Project(cam, full, screen)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, got)
}

func TestTitleHeight(t *testing.T) {
	e := NewEngine(x11test.New(1920, 1080), DefaultSettings(), zerolog.Nop())

	tests := []struct {
		zoom       float64
		fullscreen bool
		want       int
	}{
		{1.0, false, 25},
		{2.0, false, 50},
		{0.2, false, 8},
		{0.32, false, 8},
		{1.0, true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.TitleHeight(tt.zoom, tt.fullscreen), "zoom=%v fullscreen=%v", tt.zoom, tt.fullscreen)
	}
}

func TestContentRect_RespectsMinimum(t *testing.T) {
	frame := geom.Rect{Width: 200, Height: 225}
	cons := registry.Constraints{MinWidth: 300, MinHeight: 100, MaxWidth: 32768, MaxHeight: 32768}

	got := ContentRect(frame, 25, cons, 1.0)

	assert.Equal(t, geom.Rect{X: 0, Y: 25, Width: 300, Height: 200}, got)
}

func newManaged(t *testing.T, d *x11test.Display, reg *registry.Registry, world geom.Rect) *registry.Record {
	t.Helper()
	client := d.AddClient("term", "XTerm", geom.Rect{Width: world.Width, Height: world.Height})
	frame, res := d.CreateFrame(world, registry.ThemeFor("XTerm"))
	require.True(t, res.Ok())
	rec, created := reg.Register(client.ID, frame.Window, frame.Buttons(), world)
	require.True(t, created)
	rec.Mapped = true
	return rec
}

func TestApply_SemanticZoomTogglesContentOnce(t *testing.T) {
	d := x11test.New(1920, 1080)
	reg := registry.New()
	rec := newManaged(t, d, reg, geom.Rect{Width: 400, Height: 325})
	e := NewEngine(d, DefaultSettings(), zerolog.Nop())
	cam := camera.New()

	e.Apply(cam, reg)
	assert.Equal(t, 1, d.Count("Map", rec.Client))
	assert.True(t, d.Windows[rec.Client].Mapped)

	// A second pass above the threshold must not touch the client's map state.
	e.Apply(cam, reg)
	assert.Equal(t, 1, d.Count("Map", rec.Client))

	cam.SetZoom(0.5)
	e.Apply(cam, reg)
	e.Apply(cam, reg)
	assert.Equal(t, 1, d.Count("Unmap", rec.Client))
	assert.False(t, d.Windows[rec.Client].Mapped)
	assert.Equal(t, 1, rec.IgnoreUnmaps)

	cam.SetZoom(0.6)
	e.Apply(cam, reg)
	assert.Equal(t, 2, d.Count("Map", rec.Client))
	assert.True(t, d.Windows[rec.Client].Mapped)
}

func TestApply_TitleTextOnlyWhenReadable(t *testing.T) {
	d := x11test.New(1920, 1080)
	reg := registry.New()
	rec := newManaged(t, d, reg, geom.Rect{Width: 400, Height: 325})
	rec.Title = "shell"
	e := NewEngine(d, DefaultSettings(), zerolog.Nop())
	cam := camera.New()

	cam.SetZoom(0.7)
	e.Apply(cam, reg)
	assert.Zero(t, d.Count("DrawText", rec.Frame))

	cam.SetZoom(0.8)
	e.Apply(cam, reg)
	assert.Equal(t, 1, d.Count("DrawText", rec.Frame))
	assert.Equal(t, "shell", d.Windows[rec.Frame].Text)
}

func TestApply_ButtonsFollowTitleBar(t *testing.T) {
	d := x11test.New(1920, 1080)
	reg := registry.New()
	rec := newManaged(t, d, reg, geom.Rect{Width: 400, Height: 325})
	e := NewEngine(d, DefaultSettings(), zerolog.Nop())
	cam := camera.New()

	e.Apply(cam, reg)
	closeBtn := d.Windows[rec.Buttons.Close]
	maxBtn := d.Windows[rec.Buttons.Maximize]
	assert.True(t, closeBtn.Mapped)
	assert.Equal(t, geom.Rect{X: 375, Width: 25, Height: 25}, closeBtn.Rect)
	assert.Equal(t, geom.Rect{X: 350, Width: 25, Height: 25}, maxBtn.Rect)

	rec.EnterFullscreen(FullscreenRect(cam, e.Screen()))
	e.Apply(cam, reg)
	assert.False(t, closeBtn.Mapped)
	assert.False(t, maxBtn.Mapped)
	assert.Equal(t, geom.Rect{Width: 1920, Height: 1080}, d.Windows[rec.Frame].Rect)
}

func TestApply_FixedSizeUsesHints(t *testing.T) {
	d := x11test.New(1920, 1080)
	reg := registry.New()
	rec := newManaged(t, d, reg, geom.Rect{Width: 900, Height: 900})
	rec.Constraints = registry.Constraints{MinWidth: 640, MinHeight: 480, MaxWidth: 640, MaxHeight: 480}
	e := NewEngine(d, DefaultSettings(), zerolog.Nop())
	cam := camera.New()

	e.Apply(cam, reg)

	assert.Equal(t, geom.Rect{X: 960, Y: 540, Width: 640, Height: 505}, d.Windows[rec.Frame].Rect)
	assert.Equal(t, geom.Rect{X: 0, Y: 25, Width: 640, Height: 480}, d.Windows[rec.Client].Rect)
}

func TestApply_ReportsVanishedAndContinues(t *testing.T) {
	d := x11test.New(1920, 1080)
	reg := registry.New()
	gone := newManaged(t, d, reg, geom.Rect{Width: 400, Height: 325})
	alive := newManaged(t, d, reg, geom.Rect{X: 500, Width: 400, Height: 325})
	d.Vanish(gone.Frame)
	e := NewEngine(d, DefaultSettings(), zerolog.Nop())

	dead := e.Apply(camera.New(), reg)

	assert.Equal(t, []xproto.Window{gone.Client}, dead)
	assert.True(t, d.Windows[alive.Client].Mapped)
	assert.Equal(t, 2, reg.Len(), "layout never removes records itself")
}

func TestApply_SkipsUnmapped(t *testing.T) {
	d := x11test.New(1920, 1080)
	reg := registry.New()
	rec := newManaged(t, d, reg, geom.Rect{Width: 400, Height: 325})
	rec.Mapped = false
	e := NewEngine(d, DefaultSettings(), zerolog.Nop())

	e.Apply(camera.New(), reg)

	assert.Zero(t, d.Count("MoveResize", rec.Frame))
}
