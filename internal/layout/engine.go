package layout

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/1broseidon/dragonwm/internal/camera"
	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/registry"
	"github.com/1broseidon/dragonwm/internal/x11"
)

// Settings controls decoration size and the semantic zoom thresholds.
type Settings struct {
	// TitleHeight is the title bar height in world units.
	TitleHeight int
	// MinTitleHeight floors the projected title bar in pixels.
	MinTitleHeight int
	// ContentZoom is the zoom above which client surfaces are shown.
	ContentZoom float64
	// TextZoom is the zoom above which title text is drawn.
	TextZoom float64
}

// DefaultSettings returns the stock decoration settings.
func DefaultSettings() Settings {
	return Settings{
		TitleHeight:    25,
		MinTitleHeight: 8,
		ContentZoom:    0.5,
		TextZoom:       0.7,
	}
}

// Engine applies projected geometry to frames, buttons and clients.
type Engine struct {
	display  x11.Display
	settings Settings
	log      zerolog.Logger
}

// NewEngine creates a layout engine drawing on d.
func NewEngine(d x11.Display, s Settings, log zerolog.Logger) *Engine {
	return &Engine{
		display:  d,
		settings: s,
		log:      log.With().Str("component", "layout").Logger(),
	}
}

// Settings returns the engine's settings.
func (e *Engine) Settings() Settings { return e.settings }

// Screen returns the current output size.
func (e *Engine) Screen() Screen {
	w, h := e.display.ScreenSize()
	return Screen{Width: w, Height: h}
}

// TitleHeight is the projected title bar height for a window.
func (e *Engine) TitleHeight(zoom float64, fullscreen bool) int {
	if fullscreen {
		return 0
	}
	return max(e.settings.MinTitleHeight, int(float64(e.settings.TitleHeight)*zoom))
}

// ContentVisible reports whether client surfaces are shown at zoom.
func (e *Engine) ContentVisible(zoom float64) bool {
	return zoom > e.settings.ContentZoom
}

// FrameRect is the screen rectangle of rec's frame under cam.
func (e *Engine) FrameRect(cam *camera.Camera, rec *registry.Record) geom.Rect {
	r := Project(cam, rec.World, e.Screen())
	if rec.Fullscreen {
		return r
	}
	title := e.TitleHeight(cam.Zoom, false)
	if rec.FixedWidth() {
		r.Width = max(int(float64(rec.MinWidth)*cam.Zoom), MinExtent)
	}
	if rec.FixedHeight() {
		r.Height = max(int(float64(rec.MinHeight)*cam.Zoom)+title, MinExtent)
	}
	return r
}

// ContentRect is the client rectangle inside a frame of size frame. The
// client keeps at least its scaled minimum size and is centred in the
// space below the title bar.
func ContentRect(frame geom.Rect, title int, cons registry.Constraints, zoom float64) geom.Rect {
	availW := frame.Width
	availH := frame.Height - title

	minW, minH := availW, availH
	if cons.MinWidth > 0 {
		minW = int(float64(cons.MinWidth) * zoom)
	}
	if cons.MinHeight > 0 {
		minH = int(float64(cons.MinHeight) * zoom)
	}
	w := max(availW, minW)
	h := max(availH, minH)

	return geom.Rect{
		X:      max(0, (availW-w)/2),
		Y:      max(0, title+(availH-h)/2),
		Width:  w,
		Height: h,
	}
}

// Apply runs one layout pass over every mapped record. It returns the
// clients that turned out not to exist any more; the caller tears them
// down once the pass is over.
func (e *Engine) Apply(cam *camera.Camera, reg *registry.Registry) []xproto.Window {
	var dead []xproto.Window
	reg.ForEachMapped(func(rec *registry.Record) {
		if res := e.place(cam, rec); res.Gone() {
			e.log.Debug().Uint32("client", uint32(rec.Client)).Err(res).Msg("window vanished during layout")
			dead = append(dead, rec.Client)
		}
	})
	e.display.Flush()
	return dead
}

func (e *Engine) place(cam *camera.Camera, rec *registry.Record) x11.Result {
	frame := e.FrameRect(cam, rec)
	title := e.TitleHeight(cam.Zoom, rec.Fullscreen)
	showContent := e.ContentVisible(cam.Zoom)

	if res := e.display.MoveResize(rec.Frame, frame); !res.Ok() {
		return res
	}

	if title > 0 {
		e.showButtons(rec, frame.Width, title)
		if textW := frame.Width - 2*title; textW > 10 {
			e.display.Clear(rec.Frame, geom.Rect{Width: textW, Height: title})
			if showContent && cam.Zoom > e.settings.TextZoom {
				e.display.DrawText(rec.Frame, 5, int(float64(title)*0.7), rec.Title)
			}
		}
	} else {
		e.hideButtons(rec)
	}

	if !showContent {
		if rec.ContentVisible {
			if res := e.display.Unmap(rec.Client); res.Gone() {
				return res
			} else if res.Ok() {
				rec.IgnoreUnmaps++
			}
			rec.ContentVisible = false
		}
		e.display.Clear(rec.Frame, geom.Rect{Width: frame.Width, Height: frame.Height})
		return x11.OK
	}

	if !rec.ContentVisible {
		if res := e.display.Map(rec.Client); !res.Ok() {
			return res
		}
		rec.ContentVisible = true
	}
	content := ContentRect(frame, title, rec.Constraints, cam.Zoom)
	if res := e.display.MoveResize(rec.Client, content); res.Gone() {
		return res
	}
	return x11.OK
}

func (e *Engine) showButtons(rec *registry.Record, frameW, title int) {
	e.display.MoveResize(rec.Buttons.Close, geom.Rect{X: frameW - title, Width: title, Height: title})
	e.display.MoveResize(rec.Buttons.Maximize, geom.Rect{X: frameW - 2*title, Width: title, Height: title})
	if !rec.ButtonsVisible {
		e.display.Map(rec.Buttons.Close)
		e.display.Map(rec.Buttons.Maximize)
		rec.ButtonsVisible = true
	}
}

func (e *Engine) hideButtons(rec *registry.Record) {
	if !rec.ButtonsVisible {
		return
	}
	e.display.Unmap(rec.Buttons.Close)
	e.display.Unmap(rec.Buttons.Maximize)
	rec.ButtonsVisible = false
}
