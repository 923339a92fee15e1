// Package wm is the window manager proper: it owns the registry and the
// camera, reacts to every server event and keeps the screen in step with
// the world.
package wm

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/1broseidon/dragonwm/internal/camera"
	"github.com/1broseidon/dragonwm/internal/config"
	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/hotkeys"
	"github.com/1broseidon/dragonwm/internal/input"
	"github.com/1broseidon/dragonwm/internal/launcher"
	"github.com/1broseidon/dragonwm/internal/layout"
	"github.com/1broseidon/dragonwm/internal/registry"
	"github.com/1broseidon/dragonwm/internal/x11"
)

// Bindings maps key presses to actions. *hotkeys.Handler implements it.
type Bindings interface {
	Match(state uint16, code xproto.Keycode) (hotkeys.Action, bool)
	Clean(state uint16) uint16
	CycleModifier() uint16
	PointerModifier() uint16
}

// Spawner starts shell commands without waiting for them.
type Spawner interface {
	Spawn(command string) error
}

// Options wires a Manager to its collaborators. Display, Config and Keys
// are required.
type Options struct {
	Config   *config.Config
	Display  x11.Display
	Keys     Bindings
	Launcher Spawner
	Bar      launcher.CommandBar
	Log      zerolog.Logger
}

// Manager is the single context value every handler works on. It is not
// safe for concurrent use; only the event loop touches it.
type Manager struct {
	cfg      *config.Config
	display  x11.Display
	keys     Bindings
	launcher Spawner
	bar      launcher.CommandBar
	log      zerolog.Logger

	reg    *registry.Registry
	cam    *camera.Camera
	layout *layout.Engine
	drag   *input.Drag
	altTab *input.AltTab

	// cycleGrab is set while the keyboard is held for an alt-tab cycle.
	cycleGrab bool

	focused xproto.Window
	started time.Time
}

// New builds a manager with an empty registry and the camera at the world
// origin.
func New(opts Options) *Manager {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bar := opts.Bar
	if bar == nil {
		bar = launcher.NewPrompt()
	}
	log := opts.Log.With().Str("component", "wm").Logger()

	settings := layout.Settings{
		TitleHeight:    cfg.Decoration.TitleHeight,
		MinTitleHeight: cfg.Decoration.MinTitleHeight,
		ContentZoom:    cfg.Semantic.ContentThreshold,
		TextZoom:       cfg.Semantic.TitleTextThreshold,
	}

	return &Manager{
		cfg:      cfg,
		display:  opts.Display,
		keys:     opts.Keys,
		launcher: opts.Launcher,
		bar:      bar,
		log:      log,
		reg:      registry.New(),
		cam:      camera.NewWithLimits(cfg.Zoom.Min, cfg.Zoom.Max),
		layout:   layout.NewEngine(opts.Display, settings, opts.Log),
		drag:     input.NewDrag(cfg.Window.MinDragSize),
		altTab:   input.NewAltTab(),
		started:  time.Now(),
	}
}

// Registry exposes the window records, read-only by convention.
func (m *Manager) Registry() *registry.Registry { return m.reg }

// Camera exposes the camera, read-only by convention.
func (m *Manager) Camera() *camera.Camera { return m.cam }

// Focused returns the focused client, or zero.
func (m *Manager) Focused() xproto.Window { return m.focused }

// relayout re-applies the world to the screen and tears down any window
// found missing on the way.
func (m *Manager) relayout() {
	for _, client := range m.layout.Apply(m.cam, m.reg) {
		m.destroyNotify(x11.DestroyNotify{Event: client, Window: client})
	}
	if m.bar.Active() {
		m.drawBar()
	}
}

func (m *Manager) updateClientList() {
	if res := m.display.SetClientList(m.reg.Mapped()); !res.Ok() {
		m.log.Warn().Err(res).Msg("failed to update client list")
	}
}

// clientGeometry is where the client ends up on screen, in root
// coordinates, for synthetic ConfigureNotify events.
func (m *Manager) clientGeometry(rec *registry.Record) geom.Rect {
	frame := m.layout.FrameRect(m.cam, rec)
	title := m.layout.TitleHeight(m.cam.Zoom, rec.Fullscreen)
	content := layout.ContentRect(frame, title, rec.Constraints, m.cam.Zoom)
	content.X += frame.X
	content.Y += frame.Y
	return content
}

func (m *Manager) notifyGeometry(rec *registry.Record) {
	if res := m.display.SendConfigureNotify(rec.Client, m.clientGeometry(rec)); !res.Ok() && !res.Gone() {
		m.log.Debug().Err(res).Uint32("client", uint32(rec.Client)).Msg("configure notify failed")
	}
}

func (m *Manager) focusedRecord() (*registry.Record, bool) {
	if m.focused == 0 {
		return nil, false
	}
	return m.reg.ByClient(m.focused)
}

// focus gives rec the input focus and raises it. Unmapped windows are
// never focused.
func (m *Manager) focus(rec *registry.Record, t xproto.Timestamp) {
	if !rec.Mapped {
		return
	}

	res := m.display.SendProtocol(rec.Client, x11.ProtoTakeFocus, t)
	if !res.Ok() && res.Status != x11.StatusUnsupported {
		m.log.Debug().Err(res).Uint32("client", uint32(rec.Client)).Msg("take focus failed")
	}
	// SetInputFocus fails with BadMatch while the client is hidden by
	// semantic zoom; focus still moves logically.
	if res := m.display.Focus(rec.Client, t); !res.Ok() {
		m.log.Debug().Err(res).Uint32("client", uint32(rec.Client)).Msg("set input focus failed")
	}
	m.raise(rec)
	m.display.SetActiveWindow(rec.Client)

	m.focused = rec.Client
	m.altTab.Touch(rec.Client)
}

// raise puts rec's frame on top, followed by the frames of its dialogs.
func (m *Manager) raise(rec *registry.Record) {
	m.display.Raise(rec.Frame)
	for _, other := range m.reg.All() {
		if other.Dialog && other.Parent == rec.Client && other.Mapped {
			m.display.StackAbove(other.Frame, rec.Frame)
		}
	}
}

func (m *Manager) unfocus() {
	m.focused = 0
	m.display.FocusRoot()
}
