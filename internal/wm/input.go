package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/hotkeys"
	"github.com/1broseidon/dragonwm/internal/input"
	"github.com/1broseidon/dragonwm/internal/registry"
	"github.com/1broseidon/dragonwm/internal/x11"
)

// Pointer buttons the manager reacts to.
const (
	buttonPrimary    xproto.Button = 1
	buttonScrollUp   xproto.Button = 4
	buttonScrollDown xproto.Button = 5
)

// Command bar placement on the root window, in pixels.
const (
	barHeight = 30
	barTextX  = 10
	barTextY  = 20
)

func (m *Manager) buttonPress(e x11.ButtonPress) {
	pointer := geom.Point{X: e.RootX, Y: e.RootY}

	if mod := m.keys.PointerModifier(); mod != 0 && m.keys.Clean(e.State)&mod == mod {
		switch e.Button {
		case buttonScrollUp:
			m.zoom(m.cfg.Zoom.Step)
			return
		case buttonScrollDown:
			m.zoom(-m.cfg.Zoom.Step)
			return
		case buttonPrimary:
			if rec, ok := m.reg.Fullscreen(); ok {
				m.toggleFullscreen(rec)
				return
			}
			m.drag.BeginPan(pointer, m.cam.Position())
			return
		}
	}

	if action, rec, ok := m.reg.ByButton(e.Window); ok {
		switch action {
		case registry.ActionClose:
			m.close(rec, e.Time)
		case registry.ActionMaximize:
			m.toggleFullscreen(rec)
		}
		return
	}

	if rec, ok := m.reg.ByFrame(e.Window); ok {
		m.focus(rec, e.Time)
		if e.Button != buttonPrimary || rec.Fullscreen {
			return
		}
		frame := m.layout.FrameRect(m.cam, rec)
		local := geom.Point{X: e.EventX, Y: e.EventY}
		if input.InResizeGrip(local, frame.Width, frame.Height, m.cfg.Decoration.ResizeGrip) {
			m.drag.BeginResize(pointer, rec.Client, rec.World)
		} else {
			m.drag.BeginMove(pointer, rec.Client, rec.World)
		}
		return
	}

	if e.Window == m.display.Root() {
		m.unfocus()
		return
	}

	if rec, ok := m.reg.ByClient(e.Window); ok {
		m.focus(rec, e.Time)
		m.display.ReplayPointer(e.Time)
	}
}

func (m *Manager) buttonRelease(e x11.ButtonRelease) {
	if !m.drag.Active() {
		return
	}
	target := m.drag.Target
	if mode := m.drag.End(); mode == input.ModePanning {
		return
	}
	if rec, ok := m.reg.ByClient(target); ok {
		m.notifyGeometry(rec)
	}
}

func (m *Manager) motion(e x11.MotionNotify) {
	step, ok := m.drag.Motion(geom.Point{X: e.RootX, Y: e.RootY}, m.cam.Zoom)
	if !ok {
		return
	}
	if step.Mode == input.ModePanning {
		m.cam.MoveTo(step.Camera)
	} else {
		rec, ok := m.reg.ByClient(step.Target)
		if !ok {
			m.drag.End()
			return
		}
		rec.World = step.World
	}
	m.relayout()
}

// zoom steps the camera. Zooming is disabled while a window is
// fullscreen.
func (m *Manager) zoom(delta float64) {
	if _, ok := m.reg.Fullscreen(); ok {
		return
	}
	before := m.cam.Zoom
	if m.cam.ZoomBy(delta) == before {
		return
	}
	m.log.Debug().Float64("zoom", m.cam.Zoom).Msg("zoom")
	m.relayout()
}

func (m *Manager) keyPress(e x11.KeyPress) {
	if m.bar.Active() {
		m.commandBarKey(e)
		return
	}

	action, ok := m.keys.Match(e.State, e.Code)
	if !ok {
		return
	}
	switch action.Kind {
	case hotkeys.ActionClose:
		if rec, ok := m.focusedRecord(); ok {
			m.close(rec, e.Time)
		}
	case hotkeys.ActionFullscreen:
		if rec, ok := m.focusedRecord(); ok {
			m.toggleFullscreen(rec)
		}
	case hotkeys.ActionCommandBar:
		m.toggleCommandBar()
	case hotkeys.ActionCycle, hotkeys.ActionCycleReverse:
		m.cycle(action.Kind == hotkeys.ActionCycleReverse, e.Time)
	case hotkeys.ActionSaveSlot:
		m.saveSlot(action.Slot)
	case hotkeys.ActionLoadSlot:
		m.loadSlot(action.Slot)
	case hotkeys.ActionLaunch:
		m.launch(action.Command)
	}
}

func (m *Manager) keyRelease(e x11.KeyRelease) {
	if e.Mod&m.keys.CycleModifier() == 0 {
		return
	}
	if !m.altTab.Active() {
		// The cycle may have ended under us, e.g. its windows died.
		m.releaseCycleGrab()
		return
	}
	win, ok := m.altTab.Commit(m.cycleEligible)
	m.releaseCycleGrab()
	if !ok {
		return
	}
	if rec, ok := m.reg.ByClient(win); ok {
		m.focus(rec, e.Time)
	}
}

// cycle walks the alt-tab order one step, focusing each candidate as a
// preview. The keyboard is held from the first step until the cycle
// modifier is released.
func (m *Manager) cycle(reverse bool, t xproto.Timestamp) {
	starting := !m.altTab.Active()
	win, ok := m.altTab.Step(m.cycleEligible, reverse)
	if !ok {
		m.releaseCycleGrab()
		return
	}
	if starting && !m.cycleGrab {
		if res := m.display.GrabKeyboard(); res.Ok() {
			m.cycleGrab = true
		} else {
			m.log.Warn().Err(res).Msg("failed to grab keyboard for window cycling")
		}
	}
	if rec, ok := m.reg.ByClient(win); ok {
		m.focus(rec, t)
	}
}

func (m *Manager) cycleEligible(w xproto.Window) bool {
	rec, ok := m.reg.ByClient(w)
	return ok && rec.Mapped
}

// releaseCycleGrab drops the alt-tab keyboard grab if one is held. The
// command bar keeps its own grab.
func (m *Manager) releaseCycleGrab() {
	if !m.cycleGrab {
		return
	}
	m.cycleGrab = false
	if !m.bar.Active() {
		m.display.UngrabKeyboard()
	}
}

func (m *Manager) saveSlot(slot int) {
	vp := m.cam.Save(slot)
	m.log.Info().Int("slot", slot).Int("x", vp.X).Int("y", vp.Y).Float64("zoom", vp.Zoom).Msg("camera saved")
}

// loadSlot moves the camera to a saved viewpoint. A fullscreen window is
// restored first since its geometry belongs to the current camera.
func (m *Manager) loadSlot(slot int) bool {
	if _, ok := m.cam.Saved(slot); !ok {
		m.log.Debug().Int("slot", slot).Msg("camera slot empty")
		return false
	}
	if rec, ok := m.reg.Fullscreen(); ok {
		m.toggleFullscreen(rec)
	}
	m.cam.Load(slot)
	m.relayout()
	return true
}

func (m *Manager) launch(command string) {
	if m.launcher == nil {
		m.log.Warn().Str("command", command).Msg("no launcher configured")
		return
	}
	if err := m.launcher.Spawn(command); err != nil {
		m.log.Error().Err(err).Str("command", command).Msg("launch failed")
	}
}

func (m *Manager) toggleCommandBar() {
	if !m.bar.Toggle() {
		m.closeBar()
		return
	}
	if res := m.display.GrabKeyboard(); !res.Ok() {
		m.log.Warn().Err(res).Msg("failed to grab keyboard for command bar")
		m.bar.Toggle()
		return
	}
	m.drawBar()
}

func (m *Manager) commandBarKey(e x11.KeyPress) {
	command, submit := m.bar.HandleKey(e.Sym)
	if m.bar.Active() {
		m.drawBar()
		return
	}
	m.closeBar()
	if submit && command != "" {
		m.launch(command)
	}
}

func (m *Manager) drawBar() {
	w, _ := m.display.ScreenSize()
	root := m.display.Root()
	m.display.Clear(root, geom.Rect{Width: w, Height: barHeight})
	m.display.DrawText(root, barTextX, barTextY, "> "+m.bar.Text())
}

func (m *Manager) closeBar() {
	m.display.UngrabKeyboard()
	w, _ := m.display.ScreenSize()
	m.display.Clear(m.display.Root(), geom.Rect{Width: w, Height: barHeight})
}
