package wm

import (
	"fmt"
	"time"

	"github.com/1broseidon/dragonwm/internal/ipc"
)

// Execute answers one control request. It runs on the event loop.
func (m *Manager) Execute(req *ipc.Request) *ipc.Response {
	if req == nil {
		return ipc.NewErrorResponse("empty request")
	}
	switch req.Command {
	case ipc.CommandStatus:
		return m.respond(m.status())
	case ipc.CommandWindows:
		return m.respond(m.windows())
	case ipc.CommandCameraSave:
		slot, err := req.ParseSlot()
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		m.saveSlot(slot)
		return m.respond(m.status())
	case ipc.CommandCameraLoad:
		slot, err := req.ParseSlot()
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		if !m.loadSlot(slot) {
			return ipc.NewErrorResponse(fmt.Sprintf("camera slot %d is empty", slot))
		}
		return m.respond(m.status())
	default:
		return ipc.NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (m *Manager) respond(data any) *ipc.Response {
	resp, err := ipc.NewOKResponse(data)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return resp
}

func (m *Manager) status() ipc.StatusData {
	st := ipc.StatusData{
		CameraX:       m.cam.X,
		CameraY:       m.cam.Y,
		Zoom:          m.cam.Zoom,
		Managed:       m.reg.Len(),
		Mapped:        len(m.reg.Mapped()),
		Focused:       uint32(m.focused),
		SavedSlots:    m.cam.Slots(),
		UptimeSeconds: int64(time.Since(m.started) / time.Second),
	}
	if rec, ok := m.reg.Fullscreen(); ok {
		st.Fullscreen = uint32(rec.Client)
	}
	return st
}

func (m *Manager) windows() ipc.WindowsData {
	out := ipc.WindowsData{Windows: []ipc.WindowInfo{}}
	for _, rec := range m.reg.All() {
		out.Windows = append(out.Windows, ipc.WindowInfo{
			Client:     uint32(rec.Client),
			Frame:      uint32(rec.Frame),
			Title:      rec.Title,
			Class:      rec.Class,
			X:          rec.World.X,
			Y:          rec.World.Y,
			Width:      rec.World.Width,
			Height:     rec.World.Height,
			Mapped:     rec.Mapped,
			Fullscreen: rec.Fullscreen,
			Dialog:     rec.Dialog,
			Focused:    rec.Client == m.focused,
		})
	}
	return out
}
