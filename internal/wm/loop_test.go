package wm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/dragonwm/internal/geom"
	"github.com/1broseidon/dragonwm/internal/ipc"
	"github.com/1broseidon/dragonwm/internal/x11"
)

// chanSource feeds MapRequestEvents through the same path a live
// connection uses.
type chanSource struct {
	ch chan x11.Raw
}

func (s *chanSource) Events(context.Context) <-chan x11.Raw { return s.ch }

func (s *chanSource) Translate(raw xgb.Event) (x11.Event, bool) {
	if e, ok := raw.(xproto.MapRequestEvent); ok {
		return x11.MapRequest{Window: e.Window, Parent: e.Parent}, true
	}
	return nil, false
}

func TestRun_ProcessesEventsUntilClosed(t *testing.T) {
	f := newFixture(t)
	w := f.d.AddClient("shell", "xterm", geom.Rect{Width: 400, Height: 300})
	src := &chanSource{ch: make(chan x11.Raw, 3)}
	src.ch <- x11.Raw{Event: xproto.MapRequestEvent{Window: w.ID}}
	src.ch <- x11.Raw{Event: xproto.KeymapNotifyEvent{}}
	close(src.ch)

	err := f.m.Run(context.Background(), src, nil)
	require.Error(t, err, "a closed connection ends the loop")
	assert.Equal(t, 1, f.m.Registry().Len())
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	src := &chanSource{ch: make(chan x11.Raw)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.m.Run(ctx, src, nil) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func slotRequest(t *testing.T, cmd ipc.CommandType, slot int) *ipc.Request {
	t.Helper()
	payload, err := json.Marshal(ipc.SlotPayload{Slot: slot})
	require.NoError(t, err)
	return &ipc.Request{Command: cmd, Payload: payload}
}

func TestExecute_StatusAndWindows(t *testing.T) {
	f := newFixture(t)
	w := f.mapClient(t, "shell", geom.Rect{Width: 400, Height: 300})

	resp := f.m.Execute(&ipc.Request{Command: ipc.CommandStatus})
	require.Equal(t, "OK", resp.Status)
	var st ipc.StatusData
	require.NoError(t, json.Unmarshal(resp.Data, &st))
	assert.Equal(t, 1, st.Managed)
	assert.Equal(t, 1, st.Mapped)
	assert.Equal(t, uint32(w.ID), st.Focused)
	assert.Equal(t, 1.0, st.Zoom)

	resp = f.m.Execute(&ipc.Request{Command: ipc.CommandWindows})
	require.Equal(t, "OK", resp.Status)
	var list ipc.WindowsData
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.Windows, 1)
	got := list.Windows[0]
	assert.Equal(t, uint32(w.ID), got.Client)
	assert.Equal(t, "shell", got.Title)
	assert.Equal(t, 325, got.Height)
	assert.True(t, got.Focused)
}

func TestExecute_CameraSlots(t *testing.T) {
	f := newFixture(t)

	resp := f.m.Execute(slotRequest(t, ipc.CommandCameraLoad, 3))
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "empty")

	f.m.Camera().MoveTo(geom.Point{X: 40, Y: 50})
	resp = f.m.Execute(slotRequest(t, ipc.CommandCameraSave, 3))
	require.Equal(t, "OK", resp.Status)

	f.m.Camera().MoveTo(geom.Point{})
	resp = f.m.Execute(slotRequest(t, ipc.CommandCameraLoad, 3))
	require.Equal(t, "OK", resp.Status)
	var st ipc.StatusData
	require.NoError(t, json.Unmarshal(resp.Data, &st))
	assert.Equal(t, 40, st.CameraX)
	assert.Equal(t, []int{3}, st.SavedSlots)

	resp = f.m.Execute(&ipc.Request{Command: ipc.CommandCameraSave})
	assert.Equal(t, "ERROR", resp.Status)
	resp = f.m.Execute(&ipc.Request{Command: "REBOOT"})
	assert.Equal(t, "ERROR", resp.Status)
}
