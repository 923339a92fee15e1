package ipc

import (
	"fmt"
	"net"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve answers calls the way the event loop does, until the server stops.
func serve(t *testing.T, s *Server, handle func(*Request) *Response) {
	t.Helper()
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case call := <-s.Calls():
				call.Reply(handle(call.Request))
			case <-stop:
				return
			}
		}
	}()
	t.Cleanup(func() {
		close(stop)
		s.Stop()
	})
}

func startServer(t *testing.T) (*Server, *Client) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wm.sock")
	s := NewServer(path, zerolog.Nop())
	require.NoError(t, s.Start())
	return s, NewClientAt(path)
}

func TestRoundTrip_StatusAndWindows(t *testing.T) {
	s, c := startServer(t)
	serve(t, s, func(req *Request) *Response {
		switch req.Command {
		case CommandStatus:
			resp, _ := NewOKResponse(StatusData{CameraX: -40, Zoom: 0.5, Managed: 2, Mapped: 1})
			return resp
		case CommandWindows:
			resp, _ := NewOKResponse(WindowsData{Windows: []WindowInfo{{Client: 0x400001, Title: "xterm", Width: 400, Height: 325, Mapped: true}}})
			return resp
		}
		return NewErrorResponse("unexpected")
	})

	status, err := c.Status()
	require.NoError(t, err)
	assert.Equal(t, -40, status.CameraX)
	assert.Equal(t, 0.5, status.Zoom)
	assert.Equal(t, 2, status.Managed)

	windows, err := c.Windows()
	require.NoError(t, err)
	require.Len(t, windows.Windows, 1)
	assert.Equal(t, "xterm", windows.Windows[0].Title)
	assert.Equal(t, uint32(0x400001), windows.Windows[0].Client)
}

func TestRoundTrip_SlotPayloadAndErrors(t *testing.T) {
	s, c := startServer(t)
	var saved []int
	serve(t, s, func(req *Request) *Response {
		slot, err := req.ParseSlot()
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		if req.Command == CommandCameraLoad {
			return NewErrorResponse(fmt.Sprintf("slot %d is empty", slot))
		}
		saved = append(saved, slot)
		resp, _ := NewOKResponse(nil)
		return resp
	})

	require.NoError(t, c.CameraSave(3))
	assert.Equal(t, []int{3}, saved)

	err := c.CameraLoad(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot 2 is empty")
}

func TestServer_InvalidRequest(t *testing.T) {
	s, _ := startServer(t)
	serve(t, s, func(*Request) *Response { return NewErrorResponse("unreachable") })

	conn, err := net.Dial("unix", s.SocketPath())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not json\n"))
	require.NoError(t, err)

	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "Invalid request")
}

func TestServer_StopUnblocksPendingCalls(t *testing.T) {
	s, c := startServer(t)
	// Nothing drains Calls; Stop must release the waiting connection.
	errc := make(chan error, 1)
	go func() { errc <- c.Ping() }()

	s.Stop()
	err := <-errc
	require.Error(t, err)
}

func TestClient_NoServer(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "absent.sock"))
	err := c.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is dragonwm running")
}

func TestParseSlot(t *testing.T) {
	_, err := (&Request{Command: CommandCameraSave}).ParseSlot()
	assert.Error(t, err)

	slot, err := (&Request{Payload: []byte(`{"slot":4}`)}).ParseSlot()
	require.NoError(t, err)
	assert.Equal(t, 4, slot)
}
