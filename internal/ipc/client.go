package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/dragonwm/internal/runtimepath"
)

// Client handles IPC communication with a running manager
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the manager running on display ("" for
// $DISPLAY).
func NewClient(display string) *Client {
	socketPath, err := runtimepath.SocketPath(display)
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to window manager: %w (is dragonwm running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("window manager error: %s", resp.Error)
	}

	return &resp, nil
}

// Status retrieves camera and registry status.
func (c *Client) Status() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Windows lists managed windows.
func (c *Client) Windows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &data, nil
}

// CameraSave stores the current camera in slot.
func (c *Client) CameraSave(slot int) error {
	return c.slotRequest(CommandCameraSave, slot)
}

// CameraLoad restores the camera from slot.
func (c *Client) CameraLoad(slot int) error {
	return c.slotRequest(CommandCameraLoad, slot)
}

func (c *Client) slotRequest(cmd CommandType, slot int) error {
	payload, err := json.Marshal(SlotPayload{Slot: slot})
	if err != nil {
		return fmt.Errorf("failed to marshal slot payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: cmd, Payload: payload})
	return err
}

// Ping checks if the manager is responding
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}
