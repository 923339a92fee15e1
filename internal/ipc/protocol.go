package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandStatus     CommandType = "STATUS"
	CommandWindows    CommandType = "WINDOWS"
	CommandCameraSave CommandType = "CAMERA_SAVE"
	CommandCameraLoad CommandType = "CAMERA_LOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	CameraX       int     `json:"camera_x"`
	CameraY       int     `json:"camera_y"`
	Zoom          float64 `json:"zoom"`
	Managed       int     `json:"managed"`
	Mapped        int     `json:"mapped"`
	Focused       uint32  `json:"focused,omitempty"`
	Fullscreen    uint32  `json:"fullscreen,omitempty"`
	SavedSlots    []int   `json:"saved_slots,omitempty"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

// WindowInfo describes one managed window in world coordinates.
type WindowInfo struct {
	Client     uint32 `json:"client"`
	Frame      uint32 `json:"frame"`
	Title      string `json:"title"`
	Class      string `json:"class,omitempty"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Mapped     bool   `json:"mapped"`
	Fullscreen bool   `json:"fullscreen,omitempty"`
	Dialog     bool   `json:"dialog,omitempty"`
	Focused    bool   `json:"focused,omitempty"`
}

// WindowsData represents the data returned by WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// SlotPayload selects a saved camera slot for CAMERA_SAVE and CAMERA_LOAD.
type SlotPayload struct {
	Slot int `json:"slot"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// ParseSlot decodes a SlotPayload.
func (r *Request) ParseSlot() (int, error) {
	var p SlotPayload
	if len(r.Payload) == 0 {
		return 0, fmt.Errorf("slot is required")
	}
	if err := json.Unmarshal(r.Payload, &p); err != nil {
		return 0, fmt.Errorf("invalid slot payload: %w", err)
	}
	return p.Slot, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
