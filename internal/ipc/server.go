package ipc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// replyTimeout bounds how long a connection waits for the event loop.
const replyTimeout = 5 * time.Second

// Call is one request waiting to be executed on the manager's event loop.
type Call struct {
	Request *Request
	reply   chan *Response
}

// Reply hands the response back to the waiting connection. It never
// blocks.
func (c *Call) Reply(resp *Response) {
	select {
	case c.reply <- resp:
	default:
	}
}

// Server accepts control connections and forwards each request to the
// event loop through Calls.
type Server struct {
	socketPath string
	listener   net.Listener
	log        zerolog.Logger
	calls      chan *Call

	shuttingDown bool
	shutdownMu   sync.Mutex
	done         chan struct{}
}

// NewServer creates a server that will listen on socketPath.
func NewServer(socketPath string, log zerolog.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		log:        log,
		calls:      make(chan *Call),
		done:       make(chan struct{}),
	}
}

// Calls delivers requests for the event loop to execute.
func (s *Server) Calls() <-chan *Call { return s.calls }

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed instance.
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * replyTimeout))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Debug().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.send(conn, s.dispatch(req))
}

// dispatch queues req for the event loop and waits for its answer.
func (s *Server) dispatch(req *Request) *Response {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	call := &Call{Request: req, reply: make(chan *Response, 1)}
	select {
	case s.calls <- call:
	case <-s.done:
		return NewErrorResponse("window manager is shutting down")
	case <-ctx.Done():
		return NewErrorResponse("window manager is busy")
	}

	select {
	case resp := <-call.reply:
		if resp == nil {
			return NewErrorResponse("empty response")
		}
		return resp
	case <-s.done:
		return NewErrorResponse("window manager is shutting down")
	case <-ctx.Done():
		return NewErrorResponse("timed out waiting for window manager")
	}
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal IPC response")
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.log.Debug().Err(err).Msg("failed to send IPC response")
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
