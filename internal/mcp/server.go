// ABOUTME: Transport boundary shared by stdio and HTTP: panic containment and call events.
// ABOUTME: Wraps the Dispatcher; transports only frame bytes and call Handle.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxBodyBytes caps HTTP request bodies when Config leaves it unset (10MB).
const DefaultMaxBodyBytes = 10 << 20

// Config holds configuration for the MCP server.
type Config struct {
	Dispatcher   *Dispatcher
	Logger       *slog.Logger
	Observer     Observer      // receives one CallEvent per handled request; may be nil
	MaxBodyBytes int64         // HTTP body limit; 0 uses DefaultMaxBodyBytes
	ReadTimeout  time.Duration // HTTP server read timeout; 0 uses 30s
	WriteTimeout time.Duration // HTTP server write timeout; 0 uses 30s
}

// Server serves a Dispatcher over the stdio and HTTP transports.
type Server struct {
	dispatcher   *Dispatcher
	logger       *slog.Logger
	observer     Observer
	maxBodyBytes int64
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if cfg.MaxBodyBytes < 0 {
		return nil, errors.New("max body bytes must not be negative")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		dispatcher:   cfg.Dispatcher,
		logger:       logger.With("component", "mcp"),
		observer:     cfg.Observer,
		maxBodyBytes: cfg.MaxBodyBytes,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
	if s.maxBodyBytes == 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	if s.readTimeout == 0 {
		s.readTimeout = 30 * time.Second
	}
	if s.writeTimeout == 0 {
		s.writeTimeout = 30 * time.Second
	}
	return s, nil
}

// Handle dispatches one parsed request and always returns a response. A panic
// during dispatch is answered with a -1 "Internal error" response carrying the
// request's id.
func (s *Server) Handle(ctx context.Context, transport string, req Request) (resp Response) {
	ev := CallEvent{
		CallID:    uuid.New().String(),
		Transport: transport,
		Method:    req.Method,
		ID:        req.ID,
		Started:   time.Now(),
	}

	defer func() {
		if r := recover(); r != nil {
			resp = errorResponse(req.ID, fmt.Sprintf("Internal error: %v", r))
			ev.Panicked = true
		}
		ev.Duration = time.Since(ev.Started)
		describeResponse(&ev, resp)
		s.observe(ctx, ev)
	}()

	s.logger.Debug("dispatching request",
		"call_id", ev.CallID,
		"transport", transport,
		"method", req.Method,
		"id", req.ID.String(),
	)

	var trace Trace
	resp, trace = s.dispatcher.dispatch(req)
	ev.Tool = trace.Tool
	if trace.Operation != nil {
		ok := trace.Operation.Success
		ev.Success = &ok
		ev.Message = trace.Operation.Message
	}
	return resp
}

// observe hands ev to the observer. A panicking observer is logged and does not
// affect the response.
func (s *Server) observe(ctx context.Context, ev CallEvent) {
	if s.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("observer panicked", "call_id", ev.CallID, "panic", r)
		}
	}()
	s.observer.ObserveCall(ctx, ev)
}

// describeResponse copies the error, if any, from resp into ev.
func describeResponse(ev *CallEvent, resp Response) {
	if resp.Error == nil {
		return
	}
	code := resp.Error.Code
	ev.ErrorCode = &code
	ev.Message = resp.Error.Message
}
