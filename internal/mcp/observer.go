// ABOUTME: Observability sink for handled requests, kept out of the dispatcher.
// ABOUTME: Provides a slog observer, a call-ledger observer, and fan-out.

package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/crud-mcp/internal/store"
)

// Transport names passed to Server.Handle.
const (
	TransportStdio = store.TransportStdio
	TransportHTTP  = store.TransportHTTP
)

// CallEvent describes one handled request.
type CallEvent struct {
	CallID    string
	Transport string
	Method    string
	Tool      string
	ID        ID
	ErrorCode *int   // set when the response carries an error
	Success   *bool  // set when a tool operation ran
	Message   string // error message or operation message
	Panicked  bool
	Started   time.Time
	Duration  time.Duration
}

// Failed reports whether the request ended in a protocol error or a failed operation.
func (e CallEvent) Failed() bool {
	return e.ErrorCode != nil || (e.Success != nil && !*e.Success)
}

// Observer receives an event after every handled request. Implementations must be
// safe for concurrent use; they cannot influence the response.
type Observer interface {
	ObserveCall(ctx context.Context, ev CallEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev CallEvent)

// ObserveCall calls f.
func (f ObserverFunc) ObserveCall(ctx context.Context, ev CallEvent) {
	f(ctx, ev)
}

// Observers fans an event out to each observer in order.
type Observers []Observer

// ObserveCall implements Observer.
func (o Observers) ObserveCall(ctx context.Context, ev CallEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveCall(ctx, ev)
		}
	}
}

// LogObserver writes one structured log line per request.
type LogObserver struct {
	Logger *slog.Logger
}

// ObserveCall implements Observer.
func (l LogObserver) ObserveCall(ctx context.Context, ev CallEvent) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{
		"call_id", ev.CallID,
		"transport", ev.Transport,
		"method", ev.Method,
		"id", ev.ID.String(),
		"duration", ev.Duration,
	}
	if ev.Tool != "" {
		attrs = append(attrs, "tool", ev.Tool)
	}

	switch {
	case ev.Panicked:
		logger.ErrorContext(ctx, "request panicked", append(attrs, "error", ev.Message)...)
	case ev.ErrorCode != nil:
		logger.WarnContext(ctx, "request failed", append(attrs, "code", *ev.ErrorCode, "error", ev.Message)...)
	case ev.Success != nil && !*ev.Success:
		logger.InfoContext(ctx, "tool operation failed", append(attrs, "message", ev.Message)...)
	default:
		logger.DebugContext(ctx, "request handled", attrs...)
	}
}

// CallAppender is the part of the call ledger LedgerObserver needs.
type CallAppender interface {
	AppendCall(ctx context.Context, r *store.CallRecord) error
}

// LedgerObserver appends every event to the call ledger.
type LedgerObserver struct {
	Store  CallAppender
	Logger *slog.Logger
}

// ObserveCall implements Observer. Ledger failures are logged and otherwise ignored.
func (l LedgerObserver) ObserveCall(ctx context.Context, ev CallEvent) {
	rec := &store.CallRecord{
		ID:        ev.CallID,
		Transport: ev.Transport,
		Method:    ev.Method,
		Tool:      ev.Tool,
		RPCID:     ev.ID.String(),
		ErrorCode: ev.ErrorCode,
		Success:   ev.Success,
		Message:   ev.Message,
		Duration:  ev.Duration,
		Timestamp: ev.Started.UTC(),
	}

	// the response is already decided; a cancelled request still gets recorded
	if err := l.Store.AppendCall(context.WithoutCancel(ctx), rec); err != nil {
		logger := l.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("failed to record call", "call_id", ev.CallID, "error", err)
	}
}
