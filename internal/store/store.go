// ABOUTME: Call ledger interface and data types for crud-mcp persistence
// ABOUTME: Defines CallRecord, CallFilter and the CallStore interface

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord is returned when a call record is missing a required field.
var ErrInvalidRecord = errors.New("invalid call record")

// Transport names recorded in the ledger.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// CallRecord is one handled MCP request.
type CallRecord struct {
	ID        string // UUID v4
	Transport string // "stdio" or "http"
	Method    string
	Tool      string // empty unless a registered tool was named
	RPCID     string // request id as it appeared on the wire, "0" when absent
	ErrorCode *int   // set for tier-1 errors
	Success   *bool  // set when a tool operation ran
	Message   string // error message or operation message
	Duration  time.Duration
	Timestamp time.Time
}

// Failed reports whether the call ended in a protocol error or a failed operation.
func (r CallRecord) Failed() bool {
	if r.ErrorCode != nil {
		return true
	}
	return r.Success != nil && !*r.Success
}

// CallFilter specifies filtering options for listing calls.
type CallFilter struct {
	Tool       string     // exact tool name
	Transport  string     // "stdio" or "http"
	FailedOnly bool       // only protocol errors and failed operations
	Since      *time.Time // calls at or after this time
	Limit      int        // max results (default 100, max 1000)
}

// CallStore appends and queries the call ledger.
type CallStore interface {
	AppendCall(ctx context.Context, r *CallRecord) error
	ListCalls(ctx context.Context, f CallFilter) ([]CallRecord, error)
	Close() error
}

// normalizeCallLimit applies default (100) and cap (1000) to the list limit.
func normalizeCallLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

func validateRecord(r *CallRecord) error {
	switch {
	case r.Transport != TransportStdio && r.Transport != TransportHTTP:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidRecord, r.Transport)
	case r.RPCID == "":
		return fmt.Errorf("%w: rpc id is required", ErrInvalidRecord)
	}
	return nil
}
