// ABOUTME: Shared fixtures for mcp tests: servers over the real filesystem layer.
// ABOUTME: Includes a capability set that panics to exercise recovery.

package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2389/crud-mcp/internal/fsops"
	"github.com/2389/crud-mcp/internal/tools"
)

// panicCaps behaves like fsops.Ops except that read_file panics.
type panicCaps struct {
	*fsops.Ops
}

func (panicCaps) ReadFile(string) fsops.Result {
	panic("disk on fire")
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	return newDispatcherFor(t, fsops.New())
}

func newDispatcherFor(t *testing.T, caps tools.Capabilities) *Dispatcher {
	t.Helper()
	reg, err := tools.NewRegistry(caps)
	require.NoError(t, err)
	d, err := NewDispatcher(reg, ServerInfo{})
	require.NoError(t, err)
	return d
}

func newTestServer(t *testing.T, obs Observer) *Server {
	t.Helper()
	srv, err := NewServer(Config{Dispatcher: newTestDispatcher(t), Observer: obs})
	require.NoError(t, err)
	return srv
}

func newPanickingServer(t *testing.T, obs Observer) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		Dispatcher: newDispatcherFor(t, panicCaps{fsops.New()}),
		Observer:   obs,
	})
	require.NoError(t, err)
	return srv
}

// callRequest builds a tools/call request.
func callRequest(t *testing.T, id ID, tool string, args any) Request {
	t.Helper()
	rawArgs, err := json.Marshal(args)
	require.NoError(t, err)
	params, err := json.Marshal(CallToolParams{Name: tool, Arguments: rawArgs})
	require.NoError(t, err)
	return Request{JSONRPC: "2.0", ID: id, Method: MethodToolsCall, Params: params}
}

// toolResult unwraps the operation result from an in-process tools/call response.
func toolResult(t *testing.T, resp Response) fsops.Result {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected rpc error")
	result, ok := resp.Result.(CallToolResult)
	require.True(t, ok, "result is %T", resp.Result)
	require.Len(t, result.Content, 1)
	require.Equal(t, "text", result.Content[0].Type)
	return decodeOperation(t, result.Content[0].Text)
}

func decodeOperation(t *testing.T, text string) fsops.Result {
	t.Helper()
	var res fsops.Result
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	return res
}

// wireResponse is a response decoded from bytes.
type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  *struct {
		Content []Content `json:"content"`
	} `json:"result"`
	Error *RPCError `json:"error"`
	raw   map[string]json.RawMessage
}

func decodeWire(t *testing.T, data []byte) wireResponse {
	t.Helper()
	var w wireResponse
	require.NoError(t, json.Unmarshal(data, &w), string(data))
	require.NoError(t, json.Unmarshal(data, &w.raw))
	return w
}

// eventRecorder collects call events.
type eventRecorder struct {
	mu     sync.Mutex
	events []CallEvent
}

func (r *eventRecorder) ObserveCall(_ context.Context, ev CallEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) all() []CallEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CallEvent(nil), r.events...)
}
