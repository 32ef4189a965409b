// ABOUTME: Routes a JSON-RPC request to initialize, tools/list or tools/call.
// ABOUTME: Dispatch is total: every failure becomes an error response, never a panic or error value.

package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2389/crud-mcp/internal/fsops"
	"github.com/2389/crud-mcp/internal/tools"
)

// protocolVersion is the MCP revision announced by initialize.
const protocolVersion = "2024-11-05"

// DefaultServerInfo is announced when the dispatcher is not given one.
var DefaultServerInfo = ServerInfo{Name: "local-file-crud-mcp", Version: "1.0.0"}

// Outcome is the dispatch result before it is wrapped in an envelope: either Ok or
// *RPCError. Operation failures are not outcomes of their own; they travel inside Ok.
type Outcome interface {
	outcome()
}

// Ok carries a result payload.
type Ok struct {
	Result any
}

func (Ok) outcome()        {}
func (*RPCError) outcome() {}

func methodNotFound(method string) *RPCError {
	return &RPCError{Code: CodeMethodNotFound, Message: "Method not found: " + method}
}

func genericError(format string, args ...any) *RPCError {
	return &RPCError{Code: CodeGeneric, Message: fmt.Sprintf(format, args...)}
}

// Trace describes what a dispatch touched, for observers. Tool is empty unless the
// request was a tools/call naming a registered tool; Operation is nil unless the tool ran.
type Trace struct {
	Tool      string
	Operation *fsops.Result
}

// Dispatcher maps requests to responses using an immutable tool registry. It does no
// logging and keeps no state between calls.
type Dispatcher struct {
	registry *tools.Registry
	info     ServerInfo
}

// NewDispatcher creates a dispatcher over registry. A zero info uses DefaultServerInfo.
func NewDispatcher(registry *tools.Registry, info ServerInfo) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	if info == (ServerInfo{}) {
		info = DefaultServerInfo
	}
	return &Dispatcher{registry: registry, info: info}, nil
}

// Dispatch answers req.
func (d *Dispatcher) Dispatch(req Request) Response {
	resp, _ := d.dispatch(req)
	return resp
}

func (d *Dispatcher) dispatch(req Request) (Response, Trace) {
	outcome, trace := d.route(req)
	return respond(req.ID, outcome), trace
}

func (d *Dispatcher) route(req Request) (Outcome, Trace) {
	switch req.Method {
	case MethodInitialize:
		return Ok{Result: InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    ServerCapabilities{Tools: ToolsCapability{ListChanged: true}},
			ServerInfo:      d.info,
		}}, Trace{}
	case MethodToolsList:
		return Ok{Result: ListToolsResult{Tools: d.registry.Describe()}}, Trace{}
	case MethodToolsCall:
		return d.callTool(req.Params)
	default:
		return methodNotFound(req.Method), Trace{}
	}
}

func (d *Dispatcher) callTool(rawParams json.RawMessage) (Outcome, Trace) {
	if len(rawParams) == 0 {
		return genericError("Tool name is required"), Trace{}
	}

	var params struct {
		Name      json.RawMessage `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return genericError("Invalid tools/call params: %v", err), Trace{}
	}
	name, ok := toolName(params.Name)
	if !ok {
		return genericError("Tool name is required"), Trace{}
	}

	tool, ok := d.registry.Resolve(name)
	if !ok {
		return genericError("Unknown tool: %s", name), Trace{}
	}

	trace := Trace{Tool: name}
	result, err := tool.Call(params.Arguments)
	if err != nil {
		var argErr *tools.ArgumentError
		if errors.As(err, &argErr) {
			return genericError("Invalid arguments for %s: %v", name, argErr.Err), trace
		}
		return genericError("%v", err), trace
	}
	trace.Operation = &result

	text, err := encodeJSON(result)
	if err != nil {
		return genericError("Encoding %s result: %v", name, err), trace
	}

	return Ok{Result: CallToolResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	}}, trace
}

// toolName extracts params.name. Missing, null and non-string names are rejected;
// an empty string is a name like any other and fails resolution.
func toolName(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", false
	}
	return name, true
}

// respond builds the envelope, setting exactly one of result and error.
func respond(id ID, outcome Outcome) Response {
	resp := Response{JSONRPC: jsonrpcVersion, ID: id}
	switch o := outcome.(type) {
	case Ok:
		resp.Result = o.Result
	case *RPCError:
		resp.Error = o
	default:
		resp.Error = genericError("Internal error: unexpected outcome %T", outcome)
	}
	return resp
}

// errorResponse is used by transports for failures outside the dispatcher.
func errorResponse(id ID, message string) Response {
	return respond(id, genericError("%s", message))
}
