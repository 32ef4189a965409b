// ABOUTME: JSON-RPC 2.0 envelope types and MCP result payloads.
// ABOUTME: Strict request parsing shared by the stdio and HTTP transports.

package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/2389/crud-mcp/internal/tools"
)

// JSON-RPC version carried on every response.
const jsonrpcVersion = "2.0"

// MCP methods understood by the dispatcher.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// Error codes. Only these two are ever produced.
const (
	CodeMethodNotFound = -32601
	CodeGeneric        = -1
)

// ErrMalformedRequest marks input that cannot be interpreted as a request at all.
var ErrMalformedRequest = errors.New("malformed request")

// ID is a JSON-RPC request id: a string, an integer, or absent. An absent (or null)
// id is answered with 0, on every code path.
type ID struct {
	raw json.RawMessage
}

// NoID is the absent id.
var NoID = ID{}

// StringID returns a string id.
func StringID(s string) ID {
	b, _ := json.Marshal(s)
	return ID{raw: b}
}

// IntID returns an integer id.
func IntID(n int64) ID {
	return ID{raw: json.RawMessage(strconv.FormatInt(n, 10))}
}

// IsZero reports whether the id was absent or null.
func (id ID) IsZero() bool {
	return len(id.raw) == 0
}

// String renders the id the way it appears on the wire.
func (id ID) String() string {
	if id.IsZero() {
		return "0"
	}
	return string(id.raw)
}

// MarshalJSON writes the id, substituting 0 when absent.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("0"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON accepts a string, an integer, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = NoID
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
	default:
		if _, err := strconv.ParseInt(string(trimmed), 10, 64); err != nil {
			return fmt.Errorf("invalid id %s: must be a string or an integer", trimmed)
		}
	}

	id.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// Request is an incoming JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id,omitzero"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Response is an outgoing JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      ID        `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// InitializeResult is the initialize handshake payload.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities declares the MCP features offered.
type ServerCapabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability is the tools entry of ServerCapabilities.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ServerInfo names this server in the handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ListToolsResult is the tools/list payload.
type ListToolsResult struct {
	Tools []tools.Descriptor `json:"tools"`
}

// CallToolParams are the tools/call params as a client sends them.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult is the tools/call payload.
type CallToolResult struct {
	Content []Content `json:"content"`
}

// Content is one typed block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// wireRequest distinguishes a missing method from an empty one.
type wireRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Method  *string         `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// ParseRequest decodes one request. The method member is required and params, when
// present, must be an object.
func ParseRequest(data []byte) (Request, error) {
	return parseRequest(data, true)
}

func parseRequest(data []byte, requireMethod bool) (Request, error) {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if w.Method == nil && requireMethod {
		return Request{}, fmt.Errorf("%w: missing method", ErrMalformedRequest)
	}

	params := bytes.TrimSpace(w.Params)
	if bytes.Equal(params, []byte("null")) {
		params = nil
	}
	if len(params) > 0 && params[0] != '{' {
		return Request{}, fmt.Errorf("%w: params must be an object", ErrMalformedRequest)
	}

	req := Request{
		JSONRPC: w.JSONRPC,
		ID:      w.ID,
		Params:  params,
	}
	if req.JSONRPC == "" {
		req.JSONRPC = jsonrpcVersion
	}
	if w.Method != nil {
		req.Method = *w.Method
	}
	return req, nil
}

// encodeJSON marshals without HTML escaping so file content round-trips as written.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
