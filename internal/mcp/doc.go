// Package mcp implements the Model Context Protocol server for local file tools.
//
// # Overview
//
// MCP (Model Context Protocol) is a JSON-RPC 2.0 based standard for AI tool
// integration. This package exposes the seven filesystem tools of package tools
// to a remote caller over two transports: newline-delimited stdio and a small
// stateless HTTP surface.
//
// # Methods
//
// Exactly three methods are understood:
//
//   - initialize: protocol version, capabilities and server info
//   - tools/list: the seven tool descriptors in fixed order
//   - tools/call: run one tool
//
// Anything else is answered with code -32601 "Method not found: <method>".
// Every other protocol-level failure uses code -1.
//
// # Error tiers
//
// A tools/call that reaches the filesystem always produces a result, even when
// the operation failed. The result wraps the operation outcome as text:
//
//	{
//	  "jsonrpc": "2.0",
//	  "id": 2,
//	  "result": {
//	    "content": [{"type": "text", "text": "{\"success\":false,\"message\":\"Failed to read file: File not found: /tmp/x\",\"data\":null}"}]
//	  }
//	}
//
// Requests that never reach the filesystem (missing tool name, unknown tool,
// undecodable arguments) produce a JSON-RPC error instead.
//
// # Request ids
//
// Ids are strings or integers. An absent or null id is answered with 0.
//
// # Stdio transport
//
// One JSON object per line in each direction. Blank lines and malformed requests
// are skipped without output. Requests are handled strictly in order.
//
//	echo '{"jsonrpc":"2.0","id":1,"method":"tools/list"}' | crud-mcp stdio
//
// # HTTP transport
//
// Each method has its own endpoint and every response is HTTP 200:
//
//   - POST /mcp/initialize
//   - POST /mcp/tools/list
//   - POST /mcp/tools/call
//   - GET /healthz
//
// # Architecture
//
// Components:
//
//   - Dispatcher: pure request-to-response mapping over a tools.Registry
//   - Server: transport boundary with panic containment and call events
//   - Observer: sink for call events (LogObserver, LedgerObserver, Observers)
//
// # Usage
//
//	reg, _ := tools.NewRegistry(fsops.New())
//	d, _ := mcp.NewDispatcher(reg, mcp.DefaultServerInfo)
//	srv, _ := mcp.NewServer(mcp.Config{
//	    Dispatcher: d,
//	    Observer:   mcp.LogObserver{Logger: logger},
//	})
//	err := srv.ServeStdio(ctx, os.Stdin, os.Stdout)
package mcp
