// Package store provides the call ledger for crud-mcp using SQLite.
//
// Every request the MCP server handles, on either transport, can be appended
// as a CallRecord:
//
//   - call_id: UUID generated per handled request
//   - transport: "stdio" or "http"
//   - method, tool, rpc_id: what was asked
//   - error_code: set for protocol-level errors (-32601, -1)
//   - success, message: the filesystem operation outcome when a tool ran
//   - duration, ts: timing
//
// ListCalls returns records newest first. The limit defaults to 100 and is
// capped at 1000.
//
// # SQLite Configuration
//
// The store uses modernc.org/sqlite (pure Go) with WAL mode so concurrent
// HTTP handlers can append while the history command reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;
//
// Database file locations:
//
//   - Default: $XDG_DATA_HOME/crud-mcp/calls.db
//   - Disabled: empty database.path in config
//
// # Testing
//
// Use NewMockStore() for unit tests that need a CallStore without SQLite.
package store
