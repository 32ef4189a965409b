// Package fsops implements the local filesystem operations behind the MCP tools.
//
// Every operation returns a Result and never an error or a panic. A Result is
// serialized as-is into the text block of a tools/call response:
//
//	{"success": true, "message": "File read successfully: notes.txt", "data": {...}}
//	{"success": false, "message": "Failed to read file: File not found: notes.txt", "data": null}
//
// A failed Result's message always starts with the operation's prefix
// (ReadFailure, WriteFailure, AppendFailure, UpdateFailure, DeleteFailure,
// ListFailure, MkdirFailure) followed by ": " and the cause. Missing paths are
// reported as "File not found: P" or "Directory not found: P", an empty path as
// ErrEmptyPath, and an argument the caller never sent as "<name> is required"
// (see Missing).
//
// Relative paths resolve against the process working directory. Ops holds no
// state, so a single value serves concurrent callers; each call opens and closes
// its own handles.
package fsops
