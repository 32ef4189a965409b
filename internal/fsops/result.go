// ABOUTME: Uniform outcome type returned by every filesystem operation.
// ABOUTME: Failures are values here, never errors or panics crossing the boundary.

package fsops

// Result is the payload every operation returns. It is serialized verbatim into the
// text block of a tools/call response, so the JSON shape is part of the wire contract.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// Succeeded builds a successful Result.
func Succeeded(message string, data map[string]any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Failed builds a failed Result. Data is always null for failures.
func Failed(message string) Result {
	return Result{Success: false, Message: message}
}

// Failure prefixes per operation. Every failed Result's message starts with one.
const (
	ReadFailure   = "Failed to read file"
	WriteFailure  = "Failed to write file"
	AppendFailure = "Failed to append to file"
	UpdateFailure = "Failed to update file"
	DeleteFailure = "Failed to delete file"
	ListFailure   = "Failed to list directory"
	MkdirFailure  = "Failed to create directory"
)

// Missing builds the failure for an absent argument, e.g.
// "Failed to update file: replace is required".
func Missing(prefix, name string) Result {
	return Failed(prefix + ": " + name + " is required")
}

func fail(prefix string, err error) Result {
	return Failed(prefix + ": " + err.Error())
}
