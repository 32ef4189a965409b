// ABOUTME: Fixed catalog of the seven filesystem tools and their JSON schemas.
// ABOUTME: Resolves a tool by name and decodes its arguments into a typed value.

package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/2389/crud-mcp/internal/fsops"
)

// ErrInvalidArguments indicates tools/call arguments that could not be decoded into
// the tool's argument shape (not an object, or a field of the wrong JSON type).
var ErrInvalidArguments = errors.New("invalid arguments")

// Capabilities is what the registry needs from the filesystem layer. Implementations
// must report every failure inside the returned Result.
type Capabilities interface {
	ReadFile(path string) fsops.Result
	WriteFile(path, content string) fsops.Result
	AppendFile(path, content string) fsops.Result
	UpdateFile(path, find, replace string) fsops.Result
	DeleteFile(path string) fsops.Result
	ListFiles(dir string) fsops.Result
	CreateDirectory(dir string) fsops.Result
}

// Descriptor is the tools/list entry for one tool.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ArgumentError reports arguments that failed to decode for a tool.
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidArguments) hold.
func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArguments }

// Tool is a descriptor bound to the capability it invokes.
type Tool struct {
	Descriptor Descriptor
	decode     func(json.RawMessage) (Args, error)
	caps       Capabilities
}

// Name returns the tool's registry name.
func (t *Tool) Name() string {
	return t.Descriptor.Name
}

// Decode converts raw tools/call arguments into the tool's typed arguments.
// Absent or null arguments decode to the zero value. Missing paths stay empty and
// are rejected by the capability; missing content or replace text fails in Invoke.
func (t *Tool) Decode(raw json.RawMessage) (Args, error) {
	args, err := t.decode(raw)
	if err != nil {
		return nil, &ArgumentError{Tool: t.Descriptor.Name, Err: err}
	}
	return args, nil
}

// Call decodes the arguments and invokes the capability. A non-nil error means the
// call never reached the filesystem; operation failures come back in the Result.
func (t *Tool) Call(raw json.RawMessage) (fsops.Result, error) {
	args, err := t.Decode(raw)
	if err != nil {
		return fsops.Result{}, err
	}
	return args.Invoke(t.caps), nil
}

// Registry is the immutable tool catalog. It is safe for concurrent use.
type Registry struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewRegistry builds the catalog bound to caps.
func NewRegistry(caps Capabilities) (*Registry, error) {
	if caps == nil {
		return nil, errors.New("capabilities are required")
	}

	r := &Registry{byName: make(map[string]*Tool, len(catalog))}
	for _, entry := range catalog {
		if _, exists := r.byName[entry.name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", entry.name)
		}
		if !json.Valid([]byte(entry.schema)) {
			return nil, fmt.Errorf("invalid input schema for %q", entry.name)
		}
		tool := &Tool{
			Descriptor: Descriptor{
				Name:        entry.name,
				Description: entry.description,
				InputSchema: json.RawMessage(entry.schema),
			},
			decode: entry.decode,
			caps:   caps,
		}
		r.tools = append(r.tools, tool)
		r.byName[entry.name] = tool
	}
	return r, nil
}

// Describe returns every descriptor in catalog order. The slice is a copy.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, len(r.tools))
	for i, t := range r.tools {
		d := t.Descriptor
		d.InputSchema = slices.Clone(d.InputSchema)
		out[i] = d
	}
	return out
}

// Resolve finds a tool by exact name.
func (r *Registry) Resolve(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns the tool names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Descriptor.Name
	}
	return names
}

func decodeArgs[T Args](raw json.RawMessage) (Args, error) {
	var args T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return args, nil
	}
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, err
	}
	return args, nil
}
