// ABOUTME: Catalog entries and argument shapes for each filesystem tool.
// ABOUTME: Every tool has one Args type; Invoke maps it onto a capability call.

package tools

import (
	"encoding/json"

	"github.com/2389/crud-mcp/internal/fsops"
)

// Tool names.
const (
	ReadFile        = "read_file"
	WriteFile       = "write_file"
	AppendFile      = "append_file"
	UpdateFile      = "update_file"
	DeleteFile      = "delete_file"
	ListFiles       = "list_files"
	CreateDirectory = "create_directory"
)

// Args is the decoded argument set of one tool call. The concrete type identifies the tool.
type Args interface {
	Invoke(c Capabilities) fsops.Result
}

type ReadFileArgs struct {
	Filepath string `json:"filepath"`
}

func (a ReadFileArgs) Invoke(c Capabilities) fsops.Result { return c.ReadFile(a.Filepath) }

// Content and Replace are pointers because an empty string is a legitimate value
// while an absent one must not reach the filesystem.

type WriteFileArgs struct {
	Filepath string  `json:"filepath"`
	Content  *string `json:"content"`
}

func (a WriteFileArgs) Invoke(c Capabilities) fsops.Result {
	if a.Content == nil {
		return fsops.Missing(fsops.WriteFailure, "content")
	}
	return c.WriteFile(a.Filepath, *a.Content)
}

type AppendFileArgs struct {
	Filepath string  `json:"filepath"`
	Content  *string `json:"content"`
}

func (a AppendFileArgs) Invoke(c Capabilities) fsops.Result {
	if a.Content == nil {
		return fsops.Missing(fsops.AppendFailure, "content")
	}
	return c.AppendFile(a.Filepath, *a.Content)
}

type UpdateFileArgs struct {
	Filepath string  `json:"filepath"`
	Find     string  `json:"find"`
	Replace  *string `json:"replace"`
}

func (a UpdateFileArgs) Invoke(c Capabilities) fsops.Result {
	if a.Replace == nil {
		return fsops.Missing(fsops.UpdateFailure, "replace")
	}
	return c.UpdateFile(a.Filepath, a.Find, *a.Replace)
}

type DeleteFileArgs struct {
	Filepath string `json:"filepath"`
}

func (a DeleteFileArgs) Invoke(c Capabilities) fsops.Result { return c.DeleteFile(a.Filepath) }

type ListFilesArgs struct {
	Dirpath string `json:"dirpath"`
}

func (a ListFilesArgs) Invoke(c Capabilities) fsops.Result { return c.ListFiles(a.Dirpath) }

type CreateDirectoryArgs struct {
	Dirpath string `json:"dirpath"`
}

func (a CreateDirectoryArgs) Invoke(c Capabilities) fsops.Result {
	return c.CreateDirectory(a.Dirpath)
}

type catalogEntry struct {
	name        string
	description string
	schema      string
	decode      func(json.RawMessage) (Args, error)
}

// catalog order is the tools/list order.
var catalog = []catalogEntry{
	{
		name:        ReadFile,
		description: "Read the contents of a file",
		schema:      `{"type":"object","properties":{"filepath":{"type":"string","description":"Path of the file to read"}},"required":["filepath"]}`,
		decode:      decodeArgs[ReadFileArgs],
	},
	{
		name:        WriteFile,
		description: "Write content to a file (overwrites)",
		schema:      `{"type":"object","properties":{"filepath":{"type":"string","description":"Path of the file to write"},"content":{"type":"string","description":"File content"}},"required":["filepath","content"]}`,
		decode:      decodeArgs[WriteFileArgs],
	},
	{
		name:        AppendFile,
		description: "Append content to the end of a file",
		schema:      `{"type":"object","properties":{"filepath":{"type":"string","description":"Path of the file to append to"},"content":{"type":"string","description":"Content to append"}},"required":["filepath","content"]}`,
		decode:      decodeArgs[AppendFileArgs],
	},
	{
		name:        UpdateFile,
		description: "Find and replace text in a file",
		schema:      `{"type":"object","properties":{"filepath":{"type":"string","description":"Path of the file to modify"},"find":{"type":"string","description":"Text to find"},"replace":{"type":"string","description":"Replacement text"}},"required":["filepath","find","replace"]}`,
		decode:      decodeArgs[UpdateFileArgs],
	},
	{
		name:        DeleteFile,
		description: "Delete a file",
		schema:      `{"type":"object","properties":{"filepath":{"type":"string","description":"Path of the file to delete"}},"required":["filepath"]}`,
		decode:      decodeArgs[DeleteFileArgs],
	},
	{
		name:        ListFiles,
		description: "List the contents of a directory",
		schema:      `{"type":"object","properties":{"dirpath":{"type":"string","description":"Path of the directory to list"}},"required":["dirpath"]}`,
		decode:      decodeArgs[ListFilesArgs],
	},
	{
		name:        CreateDirectory,
		description: "Create a new directory",
		schema:      `{"type":"object","properties":{"dirpath":{"type":"string","description":"Path of the directory to create"}},"required":["dirpath"]}`,
		decode:      decodeArgs[CreateDirectoryArgs],
	},
}
