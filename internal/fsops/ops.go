// ABOUTME: The seven filesystem operations exposed as MCP tools.
// ABOUTME: Each call uses its own handles and reports failures inside the Result.

package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrEmptyPath is reported when a tool is invoked without its path argument.
var ErrEmptyPath = errors.New("path must not be empty")

// ErrEmptyFind is reported by UpdateFile when the search string is empty.
var ErrEmptyFind = errors.New("find string must not be empty")

// ErrNotUTF8 is reported by ReadFile for binary content.
var ErrNotUTF8 = errors.New("file content is not valid UTF-8")

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Ops implements the filesystem capabilities against the local disk. Relative paths
// resolve against the process working directory. The zero value is ready to use and
// holds no state, so one Ops can serve concurrent callers.
type Ops struct{}

// New returns an Ops.
func New() *Ops {
	return &Ops{}
}

// ReadFile returns the file's content, byte size and absolute path.
func (o *Ops) ReadFile(path string) Result {
	if path == "" {
		return fail(ReadFailure, ErrEmptyPath)
	}
	info, err := os.Stat(path)
	if err != nil {
		return failPath(ReadFailure, "File", path, err)
	}
	if info.IsDir() {
		return fail(ReadFailure, fmt.Errorf("Is a directory: %s", path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fail(ReadFailure, err)
	}
	if !utf8.Valid(content) {
		return fail(ReadFailure, ErrNotUTF8)
	}

	return Succeeded("File read successfully: "+path, map[string]any{
		"content": string(content),
		"size":    len(content),
		"path":    absPath(path),
	})
}

// WriteFile replaces the file's content, creating parent directories as needed.
func (o *Ops) WriteFile(path, content string) Result {
	if path == "" {
		return fail(WriteFailure, ErrEmptyPath)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fail(WriteFailure, err)
	}
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return fail(WriteFailure, err)
	}

	return Succeeded("File written successfully: "+path, map[string]any{
		"path": absPath(path),
		"size": len(content),
	})
}

// AppendFile adds content at the end of the file, creating it and its parents if needed.
func (o *Ops) AppendFile(path, content string) Result {
	if path == "" {
		return fail(AppendFailure, ErrEmptyPath)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fail(AppendFailure, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fail(AppendFailure, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fail(AppendFailure, err)
	}
	if err := f.Close(); err != nil {
		return fail(AppendFailure, err)
	}

	return Succeeded("Content appended successfully: "+path, map[string]any{
		"path":          absPath(path),
		"appended_size": len(content),
	})
}

// UpdateFile replaces every occurrence of find with replace. When find does not occur
// the file is left untouched and the result reports zero replacements.
func (o *Ops) UpdateFile(path, find, replace string) Result {
	if path == "" {
		return fail(UpdateFailure, ErrEmptyPath)
	}
	if find == "" {
		return fail(UpdateFailure, ErrEmptyFind)
	}
	info, err := os.Stat(path)
	if err != nil {
		return failPath(UpdateFailure, "File", path, err)
	}
	if info.IsDir() {
		return fail(UpdateFailure, fmt.Errorf("Is a directory: %s", path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fail(UpdateFailure, err)
	}
	content := string(raw)

	count := strings.Count(content, find)
	if count == 0 {
		return Succeeded(fmt.Sprintf("No changes made: '%s' not found in %s", find, path), map[string]any{
			"replacements": 0,
		})
	}

	updated := strings.ReplaceAll(content, find, replace)
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fail(UpdateFailure, err)
	}

	return Succeeded("File updated successfully: "+path, map[string]any{
		"path":         absPath(path),
		"replacements": count,
	})
}

// DeleteFile removes a regular file. Directories are refused.
func (o *Ops) DeleteFile(path string) Result {
	if path == "" {
		return fail(DeleteFailure, ErrEmptyPath)
	}
	info, err := os.Lstat(path)
	if err != nil {
		return failPath(DeleteFailure, "File", path, err)
	}
	if info.IsDir() {
		return fail(DeleteFailure, fmt.Errorf("Not a file: %s", path))
	}
	if err := os.Remove(path); err != nil {
		return fail(DeleteFailure, err)
	}

	return Succeeded("File deleted successfully: "+path, map[string]any{
		"path": absPath(path),
	})
}

// Item describes one directory entry returned by ListFiles.
type Item struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     *int64 `json:"size"`
	Modified string `json:"modified"`
}

// ListFiles returns the entries of a directory sorted by name. Entries that cannot be
// stat'ed (broken links, permission errors) are skipped.
func (o *Ops) ListFiles(dir string) Result {
	if dir == "" {
		return fail(ListFailure, ErrEmptyPath)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return failPath(ListFailure, "Directory", dir, err)
	}
	if !info.IsDir() {
		return fail(ListFailure, fmt.Errorf("Not a directory: %s", dir))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fail(ListFailure, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		// Stat follows symlinks so a link to a directory lists as a directory
		st, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		item := Item{
			Name:     entry.Name(),
			Type:     "file",
			Modified: st.ModTime().UTC().Format(time.RFC3339Nano),
		}
		if st.IsDir() {
			item.Type = "directory"
		} else {
			size := st.Size()
			item.Size = &size
		}
		items = append(items, item)
	}

	return Succeeded("Directory listed successfully: "+dir, map[string]any{
		"path":  absPath(dir),
		"items": items,
		"count": len(items),
	})
}

// CreateDirectory creates the directory and any missing parents. An existing
// directory is not an error.
func (o *Ops) CreateDirectory(dir string) Result {
	if dir == "" {
		return fail(MkdirFailure, ErrEmptyPath)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fail(MkdirFailure, err)
	}

	return Succeeded("Directory created successfully: "+dir, map[string]any{
		"path": absPath(dir),
	})
}

// failPath turns a stat error into a failure, naming missing paths the way callers
// expect ("File not found: x").
func failPath(prefix, kind, path string, err error) Result {
	if errors.Is(err, fs.ErrNotExist) {
		return fail(prefix, fmt.Errorf("%s not found: %s", kind, path))
	}
	return fail(prefix, err)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
