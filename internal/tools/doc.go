// Package tools defines the fixed catalog of filesystem tools offered over MCP.
//
// The catalog is built once by NewRegistry and never changes. tools/list
// returns the descriptors in this order:
//
//   - read_file(filepath)
//   - write_file(filepath, content)
//   - append_file(filepath, content)
//   - update_file(filepath, find, replace)
//   - delete_file(filepath)
//   - list_files(dirpath)
//   - create_directory(dirpath)
//
// Input schemas are advertised, not enforced: a missing key decodes to an
// empty string and the operation reports the failure. Arguments of the wrong
// JSON type fail decoding with an *ArgumentError.
package tools
