// Package config handles configuration loading for crud-mcp.
//
// # Configuration File
//
// Configuration is read from a YAML file, or from TOML when the file name ends
// in .toml. Every setting has a default, so the file is optional:
//
//	server:
//	  http_addr: "127.0.0.1:8000"   # used by `crud-mcp web`
//	  max_body_bytes: 10485760
//	  read_timeout: "30s"
//	  write_timeout: "30s"
//
//	database:
//	  path: ""                      # empty disables the call ledger
//	                                # "default" uses $XDG_DATA_HOME/crud-mcp/calls.db
//
//	logging:
//	  level: "info"                 # debug, info, warn, error
//	  format: "text"                # text, json
//
// The same settings in TOML:
//
//	[server]
//	http_addr = "127.0.0.1:8000"
//
//	[database]
//	path = "default"
//
// # File Location
//
// The file is chosen in this order:
//
//  1. the --config flag
//  2. the CRUD_MCP_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/crud-mcp/config.yaml
//
// A missing file at the default location is not an error.
//
// # Environment Variable Expansion
//
// Values can reference environment variables using ${VAR_NAME} syntax:
//
//	database:
//	  path: "${HOME}/.crud-mcp/calls.db"
//
// # Duration Parsing
//
// Timeouts accept Go duration strings: "30s", "2m", "1h30m".
//
// # Validation
//
// Load validates the result: the HTTP address must be host:port, the body
// limit and timeouts positive, and the logging level and format known values.
package config
