// ABOUTME: Entry point for crud-mcp, an MCP server exposing local file tools
// ABOUTME: Serves stdio by default; web, tools and history are subcommands

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var version = "dev"

const banner = `
                         _
  ___ _ __ _   _  __| |      _ __ ___   ___ _ __
 / __| '__| | | |/ _' |_____| '_ ' _ \ / __| '_ \
| (__| |  | |_| | (_| |_____| | | | | | (__| |_) |
 \___|_|   \__,_|\__,_|     |_| |_| |_|\___| .__/
                                           |_|
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "crud-mcp",
		Short: "MCP server exposing local file read/write/update/delete tools",
		Long: `crud-mcp serves seven filesystem tools over the Model Context Protocol.

With no subcommand it speaks newline-delimited JSON-RPC on stdin/stdout,
which is how MCP clients launch it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStdio(cmd, configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default $XDG_CONFIG_HOME/crud-mcp/config.yaml, or $CRUD_MCP_CONFIG)")

	root.AddCommand(
		newStdioCmd(&configPath),
		newWebCmd(&configPath),
		newToolsCmd(),
		newHistoryCmd(&configPath),
	)
	return root
}
