// ABOUTME: stdio and web commands: run the MCP server on a transport
// ABOUTME: Logs go to stderr in both modes; stdout is reserved for protocol output in stdio

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStdioCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin/stdout (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStdio(cmd, *configPath)
		},
	}
}

func runStdio(cmd *cobra.Command, configPath string) error {
	a, err := loadApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := a.newServer()
	if err != nil {
		return err
	}

	a.logger.Info("starting crud-mcp", "transport", "stdio", "version", version, "config", a.configPath)

	ctx := cmd.Context()
	done := make(chan error, 1)
	go func() {
		done <- srv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}()

	return waitStdio(ctx, done, a.logger, stdioDrainTimeout)
}

// stdioDrainTimeout bounds how long shutdown waits for an in-flight request.
const stdioDrainTimeout = 5 * time.Second

// waitStdio waits for the session to end. A read blocked on stdin does not see
// cancellation, so on ctx.Done it waits up to drain for the session to notice
// before returning; the caller closes the ledger after that.
func waitStdio(ctx context.Context, done <-chan error, logger *slog.Logger, drain time.Duration) error {
	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	select {
	case <-done:
	case <-time.After(drain):
		logger.Warn("stdio session still blocked on input at shutdown")
	}
	return nil
}

func newWebCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve MCP over HTTP for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWeb(cmd, *configPath, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.http_addr)")
	return cmd
}

func runWeb(cmd *cobra.Command, configPath, addr string) error {
	a, err := loadApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if addr == "" {
		addr = a.cfg.Server.HTTPAddr
	}

	srv, err := a.newServer()
	if err != nil {
		return err
	}

	printWebBanner(cmd, a, addr)

	a.logger.Info("starting crud-mcp", "transport", "http", "addr", addr, "version", version)
	return srv.ListenAndServe(cmd.Context(), addr)
}

func printWebBanner(cmd *cobra.Command, a *app, addr string) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Fprint(out, banner)
	gray.Fprintf(out, "    version: %s\n\n", version)

	configPath := a.configPath
	if configPath == "" {
		configPath = "(defaults)"
	}
	ledger := a.cfg.DatabasePath()
	if ledger == "" {
		ledger = "(disabled)"
	}

	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Config:    %s\n", configPath)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "HTTP:      http://%s/mcp/{initialize,tools/list,tools/call}\n", addr)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Ledger:    %s\n\n", ledger)
}
