// ABOUTME: tools and history commands: print the tool catalog and recent ledger entries
// ABOUTME: Neither command starts a transport

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/crud-mcp/internal/fsops"
	"github.com/2389/crud-mcp/internal/mcp"
	"github.com/2389/crud-mcp/internal/store"
	"github.com/2389/crud-mcp/internal/tools"
)

// errLedgerDisabled is returned by history when no database is configured.
var errLedgerDisabled = errors.New("call ledger is disabled: set database.path in the config file")

func newToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools this server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := tools.NewRegistry(fsops.New())
			if err != nil {
				return err
			}
			return printTools(cmd.OutOrStdout(), registry.Describe(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tools/list result as JSON")
	return cmd
}

func printTools(w io.Writer, descs []tools.Descriptor, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(mcp.ListToolsResult{Tools: descs}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	for _, d := range descs {
		var schema struct {
			Required []string `json:"required"`
		}
		if err := json.Unmarshal(d.InputSchema, &schema); err != nil {
			return fmt.Errorf("reading schema for %s: %w", d.Name, err)
		}
		cyan.Fprintf(w, "%-18s", d.Name)
		gray.Fprintf(w, "(%s) ", strings.Join(schema.Required, ", "))
		fmt.Fprintln(w, d.Description)
	}
	return nil
}

func newHistoryCmd(configPath *string) *cobra.Command {
	var (
		filter store.CallFilter
		since  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent calls from the call ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if a.ledger == nil {
				return errLedgerDisabled
			}
			if since > 0 {
				t := time.Now().Add(-since)
				filter.Since = &t
			}
			return showHistory(cmd.Context(), cmd.OutOrStdout(), a.ledger, filter)
		},
	}
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "max calls to show (max 1000)")
	cmd.Flags().StringVar(&filter.Tool, "tool", "", "only calls to this tool")
	cmd.Flags().StringVar(&filter.Transport, "transport", "", "only calls over this transport (stdio, http)")
	cmd.Flags().BoolVar(&filter.FailedOnly, "failed", false, "only protocol errors and failed operations")
	cmd.Flags().DurationVar(&since, "since", 0, "only calls within this long ago (e.g. 1h)")
	return cmd
}

func showHistory(ctx context.Context, w io.Writer, ledger store.CallStore, filter store.CallFilter) error {
	calls, err := ledger.ListCalls(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing calls: %w", err)
	}
	return printHistory(w, calls)
}

func printHistory(w io.Writer, calls []store.CallRecord) error {
	if len(calls) == 0 {
		_, err := fmt.Fprintln(w, "no calls recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTRANSPORT\tMETHOD\tTOOL\tID\tSTATUS\tDURATION\tMESSAGE")
	for _, c := range calls {
		tool := c.Tool
		if tool == "" {
			tool = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Timestamp.Local().Format("2006-01-02 15:04:05"),
			c.Transport,
			c.Method,
			tool,
			c.RPCID,
			callStatus(c),
			c.Duration.Round(time.Microsecond),
			truncate(c.Message, 60),
		)
	}
	return tw.Flush()
}

func callStatus(c store.CallRecord) string {
	switch {
	case c.ErrorCode != nil:
		return color.RedString("error %d", *c.ErrorCode)
	case c.Success != nil && !*c.Success:
		return color.YellowString("failed")
	default:
		return color.GreenString("ok")
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
