// ABOUTME: Wires config, logger, call ledger and MCP server for the CLI commands
// ABOUTME: The ledger is opened only when database.path is configured

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/2389/crud-mcp/internal/config"
	"github.com/2389/crud-mcp/internal/fsops"
	"github.com/2389/crud-mcp/internal/mcp"
	"github.com/2389/crud-mcp/internal/store"
	"github.com/2389/crud-mcp/internal/tools"
)

type app struct {
	cfg        *config.Config
	configPath string // empty when running on defaults
	logger     *slog.Logger
	ledger     store.CallStore
}

// loadApp resolves and loads config, installs the logger as slog's default,
// and opens the ledger if one is configured.
func loadApp(configFlag string, logOut io.Writer) (*app, error) {
	cfg, path, err := config.LoadResolved(configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, logOut)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, configPath: path, logger: logger}

	if dbPath := cfg.DatabasePath(); dbPath != "" {
		ledger, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("opening call ledger: %w", err)
		}
		a.ledger = ledger
		logger.Debug("call ledger enabled", "path", dbPath)
	}

	return a, nil
}

// newServer builds the MCP server over the local filesystem.
func (a *app) newServer() (*mcp.Server, error) {
	registry, err := tools.NewRegistry(fsops.New())
	if err != nil {
		return nil, fmt.Errorf("building tool registry: %w", err)
	}

	dispatcher, err := mcp.NewDispatcher(registry, mcp.DefaultServerInfo)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	observers := mcp.Observers{mcp.LogObserver{Logger: a.logger}}
	if a.ledger != nil {
		observers = append(observers, mcp.LedgerObserver{Store: a.ledger, Logger: a.logger})
	}

	return mcp.NewServer(mcp.Config{
		Dispatcher:   dispatcher,
		Logger:       a.logger,
		Observer:     observers,
		MaxBodyBytes: a.cfg.Server.MaxBodyBytes,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	})
}

func (a *app) Close() error {
	if a.ledger == nil {
		return nil
	}
	return a.ledger.Close()
}
