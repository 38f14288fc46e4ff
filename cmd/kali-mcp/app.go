package main

import (
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/config"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/runner"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/storage"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
	"github.com/tb0hdan/kali-mcp/pkg/tools/enumeration"
	"github.com/tb0hdan/kali-mcp/pkg/tools/history"
	"github.com/tb0hdan/kali-mcp/pkg/tools/inventory"
	"github.com/tb0hdan/kali-mcp/pkg/tools/netrecon"
	"github.com/tb0hdan/kali-mcp/pkg/tools/osint"
	"github.com/tb0hdan/kali-mcp/pkg/tools/sslnet"
	"github.com/tb0hdan/kali-mcp/pkg/tools/subdomain"
	"github.com/tb0hdan/kali-mcp/pkg/tools/sweep"
	"github.com/tb0hdan/kali-mcp/pkg/tools/webanalysis"
	"github.com/tb0hdan/kali-mcp/pkg/tools/wireless"
)

// app is a fully wired server: registry, runner, optional audit storage and
// every tool installed in one catalog.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	srv       *server.Server
	catalog   *tools.Catalog
	inventory *inventory.Tool
}

// newApp wires the server from cfg. With withStorage false the audit log is
// not opened, which is what one-shot commands want.
func newApp(cfg *config.Config, logger zerolog.Logger, withStorage bool) (*app, error) {
	reg, err := registry.Default(cfg.ToolOverrides())
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	run := runner.New(logger,
		runner.WithDefaultTimeout(cfg.Runner.DefaultTimeout),
		runner.WithWaitDelay(cfg.Runner.WaitDelay),
	)

	var store storage.Storage
	if withStorage && cfg.Server.Database != "" {
		sqlite, err := storage.NewSQLiteStorage(storage.Config{
			DatabasePath: cfg.Server.Database,
			Debug:        logger.GetLevel() <= zerolog.DebugLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = sqlite
		logger.Info().Msgf("Database initialized at %s", cfg.Server.Database)
	}

	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: version(),
	}
	srv := server.NewServer(impl, reg, run, store)

	catalog := tools.NewCatalog(logger, tools.WithOnlyAvailable(cfg.Server.OnlyAvailable))
	inv := inventory.New(logger, catalog).(*inventory.Tool)

	toolList := operations(logger)
	toolList = append(toolList,
		history.New(logger),
		sweep.New(logger, catalog, cfg.Runner.SweepConcurrency),
		inv,
	)
	if err := installTools(logger, catalog, srv, toolList); err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}
	logger.Info().Msgf("%d operations installed for %d tools", len(catalog.Names()), reg.Len())

	return &app{
		cfg:       cfg,
		logger:    logger,
		srv:       srv,
		catalog:   catalog,
		inventory: inv,
	}, nil
}

// installTools installs toolList into catalog. Duplicate operation names are
// fatal; any other rejected tool is logged and left out.
func installTools(logger zerolog.Logger, catalog *tools.Catalog, srv *server.Server, toolList []tools.Tool) error {
	err := catalog.Install(srv, toolList...)
	if err == nil {
		return nil
	}
	if errors.Is(err, toolerr.ErrDuplicateIdentifier) {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	logger.Error().Msgf("Failed to register tools: %v", err)
	return nil
}

// operations returns every tool adapter operation.
func operations(logger zerolog.Logger) []tools.Tool {
	var all []tools.Tool
	for _, group := range [][]tools.Tool{
		netrecon.Operations(logger),
		subdomain.Operations(logger),
		webanalysis.Operations(logger),
		enumeration.Operations(logger),
		sslnet.Operations(logger),
		wireless.Operations(logger),
		osint.Operations(logger),
	} {
		all = append(all, group...)
	}
	return all
}
