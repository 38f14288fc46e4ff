package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

const readHeaderTimeout = 10 * time.Second

type serveOptions struct {
	bind          string
	database      string
	onlyAvailable bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(os.Stdout)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = opts.bind
			}
			if cmd.Flags().Changed("db") {
				cfg.Server.Database = opts.database
			}
			if cmd.Flags().Changed("only-available") {
				cfg.Server.OnlyAvailable = opts.onlyAvailable
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			a, err := newApp(cfg, logger, true)
			if err != nil {
				logger.Error().Err(err).Msg("startup failed")
				return err
			}
			return a.serve(cmd.Context(), root.debug)
		},
	}

	cmd.Flags().StringVar(&opts.bind, "bind", "", "bind address (host:port), default localhost:8989")
	cmd.Flags().StringVar(&opts.database, "db", "", "SQLite audit log path, empty disables auditing")
	cmd.Flags().BoolVar(&opts.onlyAvailable, "only-available", false, "only register tools whose binary is installed")
	return cmd
}

func (a *app) serve(parent context.Context, debug bool) error {
	if parent == nil {
		parent = context.Background()
	}
	signalCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stateless mode avoids "session not found" errors after server restart.
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return &a.srv.Server
	}, &mcp.StreamableHTTPOptions{
		Stateless: a.cfg.Server.Stateless,
	})

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	if debug {
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
	}
	mux.HandleFunc("/", a.serviceInfo)

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Bind,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	a.logger.Info().Msgf("%s starting on address %s", ServiceName, a.cfg.Server.Bind)
	a.logger.Info().Msgf("MCP endpoint available at: http://%s/mcp", a.cfg.Server.Bind)

	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-signalCtx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("%s failed to start: %w", ServerName, err)
		a.logger.Error().Err(err).Msgf("%s failed to start", ServerName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		a.logger.Error().Msgf("HTTP shutdown error: %v", err)
	}
	if err := a.srv.Shutdown(ctx); err != nil {
		a.logger.Error().Msgf("%s shutdown error: %v", ServiceName, err)
	} else {
		a.logger.Info().Msgf("%s shutdown complete", ServiceName)
	}
	return runErr
}

func (a *app) serviceInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"service": ServiceName,
		"version": version(),
		"tools":   len(a.catalog.Names()),
		"endpoints": map[string]string{
			"mcp": "/mcp",
		},
	})
}
