package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newStdioCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin and stdout",
		Long:  "Serve a single MCP session over stdin and stdout. Logs go to stderr so they do not corrupt the protocol stream.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(os.Stderr)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger, true)
			if err != nil {
				logger.Error().Err(err).Msg("startup failed")
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().Msgf("%s serving on stdio", ServiceName)
			runErr := a.srv.Run(ctx, &mcp.StdioTransport{})

			if err := a.srv.Shutdown(context.Background()); err != nil {
				logger.Error().Msgf("%s shutdown error: %v", ServiceName, err)
			}
			if ctx.Err() != nil {
				return nil
			}
			return runErr
		},
	}
}
