package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tb0hdan/kali-mcp/pkg/config"
)

type rootOptions struct {
	configPath string
	debug      bool
	console    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           ServerName,
		Short:         ServiceName,
		Long:          "kali-mcp exposes Kali Linux command line security tools as MCP tools over HTTP or stdio.",
		Version:       version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("%s Version: {{.Version}}\n", ServiceName))

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "debug mode")
	root.PersistentFlags().BoolVar(&opts.console, "log-console", false, "human readable log output")

	root.AddCommand(
		newServeCmd(opts),
		newStdioCmd(opts),
		newToolsCmd(opts),
		newInvokeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration and builds the logger. Command line flags win
// over the file.
func (o *rootOptions) load(out io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if o.debug {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
	if o.console {
		cfg.Log.Console = true
	}
	return cfg, newLogger(out, cfg.Log), nil
}

func newLogger(out io.Writer, cfg config.LogConfig) zerolog.Logger {
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)
	if level <= zerolog.DebugLevel {
		logger.Debug().Msg("debug mode enabled")
	}
	return logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Version: %s\n", ServiceName, version())
		},
	}
}
