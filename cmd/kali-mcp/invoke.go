package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

func newInvokeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <operation> [key=value | key:=json]...",
		Short: "Run one operation and print its result",
		Long: "Run one operation outside of an MCP session. key=value passes a string, " +
			"key:=json passes a JSON value such as a number, boolean or list.",
		Example: "  kali-mcp invoke nmap_port_scan target=scanme.nmap.org ports=22,80\n" +
			"  kali-mcp invoke sslscan_scan target=example.com port:=8443",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			cfg, logger, err := root.load(os.Stderr)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger, false)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			text, err := a.catalog.Invoke(ctx, args[0], params)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

// parseParams turns key=value and key:=json arguments into invocation
// parameters.
func parseParams(args []string) (map[string]any, error) {
	params := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" || key == ":" {
			return nil, toolerr.Invalidf("parameter %q is not key=value", arg)
		}
		if raw, isJSON := strings.CutSuffix(key, ":"); isJSON {
			var decoded any
			if err := json.Unmarshal([]byte(value), &decoded); err != nil {
				return nil, toolerr.Invalidf("parameter %s is not valid JSON: %v", raw, err)
			}
			key = raw
			params[key] = decoded
			continue
		}
		params[key] = value
	}
	return params, nil
}
