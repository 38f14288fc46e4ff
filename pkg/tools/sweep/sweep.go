// Package sweep runs a fixed set of quick, mostly passive operations against
// one target in parallel and merges their output into a single report.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
	"github.com/tb0hdan/kali-mcp/pkg/types"
	"golang.org/x/sync/errgroup"
)

const (
	reportLineWidth    = 78
	toolName           = "recon_sweep"
	defaultTLSPort     = 443
	defaultConcurrency = 3
)

const (
	statusSuccess = "SUCCESS"
	statusFailed  = "FAILED"
	statusSkipped = "SKIPPED"
)

type Input struct {
	tools.Page
	Target      string   `json:"target" jsonschema:"domain name or IP address" validate:"required,noflag,safearg,hostname|ip"`
	Steps       []string `json:"steps,omitempty" jsonschema:"operations to run (default all): whois_lookup, dig_dns_lookup, whatweb_analyze, wafw00f_detect, sslscan_scan" validate:"max=5,dive,oneof=whois_lookup dig_dns_lookup whatweb_analyze wafw00f_detect sslscan_scan"`
	HTTPS       bool     `json:"https,omitempty" jsonschema:"use https for the web steps"`
	TLSPort     int      `json:"tls_port,omitempty" jsonschema:"port for the TLS step (default 443)" validate:"min=0,max=65535"`
	Concurrency int      `json:"concurrency,omitempty" jsonschema:"steps run at once (default from server configuration)" validate:"min=0,max=16"`
}

type target struct {
	host    string
	url     string
	tlsPort int
}

type step struct {
	operation string
	params    func(target) map[string]any
}

// steps lists every operation a sweep can run, in report order.
var steps = []step{
	{"whois_lookup", func(t target) map[string]any { return map[string]any{"domain": t.host} }},
	{"dig_dns_lookup", func(t target) map[string]any { return map[string]any{"domain": t.host} }},
	{"whatweb_analyze", func(t target) map[string]any { return map[string]any{"url": t.url} }},
	{"wafw00f_detect", func(t target) map[string]any { return map[string]any{"url": t.url} }},
	{"sslscan_scan", func(t target) map[string]any { return map[string]any{"target": t.host, "port": t.tlsPort} }},
}

// stepResult holds the result from a single step with timing.
type stepResult struct {
	Name     string
	Status   string
	Output   string
	Duration time.Duration
	Error    error
}

// invoker runs installed operations by name. *tools.Catalog satisfies it.
type invoker interface {
	Lookup(name string) (tools.Invocable, bool)
	Invoke(ctx context.Context, name string, params map[string]any) (string, error)
}

type Tool struct {
	logger      zerolog.Logger
	catalog     invoker
	concurrency int
	now         func() time.Time
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name: toolName,
		Description: "Runs whois, DNS, web fingerprinting, WAF detection and TLS scans against one target in parallel " +
			"and merges the results into one report. Steps whose tools are not installed are skipped.",
	}

	mcp.AddTool(&srv.Server, tool, tools.WrapToolHandler(srv.Storage(), toolName, t.SweepHandler))
	t.logger.Debug().Msgf("%s tool registered", toolName)

	return nil
}

func (t *Tool) SweepHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := tools.Validate(input); err != nil {
		return nil, nil, err
	}

	tgt := newTarget(input)
	selected := selectSteps(input.Steps)
	concurrency := t.concurrency
	if input.Concurrency > 0 {
		concurrency = input.Concurrency
	}

	t.logger.Info().Msgf("Starting recon sweep on %s with %d steps", tgt.host, len(selected))
	results := t.runSteps(ctx, tgt, selected, concurrency)
	if err := ctx.Err(); err != nil {
		return nil, nil, toolerr.Canceled(toolName, err)
	}

	report := t.mergeResults(tgt, results)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: tools.Paginate(report, input.Paging())},
		},
	}, nil, nil
}

func newTarget(input Input) target {
	scheme := "http"
	if input.HTTPS {
		scheme = "https"
	}
	host := input.Target
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := input.TLSPort
	if port == 0 {
		port = defaultTLSPort
	}
	return target{
		host:    input.Target,
		url:     (&url.URL{Scheme: scheme, Host: host, Path: "/"}).String(),
		tlsPort: port,
	}
}

func selectSteps(names []string) []step {
	if len(names) == 0 {
		return steps
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	selected := make([]step, 0, len(names))
	for _, s := range steps {
		if wanted[s.operation] {
			selected = append(selected, s)
		}
	}
	return selected
}

// runSteps runs the steps with at most concurrency of them at once. Results
// keep the step order. A failing step never stops the others.
func (t *Tool) runSteps(ctx context.Context, tgt target, selected []step, concurrency int) []stepResult {
	results := make([]stepResult, len(selected))

	var group errgroup.Group
	group.SetLimit(max(concurrency, 1))
	for i, s := range selected {
		group.Go(func() error {
			results[i] = t.runStep(ctx, tgt, s)
			return nil
		})
	}
	_ = group.Wait()

	return results
}

func (t *Tool) runStep(ctx context.Context, tgt target, s step) stepResult {
	result := stepResult{Name: s.operation}

	if _, ok := t.catalog.Lookup(s.operation); !ok {
		result.Status = statusSkipped
		result.Output = "operation is not installed on this server"
		t.logger.Warn().Msgf("%s not installed, skipped", s.operation)
		return result
	}

	params := s.params(tgt)
	params["max_lines"] = types.MaxAllowedLines

	start := time.Now()
	output, err := t.catalog.Invoke(ctx, s.operation, params)
	result.Duration = time.Since(start)
	result.Output = output

	switch {
	case errors.Is(err, toolerr.ErrToolUnavailable):
		result.Status = statusSkipped
		result.Output = err.Error()
		t.logger.Warn().Msgf("%s skipped: %v", s.operation, err)
	case err != nil:
		result.Status = statusFailed
		result.Error = err
		t.logger.Warn().Err(err).Msgf("%s failed", s.operation)
	default:
		result.Status = statusSuccess
		t.logger.Info().Dur("duration", result.Duration).Msgf("%s completed", s.operation)
	}
	return result
}

// mergeResults merges step results into a unified report.
func (t *Tool) mergeResults(tgt target, results []stepResult) string {
	var builder strings.Builder

	separator := "=" + strings.Repeat("=", reportLineWidth)
	dashLine := "-" + strings.Repeat("-", reportLineWidth)

	builder.WriteString(separator + "\n")
	builder.WriteString("                    RECON SWEEP REPORT\n")
	builder.WriteString(separator + "\n")
	builder.WriteString(fmt.Sprintf("Target: %s\n", tgt.host))
	builder.WriteString(fmt.Sprintf("Date: %s\n", t.now().UTC().Format(time.RFC1123)))
	builder.WriteString(separator + "\n\n")

	builder.WriteString("SWEEP SUMMARY\n")
	builder.WriteString(dashLine + "\n")

	var totalDuration time.Duration
	counts := map[string]int{}
	for _, result := range results {
		totalDuration += result.Duration
		counts[result.Status]++
		builder.WriteString(fmt.Sprintf("  %-16s: %s (%.2fs)\n", result.Name, result.Status, result.Duration.Seconds()))
	}

	builder.WriteString(fmt.Sprintf("\nTotal steps: %d | Successful: %d | Failed: %d | Skipped: %d\n",
		len(results), counts[statusSuccess], counts[statusFailed], counts[statusSkipped]))
	builder.WriteString(fmt.Sprintf("Total step time: %.2fs\n", totalDuration.Seconds()))
	builder.WriteString("\n")

	for _, result := range results {
		builder.WriteString(separator + "\n")
		builder.WriteString(fmt.Sprintf("                    %s RESULTS\n", strings.ToUpper(result.Name)))
		builder.WriteString(separator + "\n\n")

		switch result.Status {
		case statusFailed:
			builder.WriteString(fmt.Sprintf("ERROR: %s\n", result.Error.Error()))
		case statusSkipped:
			builder.WriteString(fmt.Sprintf("SKIPPED: %s\n", result.Output))
		default:
			builder.WriteString(strings.TrimSpace(result.Output))
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(separator + "\n")
	builder.WriteString("                    END OF REPORT\n")
	builder.WriteString(separator + "\n")

	return builder.String()
}

// New creates the sweep tool. It invokes operations through catalog, so the
// operations it runs must be installed in the same catalog.
func New(logger zerolog.Logger, catalog *tools.Catalog, concurrency int) tools.Tool {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Tool{
		logger:      logger.With().Str("tool", toolName).Logger(),
		catalog:     catalog,
		concurrency: concurrency,
		now:         time.Now,
	}
}
