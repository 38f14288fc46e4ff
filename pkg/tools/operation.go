package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/runner"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

// Command is the result of translating validated input into a process
// invocation.
type Command struct {
	Args []string
	// Subject names the target in the result heading.
	Subject string
	// Secrets are masked in the command line shown to callers and in logs.
	Secrets []string
	// Timeout overrides the operation timeout for this call when positive.
	Timeout time.Duration
}

// Operation is one MCP tool backed by one external binary. Build is a pure
// function from validated input to an argument vector; everything else
// (lookup, execution, formatting, auditing) is shared.
type Operation[In Pageable] struct {
	Name        string
	Tool        string
	Title       string
	Description string
	// Timeout overrides the descriptor default when positive.
	Timeout time.Duration
	Build   func(In) (Command, error)

	logger   zerolog.Logger
	registry *registry.Registry
	runner   *runner.Runner
}

// NewOperation attaches a logger to op.
func NewOperation[In Pageable](logger zerolog.Logger, op Operation[In]) *Operation[In] {
	op.logger = logger.With().Str("tool", op.Name).Logger()
	return &op
}

func (o *Operation[In]) OperationName() string {
	return o.Name
}

func (o *Operation[In]) ToolID() string {
	return o.Tool
}

func (o *Operation[In]) Register(srv *server.Server) error {
	if o.Name == "" || o.Tool == "" || o.Build == nil {
		return toolerr.Invalidf("operation %q is incomplete", o.Name)
	}
	descriptor, err := srv.Registry().Resolve(o.Tool)
	if err != nil {
		return fmt.Errorf("operation %s: %w", o.Name, err)
	}
	o.registry = srv.Registry()
	o.runner = srv.Runner()

	tool := &mcp.Tool{
		Name:        o.Name,
		Description: fmt.Sprintf("%s Runs %s.", o.Description, descriptor.Binary),
	}

	mcp.AddTool(&srv.Server, tool, WrapToolHandler(srv.Storage(), o.Name, o.Handle))
	o.logger.Debug().Msgf("%s tool registered", o.Name)

	return nil
}

// Handle serves MCP calls.
func (o *Operation[In]) Handle(ctx context.Context, _ *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Outcome, error) {
	text, outcome, err := o.run(ctx, input)
	if err != nil {
		return nil, outcome, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, outcome, nil
}

// Invoke decodes params into the operation input and runs it. Unknown
// parameter names are rejected.
func (o *Operation[In]) Invoke(ctx context.Context, params map[string]any) (string, error) {
	var input In
	if err := decodeParams(params, &input); err != nil {
		return "", toolerr.Invalid(err)
	}
	text, _, err := o.run(ctx, input)
	return text, err
}

func (o *Operation[In]) run(ctx context.Context, input In) (string, Outcome, error) {
	outcome := Outcome{Operation: o.Name, Tool: o.Tool}
	if o.runner == nil {
		return "", outcome, fmt.Errorf("operation %s is not registered", o.Name)
	}

	if err := Validate(input); err != nil {
		return "", outcome, err
	}
	cmd, err := o.Build(input)
	if err != nil {
		if !errors.Is(err, toolerr.ErrInvalidParameters) {
			err = toolerr.Invalid(err)
		}
		return "", outcome, err
	}

	descriptor, err := o.registry.Resolve(o.Tool)
	if err != nil {
		return "", outcome, err
	}
	timeout := descriptor.DefaultTimeout
	if o.Timeout > 0 {
		timeout = o.Timeout
	}
	if cmd.Timeout > 0 {
		timeout = cmd.Timeout
	}

	result, err := o.runner.Execute(ctx, runner.Request{
		Binary:  descriptor.Binary,
		Args:    cmd.Args,
		Timeout: timeout,
		Secrets: cmd.Secrets,
	})
	if err != nil {
		o.logger.Warn().Err(err).Str("kind", toolerr.KindOf(err)).Msg("invocation failed")
		return "", outcome, err
	}
	if !result.Success {
		o.logger.Info().Msgf("%s finished with %s", descriptor.Binary, result.ExitStatus())
	}

	return FormatResult(o.Title, cmd.Subject, result, input.Paging()), NewOutcome(o.Name, o.Tool, result), nil
}

func decodeParams(params map[string]any, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	return nil
}
