package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tb0hdan/kali-mcp/pkg/models"
	"github.com/tb0hdan/kali-mcp/pkg/storage"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

type auditFields struct {
	toolID      string
	commandLine string
	exitCode    *int
}

// auditable outputs contribute process details to the audit record.
type auditable interface {
	auditFields() auditFields
}

// WrapToolHandler wraps a tool handler to record every call in the audit log.
// With a nil store the handler is returned unchanged.
func WrapToolHandler[In, Out any](
	store storage.Storage,
	toolName string,
	handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error),
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error) {
	if store == nil {
		return handler
	}
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		startTime := time.Now()

		sessionID := ""
		if req != nil && req.Session != nil {
			sessionID = req.Session.ID()
		}

		inputJSON := RedactInput(input)

		result, output, err := handler(ctx, req, input)

		inv := &models.Invocation{
			SessionID:  sessionID,
			Operation:  toolName,
			InputJSON:  inputJSON,
			DurationMs: time.Since(startTime).Milliseconds(),
			Success:    err == nil,
		}
		if audited, ok := any(output).(auditable); ok {
			fields := audited.auditFields()
			inv.ToolID = fields.toolID
			inv.CommandLine = fields.commandLine
			inv.ExitCode = fields.exitCode
		}
		if err != nil {
			inv.ErrorKind = toolerr.KindOf(err)
			inv.ErrorMessage = err.Error()
		}

		// The record outlives the request, so it is written with a fresh context.
		go func() { //nolint:contextcheck
			_ = store.CreateInvocation(context.Background(), inv)
		}()

		return result, output, err
	}
}
