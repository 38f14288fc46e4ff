package tools

import (
	"context"

	"github.com/tb0hdan/kali-mcp/pkg/server"
)

type Tool interface {
	Register(srv *server.Server) error
}

// Invocable is a Tool that runs one external tool and can also be called
// in-process by name, outside of an MCP session.
type Invocable interface {
	Tool
	OperationName() string
	ToolID() string
	Invoke(ctx context.Context, params map[string]any) (string, error)
}
