// Package inventory exposes the tool registry to MCP clients so an agent can
// see which tools exist, which are installed and which operations use them.
package inventory

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const toolName = "tool_catalog"

type Input struct {
	Category      string `json:"category,omitempty" jsonschema:"only list tools of this category" validate:"omitempty,oneof=network_recon subdomain_enum web_analysis enumeration ssl_network wireless osint"`
	AvailableOnly bool   `json:"available_only,omitempty" jsonschema:"only list tools whose binary is installed"`
}

type Entry struct {
	ID             string            `json:"id"`
	Binary         string            `json:"binary"`
	Description    string            `json:"description"`
	Category       registry.Category `json:"category"`
	DefaultTimeout string            `json:"default_timeout"`
	Available      bool              `json:"available"`
	Operations     []string          `json:"operations"`
}

// availability reports whether a binary can be run. *runner.Runner satisfies it.
type availability interface {
	CheckAvailability(binary string) bool
}

type Tool struct {
	logger   zerolog.Logger
	catalog  *tools.Catalog
	registry *registry.Registry
	checker  availability
}

func (t *Tool) Register(srv *server.Server) error {
	t.registry = srv.Registry()
	t.checker = srv.Runner()

	tool := &mcp.Tool{
		Name:        toolName,
		Description: "Lists the external tools this server knows about with their category, binary, default timeout, whether the binary is installed and the operations that use it.",
	}

	mcp.AddTool(&srv.Server, tool, t.CatalogHandler)
	t.logger.Debug().Msgf("%s tool registered", toolName)

	return nil
}

func (t *Tool) CatalogHandler(_ context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := tools.Validate(input); err != nil {
		return nil, nil, err
	}

	entries := t.Entries(registry.Category(input.Category), input.AvailableOnly)
	data, _ := json.MarshalIndent(map[string]any{
		"total": len(entries),
		"tools": entries,
	}, "", "  ")

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// Entries returns the registry contents ordered by tool ID. An empty category
// matches every tool.
func (t *Tool) Entries(category registry.Category, availableOnly bool) []Entry {
	var operations map[string][]string
	if t.catalog != nil {
		operations = t.catalog.OperationsByTool()
	}

	entries := make([]Entry, 0, t.registry.Len())
	for _, descriptor := range t.registry.List() {
		if category != "" && descriptor.Category != category {
			continue
		}
		available := t.checker.CheckAvailability(descriptor.Binary)
		if availableOnly && !available {
			continue
		}
		ops := operations[descriptor.ID]
		if ops == nil {
			ops = []string{}
		}
		entries = append(entries, Entry{
			ID:             descriptor.ID,
			Binary:         descriptor.Binary,
			Description:    descriptor.Description,
			Category:       descriptor.Category,
			DefaultTimeout: descriptor.DefaultTimeout.String(),
			Available:      available,
			Operations:     ops,
		})
	}
	return entries
}

func New(logger zerolog.Logger, catalog *tools.Catalog) tools.Tool {
	return &Tool{
		logger:  logger.With().Str("tool", toolName).Logger(),
		catalog: catalog,
	}
}
