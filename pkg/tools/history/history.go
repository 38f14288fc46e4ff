package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/models"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/storage"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
	"github.com/tb0hdan/kali-mcp/pkg/types"
)

const defaultListLimit = 10

var ErrAuditDisabled = errors.New("audit log is disabled")

type Input struct {
	Action  string `json:"action" jsonschema:"one of list, get, delete, clear" validate:"required,oneof=list get delete clear"`
	ID      uint   `json:"id,omitempty" jsonschema:"invocation ID for get and delete"`
	UUID    string `json:"uuid,omitempty" jsonschema:"invocation UUID for get, instead of id" validate:"omitempty,uuid"`
	Tool    string `json:"tool,omitempty" jsonschema:"only list invocations of this tool ID, e.g. nmap" validate:"omitempty,max=64"`
	Session string `json:"session,omitempty" jsonschema:"only list invocations made in this MCP session" validate:"omitempty,max=64"`
	Limit   int    `json:"limit,omitempty" jsonschema:"page size for list (default 10, max 100)" validate:"min=0,max=100"`
	Offset  int    `json:"offset,omitempty" jsonschema:"page offset for list" validate:"min=0"`
}

type Tool struct {
	logger zerolog.Logger
	store  storage.Storage
}

func (t *Tool) Register(srv *server.Server) error {
	t.store = srv.Storage()
	if t.store == nil {
		t.logger.Debug().Msg("no audit storage, history tool not registered")
		return nil
	}

	tool := &mcp.Tool{
		Name: "history",
		Description: "Browse and manage the invocation audit log. Actions: list (paginated, optionally filtered by tool or session), " +
			"get (by ID or UUID), delete (by ID), clear (all). Tool output is not recorded, only what was run and how it ended.",
	}

	mcp.AddTool(&srv.Server, tool, t.HistoryHandler)
	t.logger.Debug().Msg("history tool registered")

	return nil
}

func (t *Tool) HistoryHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := tools.Validate(input); err != nil {
		return nil, nil, err
	}
	if t.store == nil {
		return nil, nil, ErrAuditDisabled
	}

	var (
		resultText string
		err        error
	)
	switch input.Action {
	case "list":
		resultText, err = t.list(ctx, input)
	case "get":
		resultText, err = t.get(ctx, input)
	case "delete":
		if input.ID == 0 {
			return nil, nil, toolerr.Invalidf("id is required for delete action")
		}
		if err := t.store.DeleteInvocation(ctx, input.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to delete invocation %d: %w", input.ID, err)
		}
		resultText = fmt.Sprintf("Invocation %d deleted successfully", input.ID)
	case "clear":
		if err := t.store.DeleteAllInvocations(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to clear invocations: %w", err)
		}
		resultText = "All invocation history cleared"
	}
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resultText},
		},
	}, nil, nil
}

func (t *Tool) list(ctx context.Context, input Input) (string, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	limit = min(limit, types.MaxHistoryLimit)

	var (
		invocations []models.Invocation
		total       int64
		err         error
	)
	switch {
	case input.Session != "":
		invocations, err = t.store.ListInvocationsBySession(ctx, input.Session)
		total = int64(len(invocations))
		invocations = window(invocations, limit, input.Offset)
	case input.Tool != "":
		invocations, total, err = t.store.ListInvocationsByTool(ctx, input.Tool, limit, input.Offset)
	default:
		invocations, total, err = t.store.ListInvocations(ctx, limit, input.Offset)
	}
	if err != nil {
		return "", fmt.Errorf("failed to list invocations: %w", err)
	}

	response := map[string]any{
		"total":       total,
		"limit":       limit,
		"offset":      input.Offset,
		"invocations": invocations,
	}
	if input.Tool != "" {
		response["tool"] = input.Tool
	}
	if input.Session != "" {
		response["session"] = input.Session
	}
	data, _ := json.MarshalIndent(response, "", "  ")
	return string(data), nil
}

func (t *Tool) get(ctx context.Context, input Input) (string, error) {
	var (
		inv *models.Invocation
		err error
	)
	switch {
	case input.UUID != "":
		inv, err = t.store.GetInvocationByUUID(ctx, input.UUID)
	case input.ID != 0:
		inv, err = t.store.GetInvocation(ctx, input.ID)
	default:
		return "", toolerr.Invalidf("id or uuid is required for get action")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get invocation: %w", err)
	}
	data, _ := json.MarshalIndent(inv, "", "  ")
	return string(data), nil
}

// window applies limit and offset to an already loaded slice.
func window(invocations []models.Invocation, limit, offset int) []models.Invocation {
	if offset >= len(invocations) {
		return []models.Invocation{}
	}
	end := min(offset+limit, len(invocations))
	return invocations[offset:end]
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger: logger.With().Str("tool", "history").Logger(),
	}
}
