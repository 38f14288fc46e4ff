package history

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/models"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/runner"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/storage"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

type listResponse struct {
	Total       int64               `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
	Tool        string              `json:"tool"`
	Invocations []models.Invocation `json:"invocations"`
}

func setupTestServer(t *testing.T) *server.Server {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.Config{
		DatabasePath: filepath.Join(t.TempDir(), "history-test.db"),
	})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	reg, err := registry.Default(nil)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	impl := &mcp.Implementation{Name: "test-server", Version: "1.0.0"}
	srv := server.NewServer(impl, reg, runner.New(zerolog.Nop()), store)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return srv
}

func newTool(t *testing.T, srv *server.Server) *Tool {
	t.Helper()

	tool := New(zerolog.Nop()).(*Tool)
	if err := tool.Register(srv); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}
	return tool
}

func seed(t *testing.T, store storage.Storage, operation, toolID string, count int) []*models.Invocation {
	t.Helper()

	out := make([]*models.Invocation, 0, count)
	for i := 0; i < count; i++ {
		inv := &models.Invocation{Operation: operation, ToolID: toolID, SessionID: "session-" + toolID, Success: true}
		if err := store.CreateInvocation(context.Background(), inv); err != nil {
			t.Fatalf("failed to create invocation: %v", err)
		}
		out = append(out, inv)
	}
	return out
}

func call(t *testing.T, tool *Tool, input Input) string {
	t.Helper()

	result, _, err := tool.HistoryHandler(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}
	return textContent.Text
}

func decodeList(t *testing.T, text string) listResponse {
	t.Helper()

	var response listResponse
	if err := json.Unmarshal([]byte(text), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return response
}

func TestHistoryHandler_List_Empty(t *testing.T) {
	tool := newTool(t, setupTestServer(t))

	response := decodeList(t, call(t, tool, Input{Action: "list"}))

	if response.Total != 0 {
		t.Errorf("expected total 0, got %d", response.Total)
	}
	if len(response.Invocations) != 0 {
		t.Errorf("expected no invocations, got %d", len(response.Invocations))
	}
}

func TestHistoryHandler_List_DefaultLimit(t *testing.T) {
	srv := setupTestServer(t)
	seed(t, srv.Storage(), "nmap_port_scan", "nmap", 15)
	tool := newTool(t, srv)

	response := decodeList(t, call(t, tool, Input{Action: "list"}))

	if response.Total != 15 {
		t.Errorf("expected total 15, got %d", response.Total)
	}
	if len(response.Invocations) != defaultListLimit {
		t.Errorf("expected %d invocations, got %d", defaultListLimit, len(response.Invocations))
	}
}

func TestHistoryHandler_List_Pagination(t *testing.T) {
	srv := setupTestServer(t)
	seed(t, srv.Storage(), "nmap_port_scan", "nmap", 15)
	tool := newTool(t, srv)

	response := decodeList(t, call(t, tool, Input{Action: "list", Limit: 5, Offset: 10}))

	if response.Offset != 10 || response.Limit != 5 {
		t.Errorf("expected offset 10 limit 5, got offset %d limit %d", response.Offset, response.Limit)
	}
	if len(response.Invocations) != 5 {
		t.Errorf("expected 5 invocations, got %d", len(response.Invocations))
	}
}

func TestHistoryHandler_List_ByTool(t *testing.T) {
	srv := setupTestServer(t)
	seed(t, srv.Storage(), "nmap_port_scan", "nmap", 3)
	seed(t, srv.Storage(), "whois_lookup", "whois", 2)
	tool := newTool(t, srv)

	response := decodeList(t, call(t, tool, Input{Action: "list", Tool: "whois"}))

	if response.Total != 2 {
		t.Errorf("expected total 2, got %d", response.Total)
	}
	if response.Tool != "whois" {
		t.Errorf("expected tool filter echoed, got %q", response.Tool)
	}
	for _, inv := range response.Invocations {
		if inv.ToolID != "whois" {
			t.Errorf("unexpected tool %q in filtered list", inv.ToolID)
		}
	}
}

func TestHistoryHandler_List_BySession(t *testing.T) {
	srv := setupTestServer(t)
	seed(t, srv.Storage(), "nmap_port_scan", "nmap", 4)
	seed(t, srv.Storage(), "whois_lookup", "whois", 1)
	tool := newTool(t, srv)

	response := decodeList(t, call(t, tool, Input{Action: "list", Session: "session-nmap", Limit: 3}))

	if response.Total != 4 {
		t.Errorf("expected total 4, got %d", response.Total)
	}
	if len(response.Invocations) != 3 {
		t.Errorf("expected 3 invocations, got %d", len(response.Invocations))
	}

	response = decodeList(t, call(t, tool, Input{Action: "list", Session: "session-nmap", Offset: 10}))
	if len(response.Invocations) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(response.Invocations))
	}
}

func TestHistoryHandler_Get(t *testing.T) {
	srv := setupTestServer(t)
	seeded := seed(t, srv.Storage(), "nmap_port_scan", "nmap", 1)
	tool := newTool(t, srv)

	for _, input := range []Input{
		{Action: "get", ID: seeded[0].ID},
		{Action: "get", UUID: seeded[0].UUID},
	} {
		var response models.Invocation
		if err := json.Unmarshal([]byte(call(t, tool, input)), &response); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if response.ID != seeded[0].ID {
			t.Errorf("expected ID %d, got %d", seeded[0].ID, response.ID)
		}
		if response.Operation != "nmap_port_scan" {
			t.Errorf("expected operation 'nmap_port_scan', got %q", response.Operation)
		}
	}
}

func TestHistoryHandler_Get_NotFound(t *testing.T) {
	tool := newTool(t, setupTestServer(t))

	_, _, err := tool.HistoryHandler(context.Background(), nil, Input{Action: "get", ID: 99999})

	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryHandler_MissingID(t *testing.T) {
	tool := newTool(t, setupTestServer(t))

	for _, action := range []string{"get", "delete"} {
		_, _, err := tool.HistoryHandler(context.Background(), nil, Input{Action: action})
		if !errors.Is(err, toolerr.ErrInvalidParameters) {
			t.Errorf("%s: expected invalid parameters, got %v", action, err)
		}
	}
}

func TestHistoryHandler_Delete(t *testing.T) {
	srv := setupTestServer(t)
	seeded := seed(t, srv.Storage(), "nmap_port_scan", "nmap", 2)
	tool := newTool(t, srv)

	text := call(t, tool, Input{Action: "delete", ID: seeded[0].ID})
	if !strings.Contains(text, "deleted successfully") {
		t.Errorf("unexpected message: %s", text)
	}

	_, total, err := srv.Storage().ListInvocations(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 invocation after delete, got %d", total)
	}

	_, _, err = tool.HistoryHandler(context.Background(), nil, Input{Action: "delete", ID: seeded[0].ID})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestHistoryHandler_Clear(t *testing.T) {
	srv := setupTestServer(t)
	seed(t, srv.Storage(), "nmap_port_scan", "nmap", 5)
	tool := newTool(t, srv)

	text := call(t, tool, Input{Action: "clear"})
	if text != "All invocation history cleared" {
		t.Errorf("unexpected message: %s", text)
	}

	_, total, err := srv.Storage().ListInvocations(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 invocations after clear, got %d", total)
	}
}

func TestHistoryHandler_InvalidInput(t *testing.T) {
	tool := newTool(t, setupTestServer(t))

	for name, input := range map[string]Input{
		"unknown action": {Action: "invalid"},
		"limit too big":  {Action: "list", Limit: 1000},
		"bad uuid":       {Action: "get", UUID: "not-a-uuid"},
	} {
		_, _, err := tool.HistoryHandler(context.Background(), nil, input)
		if !errors.Is(err, toolerr.ErrInvalidParameters) {
			t.Errorf("%s: expected invalid parameters, got %v", name, err)
		}
	}
}

func TestRegister_WithoutStorage(t *testing.T) {
	reg, err := registry.Default(nil)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	srv := server.NewServer(&mcp.Implementation{Name: "test-server", Version: "1.0.0"}, reg, runner.New(zerolog.Nop()), nil)

	tool := newTool(t, srv)

	_, _, err = tool.HistoryHandler(context.Background(), nil, Input{Action: "list"})
	if !errors.Is(err, ErrAuditDisabled) {
		t.Errorf("expected audit disabled error, got %v", err)
	}
}
