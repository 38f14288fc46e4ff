// Package toolstest provides helpers for testing tool adapters.
package toolstest

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/runner"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

// NewServer returns a server backed by the built-in catalog, a quiet runner
// and no audit storage.
func NewServer(t testing.TB, opts ...runner.Option) *server.Server {
	t.Helper()

	reg, err := registry.Default(nil)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return NewServerWithRegistry(reg, opts...)
}

func NewServerWithRegistry(reg *registry.Registry, opts ...runner.Option) *server.Server {
	impl := &mcp.Implementation{Name: "kali-mcp-test", Version: "0.0.0"}
	return server.NewServer(impl, reg, runner.New(zerolog.Nop(), opts...), nil)
}

// Install registers toolList on a fresh server and fails the test if any of
// them is rejected. Every operation must name a tool of the built-in catalog.
func Install(t testing.TB, toolList []tools.Tool) *tools.Catalog {
	t.Helper()

	srv := NewServer(t)
	catalog := tools.NewCatalog(zerolog.Nop())
	if err := catalog.Install(srv, toolList...); err != nil {
		t.Fatalf("failed to install tools: %v", err)
	}

	operations := 0
	for _, tool := range toolList {
		op, ok := tool.(tools.Invocable)
		if !ok {
			continue
		}
		operations++
		if _, err := srv.Registry().Resolve(op.ToolID()); err != nil {
			t.Errorf("operation %s names unknown tool %s", op.OperationName(), op.ToolID())
		}
	}
	if got := len(catalog.Names()); got != operations {
		t.Errorf("expected %d installed operations, got %d", operations, got)
	}
	return catalog
}
