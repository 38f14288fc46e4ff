package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/runner"
	"github.com/tb0hdan/kali-mcp/pkg/storage"
)

// Server is the MCP server together with the collaborators every tool needs.
// The registry is sealed before it gets here and the runner holds no per-call
// state, so both are shared by concurrent handlers as is.
type Server struct {
	mcp.Server
	registry *registry.Registry
	runner   *runner.Runner
	storage  storage.Storage
}

// NewServer wires the MCP server. store may be nil, in which case invocations
// are not audited.
func NewServer(impl *mcp.Implementation, reg *registry.Registry, run *runner.Runner, store storage.Storage) *Server {
	return &Server{
		Server:   *mcp.NewServer(impl, nil),
		registry: reg,
		runner:   run,
		storage:  store,
	}
}

func (s *Server) Registry() *registry.Registry {
	return s.registry
}

func (s *Server) Runner() *runner.Runner {
	return s.runner
}

func (s *Server) Storage() storage.Storage {
	return s.storage
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
