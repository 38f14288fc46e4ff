package tools

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

// Catalog registers tools with the MCP server and keeps the installed
// operations addressable by name for in-process invocation.
type Catalog struct {
	logger        zerolog.Logger
	onlyAvailable bool

	mu         sync.RWMutex
	operations map[string]Invocable
}

type CatalogOption func(*Catalog)

// WithOnlyAvailable skips operations whose binary cannot be found at install
// time instead of registering them and failing per call.
func WithOnlyAvailable(only bool) CatalogOption {
	return func(c *Catalog) {
		c.onlyAvailable = only
	}
}

func NewCatalog(logger zerolog.Logger, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		logger:     logger.With().Str("component", "catalog").Logger(),
		operations: make(map[string]Invocable),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Install registers every tool with srv. Operations for tools that are
// disabled in the registry are skipped. Registration failures are collected
// and returned together; the remaining tools are still installed.
func (c *Catalog) Install(srv *server.Server, toolList ...Tool) error {
	var errs []error
	for _, tool := range toolList {
		op, isOperation := tool.(Invocable)
		if isOperation {
			skip, err := c.admit(srv, op)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if skip {
				continue
			}
		}
		if err := tool.Register(srv); err != nil {
			c.logger.Error().Msgf("Failed to register tool: %v", err)
			errs = append(errs, err)
			continue
		}
		if isOperation {
			c.mu.Lock()
			c.operations[op.OperationName()] = op
			c.mu.Unlock()
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) admit(srv *server.Server, op Invocable) (bool, error) {
	c.mu.RLock()
	_, exists := c.operations[op.OperationName()]
	c.mu.RUnlock()
	if exists {
		return false, toolerr.Duplicate(op.OperationName())
	}

	descriptor, err := srv.Registry().Resolve(op.ToolID())
	if err != nil {
		c.logger.Debug().Msgf("tool %s is disabled, skipping %s", op.ToolID(), op.OperationName())
		return true, nil
	}
	if c.onlyAvailable && !srv.Runner().CheckAvailability(descriptor.Binary) {
		c.logger.Warn().Msgf("%s not available, %s will be skipped", descriptor.Binary, op.OperationName())
		return true, nil
	}
	return false, nil
}

// Invoke runs the named operation with loosely typed parameters. This is the
// entry point used outside of MCP sessions.
func (c *Catalog) Invoke(ctx context.Context, name string, params map[string]any) (string, error) {
	op, ok := c.Lookup(name)
	if !ok {
		return "", toolerr.Unknown(name)
	}
	return op.Invoke(ctx, params)
}

func (c *Catalog) Lookup(name string) (Invocable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	op, ok := c.operations[name]
	return op, ok
}

// Names returns the installed operation names in order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.operations))
	for name := range c.operations {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// OperationsByTool groups the installed operation names by tool ID.
func (c *Catalog) OperationsByTool() map[string][]string {
	grouped := make(map[string][]string)
	c.mu.RLock()
	for name, op := range c.operations {
		grouped[op.ToolID()] = append(grouped[op.ToolID()], name)
	}
	c.mu.RUnlock()
	for _, names := range grouped {
		sort.Strings(names)
	}
	return grouped
}
