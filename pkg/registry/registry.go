// Package registry holds the read-only catalog of external tools.
//
// A Registry is populated once at start-up and sealed. After Seal it is never
// written again, so concurrent readers need no locking.
package registry

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

type Category string

const (
	CategoryNetworkRecon  Category = "network_recon"
	CategorySubdomainEnum Category = "subdomain_enum"
	CategoryWebAnalysis   Category = "web_analysis"
	CategoryEnumeration   Category = "enumeration"
	CategorySSLNetwork    Category = "ssl_network"
	CategoryWireless      Category = "wireless"
	CategoryOSINT         Category = "osint"
)

var ErrSealed = errors.New("registry is sealed")

// ToolDescriptor is the immutable metadata for one external tool.
type ToolDescriptor struct {
	ID             string        `json:"id"`
	Binary         string        `json:"binary"`
	Description    string        `json:"description"`
	Category       Category      `json:"category"`
	DefaultTimeout time.Duration `json:"default_timeout"`
}

type Registry struct {
	entries map[string]ToolDescriptor
	sealed  bool
}

func New() *Registry {
	return &Registry{entries: make(map[string]ToolDescriptor)}
}

// Register adds one descriptor under its ID.
func (r *Registry) Register(descriptor ToolDescriptor) error {
	if r.sealed {
		return ErrSealed
	}
	if strings.TrimSpace(descriptor.ID) == "" {
		return toolerr.Invalidf("tool id is required")
	}
	if strings.TrimSpace(descriptor.Binary) == "" {
		return toolerr.Invalidf("tool %q has no binary", descriptor.ID)
	}
	if _, exists := r.entries[descriptor.ID]; exists {
		return toolerr.Duplicate(descriptor.ID)
	}
	r.entries[descriptor.ID] = descriptor
	return nil
}

// Seal freezes the registry. Register fails afterwards.
func (r *Registry) Seal() {
	r.sealed = true
}

func (r *Registry) Sealed() bool {
	return r.sealed
}

func (r *Registry) Resolve(id string) (ToolDescriptor, error) {
	descriptor, ok := r.entries[id]
	if !ok {
		return ToolDescriptor{}, toolerr.Unknown(id)
	}
	return descriptor, nil
}

// List returns all descriptors ordered by ID.
func (r *Registry) List() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(r.entries))
	for _, descriptor := range r.entries {
		out = append(out, descriptor)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Override adjusts a catalog entry before the registry is built.
type Override struct {
	Binary   string
	Timeout  time.Duration
	Disabled bool
}

// Default builds a sealed registry from the built-in catalog. Overrides are
// keyed by tool ID; an override for an unknown ID is an error so typos in the
// configuration file do not go unnoticed.
func Default(overrides map[string]Override) (*Registry, error) {
	reg := New()
	known := make(map[string]struct{}, len(catalog))
	for _, descriptor := range catalog {
		known[descriptor.ID] = struct{}{}
		if override, ok := overrides[descriptor.ID]; ok {
			if override.Disabled {
				continue
			}
			if override.Binary != "" {
				descriptor.Binary = override.Binary
			}
			if override.Timeout > 0 {
				descriptor.DefaultTimeout = override.Timeout
			}
		}
		if err := reg.Register(descriptor); err != nil {
			return nil, err
		}
	}
	for id := range overrides {
		if _, ok := known[id]; !ok {
			return nil, toolerr.Unknown(id)
		}
	}
	reg.Seal()
	return reg, nil
}
