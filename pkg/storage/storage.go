package storage

import (
	"context"
	"errors"

	"github.com/tb0hdan/kali-mcp/pkg/models"
)

var ErrNotFound = errors.New("invocation not found")

type Storage interface {
	// Invocation audit log
	CreateInvocation(ctx context.Context, inv *models.Invocation) error
	GetInvocation(ctx context.Context, id uint) (*models.Invocation, error)
	GetInvocationByUUID(ctx context.Context, uuid string) (*models.Invocation, error)
	ListInvocations(ctx context.Context, limit, offset int) ([]models.Invocation, int64, error)
	ListInvocationsBySession(ctx context.Context, sessionID string) ([]models.Invocation, error)
	ListInvocationsByTool(ctx context.Context, toolID string, limit, offset int) ([]models.Invocation, int64, error)
	DeleteInvocation(ctx context.Context, id uint) error
	DeleteAllInvocations(ctx context.Context) error

	// Lifecycle
	Close() error
}
