package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// FindOrCreate resolves a token by (workspace, name), creating it when
	// missing. The unique constraint on (workspace_id, name) guarantees at
	// most one row per key.
	FindOrCreate(ctx context.Context, token *APIToken) error
	ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]APIToken, error)
}
