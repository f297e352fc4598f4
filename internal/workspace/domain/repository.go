package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, workspace *Workspace) error
	// FindByID loads the workspace together with its owner.
	FindByID(ctx context.Context, id snowflake.ID) (*Workspace, error)
	// ListByOwner loads the owner's workspaces with their API tokens.
	ListByOwner(ctx context.Context, ownerID snowflake.ID) ([]Workspace, error)
	// FindOrCreate resolves a workspace by (owner, title), creating it when
	// missing. The unique constraint on (owner_id, title) guarantees at most
	// one row per key even under concurrent callers.
	FindOrCreate(ctx context.Context, workspace *Workspace) error
	Delete(ctx context.Context, id snowflake.ID) error
}
