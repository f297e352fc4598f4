package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// FindOrCreateService resolves a service by (token, name), creating it
	// when missing. The unique constraint on (api_token_id, name) guarantees
	// at most one row per key.
	FindOrCreateService(ctx context.Context, service *Service) error
	// CreateBill appends a usage record. Bills are never updated.
	CreateBill(ctx context.Context, bill *Bill) error
	// WorkspaceUsage aggregates summed bill durations in seconds per token
	// and per service for every token of the workspace.
	WorkspaceUsage(ctx context.Context, workspaceID snowflake.ID) ([]TokenUsage, error)
}
