package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workbill/internal/apitoken/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindOrCreate(ctx context.Context, token *domain.APIToken) error {
	return r.db.WithContext(ctx).
		Where(domain.APIToken{WorkspaceID: token.WorkspaceID, Name: token.Name}).
		Attrs(domain.APIToken{ID: token.ID}).
		FirstOrCreate(token).Error
}

func (r *repo) ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]domain.APIToken, error) {
	var tokens []domain.APIToken
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("name").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
