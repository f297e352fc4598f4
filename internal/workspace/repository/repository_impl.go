package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workbill/internal/workspace/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, workspace *domain.Workspace) error {
	return r.db.WithContext(ctx).Create(workspace).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Workspace, error) {
	var workspace domain.Workspace
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&workspace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID snowflake.ID) ([]domain.Workspace, error) {
	var workspaces []domain.Workspace
	err := r.db.WithContext(ctx).
		Preload("APITokens").
		Where("owner_id = ?", ownerID).
		Order("title").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *repo) FindOrCreate(ctx context.Context, workspace *domain.Workspace) error {
	return r.db.WithContext(ctx).
		Where(domain.Workspace{OwnerID: workspace.OwnerID, Title: workspace.Title}).
		Attrs(domain.Workspace{ID: workspace.ID, Description: workspace.Description}).
		FirstOrCreate(workspace).Error
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Workspace{}, "id = ?", id).Error
}
