package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workbill/internal/apitoken/domain"
	"github.com/smallbiznis/workbill/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTokenDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.APIToken{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return dbConn, node
}

func TestFindOrCreateIsIdempotent(t *testing.T) {
	dbConn, node := setupTokenDB(t)
	repo := New(dbConn)
	ctx := context.Background()

	workspaceID := node.Generate()

	first := &domain.APIToken{ID: node.Generate(), Name: "tok1", WorkspaceID: workspaceID}
	require.NoError(t, repo.FindOrCreate(ctx, first))
	require.Len(t, first.Token, 40)

	second := &domain.APIToken{ID: node.Generate(), Name: "tok1", WorkspaceID: workspaceID}
	require.NoError(t, repo.FindOrCreate(ctx, second))

	// The existing row wins, token value included.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Token, second.Token)

	var count int64
	require.NoError(t, dbConn.Model(&domain.APIToken{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The same name under another workspace is a separate token.
	other := &domain.APIToken{ID: node.Generate(), Name: "tok1", WorkspaceID: node.Generate()}
	require.NoError(t, repo.FindOrCreate(ctx, other))
	assert.NotEqual(t, first.ID, other.ID)
}

func TestListByWorkspace(t *testing.T) {
	dbConn, node := setupTokenDB(t)
	repo := New(dbConn)
	ctx := context.Background()

	workspaceID := node.Generate()
	for _, name := range []string{"zeta", "alpha"} {
		require.NoError(t, repo.FindOrCreate(ctx, &domain.APIToken{
			ID:          node.Generate(),
			Name:        name,
			WorkspaceID: workspaceID,
		}))
	}
	require.NoError(t, repo.FindOrCreate(ctx, &domain.APIToken{
		ID:          node.Generate(),
		Name:        "foreign",
		WorkspaceID: node.Generate(),
	}))

	tokens, err := repo.ListByWorkspace(ctx, workspaceID)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "alpha", tokens[0].Name)
	assert.Equal(t, "zeta", tokens[1].Name)
}
