package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	apitokendomain "github.com/smallbiznis/workbill/internal/apitoken/domain"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
	billingdomain "github.com/smallbiznis/workbill/internal/billing/domain"
	"github.com/smallbiznis/workbill/internal/workspace/domain"
	"github.com/smallbiznis/workbill/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWorkspaceDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&domain.Workspace{},
		&domain.BillingQuota{},
		&apitokendomain.APIToken{},
		&billingdomain.Service{},
		&billingdomain.Bill{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return dbConn, node
}

func TestFindOrCreateIsIdempotent(t *testing.T) {
	dbConn, node := setupWorkspaceDB(t)
	repo := New(dbConn)
	ctx := context.Background()

	ownerID := node.Generate()

	first := &domain.Workspace{ID: node.Generate(), Title: "Acme", OwnerID: ownerID}
	require.NoError(t, repo.FindOrCreate(ctx, first))

	second := &domain.Workspace{ID: node.Generate(), Title: "Acme", OwnerID: ownerID}
	require.NoError(t, repo.FindOrCreate(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, dbConn.Model(&domain.Workspace{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The same title under another owner is a separate workspace.
	other := &domain.Workspace{ID: node.Generate(), Title: "Acme", OwnerID: node.Generate()}
	require.NoError(t, repo.FindOrCreate(ctx, other))
	assert.NotEqual(t, first.ID, other.ID)
}

func TestDeleteCascadesToTokensServicesAndBills(t *testing.T) {
	dbConn, node := setupWorkspaceDB(t)
	repo := New(dbConn)
	ctx := context.Background()

	workspace := &domain.Workspace{ID: node.Generate(), Title: "Acme", OwnerID: node.Generate()}
	require.NoError(t, repo.Create(ctx, workspace))
	token := &apitokendomain.APIToken{ID: node.Generate(), Name: "tok1", WorkspaceID: workspace.ID}
	require.NoError(t, dbConn.Create(token).Error)
	service := &billingdomain.Service{ID: node.Generate(), Name: "translate", CostPerMs: 0.001, APITokenID: token.ID}
	require.NoError(t, dbConn.Create(service).Error)
	require.NoError(t, dbConn.Create(&billingdomain.Bill{
		ID:                node.Generate(),
		UsageStartedAt:    time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC),
		UsageDurationInMs: 5000,
		ServiceID:         service.ID,
	}).Error)

	// A workspace belonging to another owner must survive the delete.
	other := &domain.Workspace{ID: node.Generate(), Title: "Globex", OwnerID: node.Generate()}
	require.NoError(t, repo.Create(ctx, other))
	otherToken := &apitokendomain.APIToken{ID: node.Generate(), Name: "tok9", WorkspaceID: other.ID}
	require.NoError(t, dbConn.Create(otherToken).Error)

	require.NoError(t, repo.Delete(ctx, workspace.ID))

	for model, want := range map[string]int64{"workspaces": 1, "api_tokens": 1, "services": 0, "bills": 0} {
		var count int64
		require.NoError(t, dbConn.Table(model).Count(&count).Error)
		assert.Equal(t, want, count, model)
	}

	var remaining apitokendomain.APIToken
	require.NoError(t, dbConn.First(&remaining).Error)
	assert.Equal(t, other.ID, remaining.WorkspaceID)
}

func TestFindByIDNotFound(t *testing.T) {
	dbConn, node := setupWorkspaceDB(t)
	repo := New(dbConn)

	_, err := repo.FindByID(context.Background(), node.Generate())
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestListByOwnerPreloadsTokens(t *testing.T) {
	dbConn, node := setupWorkspaceDB(t)
	repo := New(dbConn)
	ctx := context.Background()

	ownerID := node.Generate()
	beta := &domain.Workspace{ID: node.Generate(), Title: "Beta", OwnerID: ownerID}
	acme := &domain.Workspace{ID: node.Generate(), Title: "Acme", OwnerID: ownerID}
	require.NoError(t, repo.Create(ctx, beta))
	require.NoError(t, repo.Create(ctx, acme))
	require.NoError(t, dbConn.Create(&apitokendomain.APIToken{
		ID:          node.Generate(),
		Name:        "tok1",
		WorkspaceID: acme.ID,
	}).Error)

	workspaces, err := repo.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, workspaces, 2)

	assert.Equal(t, "Acme", workspaces[0].Title)
	assert.Len(t, workspaces[0].APITokens, 1)
	assert.Equal(t, "Beta", workspaces[1].Title)
	assert.Empty(t, workspaces[1].APITokens)

	other, err := repo.ListByOwner(ctx, node.Generate())
	require.NoError(t, err)
	assert.Empty(t, other)
}
