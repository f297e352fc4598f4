package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workbill/internal/apitoken"
	"github.com/smallbiznis/workbill/internal/auth"
	"github.com/smallbiznis/workbill/internal/billing"
	"github.com/smallbiznis/workbill/internal/config"
	"github.com/smallbiznis/workbill/internal/importer"
	"github.com/smallbiznis/workbill/internal/migration"
	"github.com/smallbiznis/workbill/internal/observability"
	"github.com/smallbiznis/workbill/internal/workspace"
	"github.com/smallbiznis/workbill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional Domains
		auth.Module,
		workspace.Module,
		apitoken.Module,
		billing.Module,
		importer.Module,

		fx.Invoke(runImport),
	)
	app.Run()
}

func runImport(lc fx.Lifecycle, sd fx.Shutdowner, log *zap.Logger, imp *importer.Importer) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				if err := imp.Run(context.Background()); err != nil {
					log.Error("import failed", zap.Error(err))
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
