package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workbill/internal/config"
	"github.com/smallbiznis/workbill/internal/migration"
	"github.com/smallbiznis/workbill/internal/observability"
	"github.com/smallbiznis/workbill/internal/server"
	"github.com/smallbiznis/workbill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface; server.Module pulls in the domain modules.
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
