package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/specto/internal/logger"
	"github.com/smallbiznis/specto/internal/migration"
	"github.com/smallbiznis/specto/internal/server"
	"github.com/smallbiznis/specto/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
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
