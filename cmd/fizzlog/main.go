package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/fizzlog/fizzlog/internal/clock"
	"github.com/fizzlog/fizzlog/internal/config"
	"github.com/fizzlog/fizzlog/internal/migration"
	"github.com/fizzlog/fizzlog/internal/observability"
	"github.com/fizzlog/fizzlog/internal/server"
	"github.com/fizzlog/fizzlog/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
