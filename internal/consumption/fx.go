package consumption

import (
	"github.com/fizzlog/fizzlog/internal/consumption/service"
	"go.uber.org/fx"
)

var Module = fx.Module("consumption.service",
	fx.Provide(service.NewService),
)
