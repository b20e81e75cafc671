package cylinder

import (
	"github.com/fizzlog/fizzlog/internal/cylinder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cylinder.service",
	fx.Provide(service.NewService),
)
