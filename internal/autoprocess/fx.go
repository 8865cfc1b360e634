package autoprocess

import (
	"github.com/smallbiznis/specto/internal/autoprocess/service"
	"go.uber.org/fx"
)

var Module = fx.Module("autoprocess.service",
	fx.Provide(service.NewService),
)
