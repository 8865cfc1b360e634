package credits

import (
	"github.com/smallbiznis/specto/internal/credits/service"
	"go.uber.org/fx"
)

var Module = fx.Module("credits.service",
	fx.Provide(service.NewService),
)
