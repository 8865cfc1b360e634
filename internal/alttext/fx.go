package alttext

import (
	"github.com/smallbiznis/specto/internal/alttext/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alttext.service",
	fx.Provide(service.NewService),
)
