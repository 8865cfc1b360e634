package apply

import (
	"github.com/smallbiznis/specto/internal/apply/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apply.service",
	fx.Provide(service.NewService),
)
