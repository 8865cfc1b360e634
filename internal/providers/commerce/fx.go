package commerce

import "go.uber.org/fx"

var Module = fx.Module("providers.commerce",
	fx.Provide(NewClient),
)
