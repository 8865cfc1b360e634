package vision

import "go.uber.org/fx"

var Module = fx.Module("providers.vision",
	fx.Provide(NewClient),
)
