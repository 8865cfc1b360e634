package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/specto/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		func() prometheus.Registerer { return prometheus.DefaultRegisterer },
		metrics.New,
	),
)
