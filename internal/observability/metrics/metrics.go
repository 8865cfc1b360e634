package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"

	StateIgnored   = "ignored"
	StateProcessed = "processed"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	Generations   *prometheus.CounterVec
	CreditsSpent  *prometheus.CounterVec
	Applies       *prometheus.CounterVec
	WebhookEvents *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specto_generations_total",
			Help: "Alt text generation attempts by outcome.",
		}, []string{"outcome"}),
		CreditsSpent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specto_credits_spent_total",
			Help: "Credits committed to the ledger by action.",
		}, []string{"action"}),
		Applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specto_applies_total",
			Help: "Remote alt text pushes by outcome.",
		}, []string{"outcome"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specto_webhook_events_total",
			Help: "Incoming commerce webhook events by terminal state.",
		}, []string{"state"}),
	}

	reg.MustRegister(m.Generations, m.CreditsSpent, m.Applies, m.WebhookEvents)
	return m
}

func (m *Metrics) RecordGeneration(outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCreditsSpent(action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CreditsSpent.WithLabelValues(action).Add(float64(n))
}

func (m *Metrics) RecordApply(outcome string) {
	if m == nil {
		return
	}
	m.Applies.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordWebhookEvent(state string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(state).Inc()
}
