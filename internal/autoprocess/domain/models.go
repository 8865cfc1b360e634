package domain

import "context"

// Event is a remote "product created/updated" notification. The sender
// nests the subject reference under "data".
type Event struct {
	Topic  string    `json:"topic"`
	SiteID string    `json:"websiteId"`
	Data   EventData `json:"data"`
}

// EventData carries the identifier of the product the event refers to.
type EventData struct {
	ID string `json:"id"`
}

// ProductID returns the product reference from the event payload.
func (e Event) ProductID() string {
	return e.Data.ID
}

// Outcome is the terminal state of one event's run.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeProcessed Outcome = "processed"
)

// Result summarizes one event's processing for logging and tests.
type Result struct {
	Outcome   Outcome
	Selected  int
	Processed int
}

// Service is the unattended generate+apply path: webhook-triggered,
// gated by a per-store opt-in, throttled by the remaining balance.
// Processing never propagates errors to the webhook sender.
type Service interface {
	Process(ctx context.Context, event Event) (*Result, error)
}

const productTopicPrefix = "commerce.products"

// IsProductTopic reports whether an event topic is product-related.
func IsProductTopic(topic string) bool {
	return len(topic) >= len(productTopicPrefix) && topic[:len(productTopicPrefix)] == productTopicPrefix
}
