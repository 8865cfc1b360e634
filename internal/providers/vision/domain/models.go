package domain

import (
	"context"
	"errors"
)

// Style selects the prompt, sampling and length profile for a generation.
type Style string

const (
	StyleConcise  Style = "concise"
	StyleBalanced Style = "balanced"
	StyleDetailed Style = "detailed"
)

// NormalizeStyle maps unknown values to the balanced default.
func NormalizeStyle(raw string) Style {
	switch Style(raw) {
	case StyleConcise, StyleBalanced, StyleDetailed:
		return Style(raw)
	default:
		return StyleBalanced
	}
}

// ProductContext carries the product details woven into the prompt.
type ProductContext struct {
	Name        string
	Vendor      string
	ProductType string
	Tags        []string
	Description string
}

type GenerateRequest struct {
	ImageURL string
	Context  ProductContext
	Style    Style
	Language string
}

type GenerateResult struct {
	AltText    string
	TokensUsed int
}

// Client invokes the vision model once per image. It carries no retry
// policy of its own; retries, if any, belong to the caller.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

var (
	ErrMissingAPIKey = errors.New("vision_api_key_missing")
	ErrEmptyResponse = errors.New("vision_empty_response")
)
