package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// BatchItem is one image to generate alt text for, with the product
// context that enriches the prompt.
type BatchItem struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	ImageID     string   `json:"image_id"`
	ImageURL    string   `json:"image_url"`
	Vendor      string   `json:"vendor,omitempty"`
	ProductType string   `json:"product_type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ItemError reports one failed item. Item failures are data in the batch
// result, not an operation error.
type ItemError struct {
	ImageID string `json:"image_id"`
	Reason  string `json:"reason"`
}

type BatchResult struct {
	SuccessCount int         `json:"success_count"`
	Failed       []ItemError `json:"failed,omitempty"`
}

// Service runs credit-reserved batch generation. The operation either
// starts for all requested items or not at all: reservation covers the
// full batch up front, and unconsumed credits flow back after the fan-in.
type Service interface {
	GenerateBatch(ctx context.Context, storeID snowflake.ID, items []BatchItem) (*BatchResult, error)
}

var ErrNoItems = errors.New("no_items")
