package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ApplyItem addresses one locally stored alt text to push live.
type ApplyItem struct {
	ProductID string `json:"product_id"`
	ImageID   string `json:"image_id"`
}

type ApplyResult struct {
	AppliedCount int      `json:"applied_count"`
	FailedIDs    []string `json:"failed_ids,omitempty"`
}

// Service pushes finalized alt text to the remote host. Applying spends
// no credits; items without local final text are skipped silently.
type Service interface {
	ApplyBatch(ctx context.Context, storeID snowflake.ID, items []ApplyItem) (*ApplyResult, error)
	// Edit overwrites the local final text without a remote call.
	Edit(ctx context.Context, storeID snowflake.ID, productID, imageID, text string) error
}

var ErrNoItems = errors.New("no_items")
