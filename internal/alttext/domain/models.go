package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusGenerated Status = "GENERATED"
	StatusApplied   Status = "APPLIED"
)

// AltTextRecord is the local copy of one image's alt text. At most one
// record exists per (store, product, image); writes are upserts on that
// composite key.
type AltTextRecord struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	StoreID          snowflake.ID `gorm:"not null;uniqueIndex:ux_alt_text_store_product_image,priority:1" json:"store_id"`
	ProductID        string       `gorm:"type:text;not null;uniqueIndex:ux_alt_text_store_product_image,priority:2" json:"product_id"`
	ProductName      string       `gorm:"type:text;not null" json:"product_name"`
	ImageID          string       `gorm:"type:text;not null;uniqueIndex:ux_alt_text_store_product_image,priority:3" json:"image_id"`
	ImageURL         string       `gorm:"type:text;not null" json:"image_url"`
	GeneratedAltText string       `gorm:"type:text;not null" json:"generated_alt_text"`
	FinalAltText     string       `gorm:"type:text;not null" json:"final_alt_text"`
	Status           Status       `gorm:"type:text;not null;default:GENERATED" json:"status"`
	AppliedAt        *time.Time   `json:"applied_at"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (AltTextRecord) TableName() string { return "alt_text_records" }

type UpsertRequest struct {
	StoreID     snowflake.ID
	ProductID   string
	ProductName string
	ImageID     string
	ImageURL    string
	AltText     string
	Status      Status
	AppliedAt   *time.Time
}

type Service interface {
	// Upsert creates or replaces the record keyed by (store, product,
	// image). Idempotent and safe to repeat.
	Upsert(ctx context.Context, req UpsertRequest) (*AltTextRecord, error)
	Get(ctx context.Context, storeID snowflake.ID, productID, imageID string) (*AltTextRecord, error)
	ListByProductIDs(ctx context.Context, storeID snowflake.ID, productIDs []string) ([]*AltTextRecord, error)
	// Edit overwrites the final text locally. No remote call, no credit
	// spend; status drops back to GENERATED until the next apply.
	Edit(ctx context.Context, storeID snowflake.ID, productID, imageID, text string) error
	// MarkApplied stamps a record as live on the remote host.
	MarkApplied(ctx context.Context, id snowflake.ID, at time.Time) error
	CountByStore(ctx context.Context, storeID snowflake.ID) (total int64, applied int64, err error)
}

var (
	ErrNotFound      = errors.New("alt_text_not_found")
	ErrInvalidKey    = errors.New("invalid_alt_text_key")
	ErrEmptyAltText  = errors.New("empty_alt_text")
	ErrInvalidStatus = errors.New("invalid_alt_text_status")
)
