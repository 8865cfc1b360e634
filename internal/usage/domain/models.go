// Package domain contains the append-only usage audit models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Action string

const (
	ActionBulk        Action = "BULK"
	ActionAutoProcess Action = "AUTO_PROCESS"
)

// UsageRecord is one audit entry for credit spend. Write-once: records
// are never updated or deleted.
type UsageRecord struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	StoreID     snowflake.ID      `gorm:"not null;index:idx_usage_records_store_created,priority:1" json:"store_id"`
	Action      Action            `gorm:"type:text;not null" json:"action"`
	CreditsUsed int64             `gorm:"not null;default:0" json:"credits_used"`
	ProductID   *string           `gorm:"type:text" json:"product_id,omitempty"`
	ImageID     *string           `gorm:"type:text" json:"image_id,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_usage_records_store_created,priority:2" json:"created_at"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }

type AppendRequest struct {
	StoreID     snowflake.ID
	Action      Action
	CreditsUsed int64
	ProductID   string
	ImageID     string
	Metadata    map[string]any
}

type Service interface {
	Append(ctx context.Context, req AppendRequest) error
	List(ctx context.Context, storeID snowflake.ID, limit int) ([]*UsageRecord, error)
}

var (
	ErrInvalidStore  = errors.New("invalid_store")
	ErrInvalidAction = errors.New("invalid_action")
)
