package repository

import (
	"context"

	"gorm.io/gorm"
)

// QueryOption customizes a find statement (ordering, limits).
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type orderOption struct{ order string }

func (o orderOption) Apply(db *gorm.DB) *gorm.DB { return db.Order(o.order) }

// WithOrder orders the result set, e.g. WithOrder("created_at DESC").
func WithOrder(order string) QueryOption { return orderOption{order: order} }

type limitOption struct{ limit int }

func (o limitOption) Apply(db *gorm.DB) *gorm.DB { return db.Limit(o.limit) }

// WithLimit caps the result set size.
func WithLimit(limit int) QueryOption { return limitOption{limit: limit} }

// Repository is a generic gorm-backed store for a single model type.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Count(ctx context.Context, query *T) (int64, error)
}
