package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	usagedomain "github.com/smallbiznis/specto/internal/usage/domain"
	"github.com/smallbiznis/specto/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultListLimit = 50

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[usagedomain.UsageRecord]
}

func NewService(p Params) usagedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("usage.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[usagedomain.UsageRecord](p.DB),
	}
}

func (s *Service) Append(ctx context.Context, req usagedomain.AppendRequest) error {
	if req.StoreID == 0 {
		return usagedomain.ErrInvalidStore
	}
	switch req.Action {
	case usagedomain.ActionBulk, usagedomain.ActionAutoProcess:
	default:
		return usagedomain.ErrInvalidAction
	}

	record := &usagedomain.UsageRecord{
		ID:          s.genID.Generate(),
		StoreID:     req.StoreID,
		Action:      req.Action,
		CreditsUsed: req.CreditsUsed,
		CreatedAt:   time.Now().UTC(),
	}
	if req.ProductID != "" {
		record.ProductID = &req.ProductID
	}
	if req.ImageID != "" {
		record.ImageID = &req.ImageID
	}
	if req.Metadata != nil {
		record.Metadata = datatypes.JSONMap(req.Metadata)
	}

	return s.repo.Create(ctx, record)
}

func (s *Service) List(ctx context.Context, storeID snowflake.ID, limit int) ([]*usagedomain.UsageRecord, error) {
	if storeID == 0 {
		return nil, usagedomain.ErrInvalidStore
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.Find(ctx, &usagedomain.UsageRecord{StoreID: storeID},
		repository.WithOrder("created_at DESC"),
		repository.WithLimit(limit),
	)
}
