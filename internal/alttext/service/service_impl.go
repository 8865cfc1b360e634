package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
	"github.com/smallbiznis/specto/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

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
	repo  repository.Repository[alttextdomain.AltTextRecord]
}

func NewService(p Params) alttextdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("alttext.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[alttextdomain.AltTextRecord](p.DB),
	}
}

func (s *Service) Upsert(ctx context.Context, req alttextdomain.UpsertRequest) (*alttextdomain.AltTextRecord, error) {
	if req.StoreID == 0 || strings.TrimSpace(req.ProductID) == "" || strings.TrimSpace(req.ImageID) == "" {
		return nil, alttextdomain.ErrInvalidKey
	}
	if strings.TrimSpace(req.AltText) == "" {
		return nil, alttextdomain.ErrEmptyAltText
	}

	status := req.Status
	switch status {
	case alttextdomain.StatusGenerated, alttextdomain.StatusApplied:
	case "":
		status = alttextdomain.StatusGenerated
	default:
		return nil, alttextdomain.ErrInvalidStatus
	}
	if status == alttextdomain.StatusApplied && req.AppliedAt == nil {
		return nil, alttextdomain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	record := alttextdomain.AltTextRecord{
		ID:               s.genID.Generate(),
		StoreID:          req.StoreID,
		ProductID:        req.ProductID,
		ProductName:      req.ProductName,
		ImageID:          req.ImageID,
		ImageURL:         req.ImageURL,
		GeneratedAltText: req.AltText,
		FinalAltText:     req.AltText,
		Status:           status,
		AppliedAt:        req.AppliedAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}, {Name: "product_id"}, {Name: "image_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"generated_alt_text": req.AltText,
			"final_alt_text":     req.AltText,
			"status":             string(status),
			"applied_at":         req.AppliedAt,
			"updated_at":         now,
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, req.StoreID, req.ProductID, req.ImageID)
}

func (s *Service) Get(ctx context.Context, storeID snowflake.ID, productID, imageID string) (*alttextdomain.AltTextRecord, error) {
	if storeID == 0 || productID == "" || imageID == "" {
		return nil, alttextdomain.ErrInvalidKey
	}
	return s.repo.FindOne(ctx, &alttextdomain.AltTextRecord{
		StoreID:   storeID,
		ProductID: productID,
		ImageID:   imageID,
	})
}

func (s *Service) ListByProductIDs(ctx context.Context, storeID snowflake.ID, productIDs []string) ([]*alttextdomain.AltTextRecord, error) {
	if storeID == 0 {
		return nil, alttextdomain.ErrInvalidKey
	}
	if len(productIDs) == 0 {
		return nil, nil
	}
	var records []*alttextdomain.AltTextRecord
	err := s.db.WithContext(ctx).
		Where("store_id = ? AND product_id IN ?", storeID, productIDs).
		Find(&records).Error
	return records, err
}

func (s *Service) Edit(ctx context.Context, storeID snowflake.ID, productID, imageID, text string) error {
	if storeID == 0 || productID == "" || imageID == "" {
		return alttextdomain.ErrInvalidKey
	}
	if strings.TrimSpace(text) == "" {
		return alttextdomain.ErrEmptyAltText
	}

	result := s.db.WithContext(ctx).Model(&alttextdomain.AltTextRecord{}).
		Where("store_id = ? AND product_id = ? AND image_id = ?", storeID, productID, imageID).
		Updates(map[string]any{
			"generated_alt_text": text,
			"final_alt_text":     text,
			"status":             string(alttextdomain.StatusGenerated),
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return alttextdomain.ErrNotFound
	}
	return nil
}

func (s *Service) MarkApplied(ctx context.Context, id snowflake.ID, at time.Time) error {
	result := s.db.WithContext(ctx).Model(&alttextdomain.AltTextRecord{}).
		Where("id = ? AND final_alt_text <> ''", id).
		Updates(map[string]any{
			"status":     string(alttextdomain.StatusApplied),
			"applied_at": at.UTC(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return alttextdomain.ErrNotFound
	}
	return nil
}

func (s *Service) CountByStore(ctx context.Context, storeID snowflake.ID) (int64, int64, error) {
	total, err := s.repo.Count(ctx, &alttextdomain.AltTextRecord{StoreID: storeID})
	if err != nil {
		return 0, 0, err
	}
	applied, err := s.repo.Count(ctx, &alttextdomain.AltTextRecord{
		StoreID: storeID,
		Status:  alttextdomain.StatusApplied,
	})
	if err != nil {
		return 0, 0, err
	}
	return total, applied, nil
}
