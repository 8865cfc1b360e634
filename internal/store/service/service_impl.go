package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
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
	repo  repository.Repository[storedomain.Store]
}

func NewService(p Params) storedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("store.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[storedomain.Store](p.DB),
	}
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*storedomain.Store, error) {
	if id == 0 {
		return nil, storedomain.ErrInvalidStoreID
	}
	store, err := s.repo.FindOne(ctx, &storedomain.Store{ID: id})
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, storedomain.ErrNotFound
	}
	return store, nil
}

func (s *Service) GetBySiteID(ctx context.Context, siteID string) (*storedomain.Store, error) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return nil, storedomain.ErrInvalidSiteID
	}
	store, err := s.repo.FindOne(ctx, &storedomain.Store{SiteID: siteID})
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, storedomain.ErrNotFound
	}
	return store, nil
}

func (s *Service) Connect(ctx context.Context, req storedomain.ConnectRequest) (*storedomain.Store, error) {
	siteID := strings.TrimSpace(req.SiteID)
	if siteID == "" {
		return nil, storedomain.ErrInvalidSiteID
	}

	now := time.Now().UTC()
	record := storedomain.Store{
		ID:              s.genID.Generate(),
		SiteID:          siteID,
		SiteName:        req.SiteName,
		AccessToken:     req.AccessToken,
		Plan:            "free",
		AltTextStyle:    "balanced",
		DefaultLanguage: "en",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Reconnecting refreshes the token and name but keeps credits and prefs.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "site_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"site_name":    req.SiteName,
			"access_token": req.AccessToken,
			"updated_at":   now,
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	return s.GetBySiteID(ctx, siteID)
}

func (s *Service) GetSettings(ctx context.Context, id snowflake.ID) (*storedomain.Settings, error) {
	store, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &storedomain.Settings{
		AltTextStyle:    store.AltTextStyle,
		DefaultLanguage: store.DefaultLanguage,
		AutoProcess:     store.AutoProcess,
	}, nil
}

func (s *Service) UpdateSettings(ctx context.Context, id snowflake.ID, settings storedomain.Settings) error {
	if id == 0 {
		return storedomain.ErrInvalidStoreID
	}
	settings = storedomain.NormalizeSettings(settings)

	result := s.db.WithContext(ctx).Model(&storedomain.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"alt_text_style":   settings.AltTextStyle,
			"default_language": settings.DefaultLanguage,
			"auto_process":     settings.AutoProcess,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storedomain.ErrNotFound
	}
	return nil
}
