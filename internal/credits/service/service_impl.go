package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	creditsdomain "github.com/smallbiznis/specto/internal/credits/domain"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) creditsdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("credits.service"),
	}
}

// Reserve is a single conditional decrement: the balance check and the
// decrement happen in one statement so two concurrent reservations can
// never jointly overdraw a store.
func (s *Service) Reserve(ctx context.Context, storeID snowflake.ID, n int64) error {
	if storeID == 0 {
		return creditsdomain.ErrInvalidStore
	}
	if n <= 0 {
		return creditsdomain.ErrInvalidAmount
	}

	result := s.db.WithContext(ctx).Exec(
		`UPDATE stores
		 SET credits_remaining = credits_remaining - ?, updated_at = ?
		 WHERE id = ? AND credits_remaining >= ?`,
		n, time.Now().UTC(), storeID, n,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		remaining, _, err := s.Balance(ctx, storeID)
		if err != nil {
			return err
		}
		return &creditsdomain.ErrInsufficientCredits{Required: n, Available: remaining}
	}
	return nil
}

func (s *Service) Commit(ctx context.Context, storeID snowflake.ID, used int64) error {
	if storeID == 0 {
		return creditsdomain.ErrInvalidStore
	}
	if used < 0 {
		return creditsdomain.ErrInvalidAmount
	}
	if used == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Exec(
		`UPDATE stores
		 SET credits_used = credits_used + ?, updated_at = ?
		 WHERE id = ?`,
		used, time.Now().UTC(), storeID,
	).Error
}

func (s *Service) Refund(ctx context.Context, storeID snowflake.ID, n int64) error {
	if storeID == 0 {
		return creditsdomain.ErrInvalidStore
	}
	if n <= 0 {
		return nil
	}

	return s.db.WithContext(ctx).Exec(
		`UPDATE stores
		 SET credits_remaining = credits_remaining + ?, updated_at = ?
		 WHERE id = ?`,
		n, time.Now().UTC(), storeID,
	).Error
}

func (s *Service) Debit(ctx context.Context, storeID snowflake.ID) error {
	if storeID == 0 {
		return creditsdomain.ErrInvalidStore
	}

	result := s.db.WithContext(ctx).Exec(
		`UPDATE stores
		 SET credits_remaining = credits_remaining - 1,
		     credits_used = credits_used + 1,
		     updated_at = ?
		 WHERE id = ? AND credits_remaining >= 1`,
		time.Now().UTC(), storeID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &creditsdomain.ErrInsufficientCredits{Required: 1, Available: 0}
	}
	return nil
}

func (s *Service) Balance(ctx context.Context, storeID snowflake.ID) (int64, int64, error) {
	var store storedomain.Store
	err := s.db.WithContext(ctx).
		Select("credits_remaining", "credits_used").
		Where("id = ?", storeID).
		First(&store).Error
	if err != nil {
		return 0, 0, err
	}
	return store.CreditsRemaining, store.CreditsUsed, nil
}
