package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
	applydomain "github.com/smallbiznis/specto/internal/apply/domain"
	obsmetrics "github.com/smallbiznis/specto/internal/observability/metrics"
	commercedomain "github.com/smallbiznis/specto/internal/providers/commerce/domain"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	StoreSvc   storedomain.Service
	AltTextSvc alttextdomain.Service
	Commerce   commercedomain.Client
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	storeSvc   storedomain.Service
	altTextSvc alttextdomain.Service
	commerce   commercedomain.Client
	metrics    *obsmetrics.Metrics
}

func NewService(p Params) applydomain.Service {
	return &Service{
		log:        p.Log.Named("apply.service"),
		storeSvc:   p.StoreSvc,
		altTextSvc: p.AltTextSvc,
		commerce:   p.Commerce,
		metrics:    p.Metrics,
	}
}

// ApplyBatch pushes each item's final text independently: a failed push
// lands in FailedIDs and the loop moves on, it never blocks or rolls back
// siblings.
func (s *Service) ApplyBatch(ctx context.Context, storeID snowflake.ID, items []applydomain.ApplyItem) (*applydomain.ApplyResult, error) {
	if len(items) == 0 {
		return nil, applydomain.ErrNoItems
	}

	store, err := s.storeSvc.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	result := &applydomain.ApplyResult{}
	for _, item := range items {
		record, err := s.altTextSvc.Get(ctx, storeID, item.ProductID, item.ImageID)
		if err != nil {
			s.log.Warn("lookup alt text record failed",
				zap.String("store_id", storeID.String()),
				zap.String("image_id", item.ImageID),
				zap.Error(err),
			)
			result.FailedIDs = append(result.FailedIDs, item.ImageID)
			s.metrics.RecordApply(obsmetrics.OutcomeFailed)
			continue
		}
		if record == nil || record.FinalAltText == "" {
			// Nothing to apply. Not an error, not counted.
			continue
		}

		if err := s.commerce.UpdateImageAltText(ctx, store.AccessToken, item.ProductID, item.ImageID, record.FinalAltText); err != nil {
			s.log.Warn("apply alt text failed",
				zap.String("store_id", storeID.String()),
				zap.String("product_id", item.ProductID),
				zap.String("image_id", item.ImageID),
				zap.Error(err),
			)
			result.FailedIDs = append(result.FailedIDs, item.ImageID)
			s.metrics.RecordApply(obsmetrics.OutcomeFailed)
			continue
		}

		if err := s.altTextSvc.MarkApplied(ctx, record.ID, time.Now().UTC()); err != nil {
			s.log.Warn("mark applied failed",
				zap.String("store_id", storeID.String()),
				zap.String("image_id", item.ImageID),
				zap.Error(err),
			)
			result.FailedIDs = append(result.FailedIDs, item.ImageID)
			s.metrics.RecordApply(obsmetrics.OutcomeFailed)
			continue
		}

		result.AppliedCount++
		s.metrics.RecordApply(obsmetrics.OutcomeOK)
	}

	return result, nil
}

func (s *Service) Edit(ctx context.Context, storeID snowflake.ID, productID, imageID, text string) error {
	return s.altTextSvc.Edit(ctx, storeID, productID, imageID, text)
}
