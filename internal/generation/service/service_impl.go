package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
	"github.com/smallbiznis/specto/internal/config"
	creditsdomain "github.com/smallbiznis/specto/internal/credits/domain"
	generationdomain "github.com/smallbiznis/specto/internal/generation/domain"
	obsmetrics "github.com/smallbiznis/specto/internal/observability/metrics"
	visiondomain "github.com/smallbiznis/specto/internal/providers/vision/domain"
	"github.com/smallbiznis/specto/internal/shaper"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
	usagedomain "github.com/smallbiznis/specto/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	StoreSvc   storedomain.Service
	CreditsSvc creditsdomain.Service
	AltTextSvc alttextdomain.Service
	UsageSvc   usagedomain.Service
	Vision     visiondomain.Client
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log         *zap.Logger
	storeSvc    storedomain.Service
	creditsSvc  creditsdomain.Service
	altTextSvc  alttextdomain.Service
	usageSvc    usagedomain.Service
	vision      visiondomain.Client
	metrics     *obsmetrics.Metrics
	maxInflight int
}

func NewService(p Params) generationdomain.Service {
	maxInflight := p.Config.GenerationMaxInflight
	if maxInflight <= 0 {
		maxInflight = 8
	}
	return &Service{
		log:         p.Log.Named("generation.service"),
		storeSvc:    p.StoreSvc,
		creditsSvc:  p.CreditsSvc,
		altTextSvc:  p.AltTextSvc,
		usageSvc:    p.UsageSvc,
		vision:      p.Vision,
		metrics:     p.Metrics,
		maxInflight: maxInflight,
	}
}

type itemResult struct {
	altText string
	err     error
}

// GenerateBatch reserves one credit per item, fans out generation calls,
// and settles the ledger after every item has finished: commit for
// successes, refund for the rest. A systemic fault refunds whatever part
// of the reservation was not committed before the error propagates.
func (s *Service) GenerateBatch(ctx context.Context, storeID snowflake.ID, items []generationdomain.BatchItem) (*generationdomain.BatchResult, error) {
	if len(items) == 0 {
		return nil, generationdomain.ErrNoItems
	}

	store, err := s.storeSvc.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	reserved := int64(len(items))
	if err := s.creditsSvc.Reserve(ctx, storeID, reserved); err != nil {
		return nil, err
	}

	result, committed, err := s.settleBatch(ctx, store, items)
	if err != nil {
		// Compensate only the uncommitted part of the reservation. A
		// fault after a successful commit must not re-credit what was
		// spent, or the batch would mint credits.
		if remainder := reserved - committed; remainder > 0 {
			if refundErr := s.creditsSvc.Refund(ctx, storeID, remainder); refundErr != nil {
				s.log.Error("refund after batch abort failed",
					zap.String("store_id", storeID.String()),
					zap.Int64("remainder", remainder),
					zap.Error(refundErr),
				)
			}
		}
		return nil, err
	}
	return result, nil
}

// settleBatch runs the fan-out and settles the ledger. The returned
// count is how many credits were committed before a fault, so the
// caller can bound its compensating refund.
func (s *Service) settleBatch(ctx context.Context, store *storedomain.Store, items []generationdomain.BatchItem) (*generationdomain.BatchResult, int64, error) {
	style := visiondomain.NormalizeStyle(store.AltTextStyle)
	styleCfg := visiondomain.ConfigForStyle(style, store.DefaultLanguage)

	results := s.fanOut(ctx, store, style, items)

	batch := &generationdomain.BatchResult{}
	for i, item := range items {
		res := results[i]
		if res.err != nil {
			s.metrics.RecordGeneration(obsmetrics.OutcomeFailed)
			batch.Failed = append(batch.Failed, generationdomain.ItemError{
				ImageID: item.ImageID,
				Reason:  res.err.Error(),
			})
			continue
		}

		shaped := shaper.Shape(res.altText, styleCfg.MaxChars)
		if shaped == "" {
			s.metrics.RecordGeneration(obsmetrics.OutcomeFailed)
			batch.Failed = append(batch.Failed, generationdomain.ItemError{
				ImageID: item.ImageID,
				Reason:  "empty generation result",
			})
			continue
		}

		if _, err := s.altTextSvc.Upsert(ctx, alttextdomain.UpsertRequest{
			StoreID:     store.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ImageID:     item.ImageID,
			ImageURL:    item.ImageURL,
			AltText:     shaped,
			Status:      alttextdomain.StatusGenerated,
		}); err != nil {
			return nil, 0, fmt.Errorf("persist alt text for image %s: %w", item.ImageID, err)
		}

		s.metrics.RecordGeneration(obsmetrics.OutcomeOK)
		batch.SuccessCount++
	}

	reserved := int64(len(items))
	success := int64(batch.SuccessCount)

	if err := s.creditsSvc.Commit(ctx, store.ID, success); err != nil {
		return nil, 0, fmt.Errorf("commit credits: %w", err)
	}
	if err := s.creditsSvc.Refund(ctx, store.ID, reserved-success); err != nil {
		return nil, success, fmt.Errorf("refund unused credits: %w", err)
	}
	s.metrics.RecordCreditsSpent(string(usagedomain.ActionBulk), batch.SuccessCount)

	if err := s.usageSvc.Append(ctx, usagedomain.AppendRequest{
		StoreID:     store.ID,
		Action:      usagedomain.ActionBulk,
		CreditsUsed: success,
	}); err != nil {
		s.log.Warn("failed to append usage record",
			zap.String("store_id", store.ID.String()),
			zap.Error(err),
		)
	}

	return batch, success, nil
}

// fanOut issues one generation call per item, all-settled: every item runs
// to completion regardless of sibling failures, bounded by maxInflight.
// The ledger is not touched until every slot in the results slice is
// filled.
func (s *Service) fanOut(ctx context.Context, store *storedomain.Store, style visiondomain.Style, items []generationdomain.BatchItem) []itemResult {
	results := make([]itemResult, len(items))
	sem := make(chan struct{}, s.maxInflight)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(idx int, it generationdomain.BatchItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := s.vision.Generate(ctx, visiondomain.GenerateRequest{
				ImageURL: it.ImageURL,
				Context: visiondomain.ProductContext{
					Name:        it.ProductName,
					Vendor:      it.Vendor,
					ProductType: it.ProductType,
					Tags:        it.Tags,
					Description: it.Description,
				},
				Style:    style,
				Language: store.DefaultLanguage,
			})
			if err != nil {
				results[idx] = itemResult{err: err}
				return
			}
			results[idx] = itemResult{altText: res.AltText}
		}(i, item)
	}
	wg.Wait()

	return results
}
