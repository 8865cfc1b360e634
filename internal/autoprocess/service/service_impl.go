package service

import (
	"context"
	"errors"
	"strings"
	"time"

	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
	autoprocessdomain "github.com/smallbiznis/specto/internal/autoprocess/domain"
	creditsdomain "github.com/smallbiznis/specto/internal/credits/domain"
	obsmetrics "github.com/smallbiznis/specto/internal/observability/metrics"
	commercedomain "github.com/smallbiznis/specto/internal/providers/commerce/domain"
	visiondomain "github.com/smallbiznis/specto/internal/providers/vision/domain"
	"github.com/smallbiznis/specto/internal/ratelimit"
	"github.com/smallbiznis/specto/internal/shaper"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
	usagedomain "github.com/smallbiznis/specto/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	StoreSvc   storedomain.Service
	CreditsSvc creditsdomain.Service
	AltTextSvc alttextdomain.Service
	UsageSvc   usagedomain.Service
	Vision     visiondomain.Client
	Commerce   commercedomain.Client
	StoreLock  ratelimit.StoreLock
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	storeSvc   storedomain.Service
	creditsSvc creditsdomain.Service
	altTextSvc alttextdomain.Service
	usageSvc   usagedomain.Service
	vision     visiondomain.Client
	commerce   commercedomain.Client
	storeLock  ratelimit.StoreLock
	metrics    *obsmetrics.Metrics
}

func NewService(p Params) autoprocessdomain.Service {
	return &Service{
		log:        p.Log.Named("autoprocess.service"),
		storeSvc:   p.StoreSvc,
		creditsSvc: p.CreditsSvc,
		altTextSvc: p.AltTextSvc,
		usageSvc:   p.UsageSvc,
		vision:     p.Vision,
		commerce:   p.Commerce,
		storeLock:  p.StoreLock,
		metrics:    p.Metrics,
	}
}

// Process walks one event through the state machine: Ignored (not a
// product topic, unknown store, opt-out, or empty balance), Selecting
// (images missing alt text, capped by the remaining balance), then a
// strictly sequential Processing loop debiting one credit per finished
// image. A failed image is logged and skipped without a debit; the run
// stops silently when the balance is exhausted.
func (s *Service) Process(ctx context.Context, event autoprocessdomain.Event) (*autoprocessdomain.Result, error) {
	ignored := &autoprocessdomain.Result{Outcome: autoprocessdomain.OutcomeIgnored}

	productID := strings.TrimSpace(event.ProductID())
	if !autoprocessdomain.IsProductTopic(event.Topic) || productID == "" {
		s.metrics.RecordWebhookEvent(obsmetrics.StateIgnored)
		return ignored, nil
	}

	store, err := s.storeSvc.GetBySiteID(ctx, event.SiteID)
	if err != nil {
		if errors.Is(err, storedomain.ErrNotFound) || errors.Is(err, storedomain.ErrInvalidSiteID) {
			s.metrics.RecordWebhookEvent(obsmetrics.StateIgnored)
			return ignored, nil
		}
		return nil, err
	}
	if !store.AutoProcess || store.CreditsRemaining <= 0 {
		s.metrics.RecordWebhookEvent(obsmetrics.StateIgnored)
		return ignored, nil
	}

	// Two events for the same store must not interleave their debit
	// loops; events for different stores run in parallel.
	release, err := s.storeLock.Acquire(ctx, int64(store.ID))
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read inside the lock: a concurrent event may have spent the
	// balance while this one waited.
	store, err = s.storeSvc.GetByID(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if store.CreditsRemaining <= 0 {
		s.metrics.RecordWebhookEvent(obsmetrics.StateIgnored)
		return ignored, nil
	}

	product, err := s.commerce.GetProduct(ctx, store.AccessToken, productID)
	if err != nil {
		return nil, err
	}

	selected := selectImages(product.Images, store.CreditsRemaining)
	if len(selected) == 0 {
		s.metrics.RecordWebhookEvent(obsmetrics.StateIgnored)
		return ignored, nil
	}

	result := &autoprocessdomain.Result{
		Outcome:  autoprocessdomain.OutcomeProcessed,
		Selected: len(selected),
	}

	style := visiondomain.NormalizeStyle(store.AltTextStyle)
	styleCfg := visiondomain.ConfigForStyle(style, store.DefaultLanguage)
	productCtx := visiondomain.ProductContext{
		Name:        product.Title,
		Tags:        product.Tags,
		Description: product.Description,
	}

	for _, image := range selected {
		if err := s.processImage(ctx, store, product, productCtx, style, styleCfg, image); err != nil {
			var insufficient *creditsdomain.ErrInsufficientCredits
			if errors.As(err, &insufficient) {
				// Balance raced to zero. Stop silently; the next event
				// retries independently.
				break
			}
			s.log.Warn("auto-process image failed",
				zap.String("store_id", store.ID.String()),
				zap.String("product_id", product.ID),
				zap.String("image_id", image.ID),
				zap.Error(err),
			)
			continue
		}
		result.Processed++
	}

	s.metrics.RecordWebhookEvent(obsmetrics.StateProcessed)
	s.metrics.RecordCreditsSpent(string(usagedomain.ActionAutoProcess), result.Processed)
	return result, nil
}

// processImage runs generate → push → record → debit for one image. The
// debit happens last so a failed image never spends a credit.
func (s *Service) processImage(
	ctx context.Context,
	store *storedomain.Store,
	product *commercedomain.Product,
	productCtx visiondomain.ProductContext,
	style visiondomain.Style,
	styleCfg visiondomain.StyleConfig,
	image commercedomain.Image,
) error {
	generated, err := s.vision.Generate(ctx, visiondomain.GenerateRequest{
		ImageURL: image.URL,
		Context:  productCtx,
		Style:    style,
		Language: store.DefaultLanguage,
	})
	if err != nil {
		return err
	}

	shaped := shaper.Shape(generated.AltText, styleCfg.MaxChars)
	if shaped == "" {
		return visiondomain.ErrEmptyResponse
	}

	if err := s.commerce.UpdateImageAltText(ctx, store.AccessToken, product.ID, image.ID, shaped); err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := s.altTextSvc.Upsert(ctx, alttextdomain.UpsertRequest{
		StoreID:     store.ID,
		ProductID:   product.ID,
		ProductName: product.Title,
		ImageID:     image.ID,
		ImageURL:    image.URL,
		AltText:     shaped,
		Status:      alttextdomain.StatusApplied,
		AppliedAt:   &now,
	}); err != nil {
		return err
	}

	if err := s.creditsSvc.Debit(ctx, store.ID); err != nil {
		return err
	}

	if err := s.usageSvc.Append(ctx, usagedomain.AppendRequest{
		StoreID:     store.ID,
		Action:      usagedomain.ActionAutoProcess,
		CreditsUsed: 1,
		ProductID:   product.ID,
		ImageID:     image.ID,
	}); err != nil {
		s.log.Warn("failed to append usage record",
			zap.String("store_id", store.ID.String()),
			zap.String("image_id", image.ID),
			zap.Error(err),
		)
	}

	return nil
}

// selectImages picks images with empty remote alt text, earliest first,
// never more than the balance allows.
func selectImages(images []commercedomain.Image, creditsRemaining int64) []commercedomain.Image {
	var selected []commercedomain.Image
	for _, img := range images {
		if int64(len(selected)) >= creditsRemaining {
			break
		}
		if strings.TrimSpace(img.AltText) == "" {
			selected = append(selected, img)
		}
	}
	return selected
}
