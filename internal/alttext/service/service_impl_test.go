package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func setupAltTextService(t *testing.T, node *snowflake.Node) (alttextdomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	if err := db.Exec(`CREATE TABLE alt_text_records (
		id BIGINT PRIMARY KEY,
		store_id BIGINT NOT NULL,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		image_id TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		generated_alt_text TEXT NOT NULL DEFAULT '',
		final_alt_text TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'GENERATED',
		applied_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create alt_text_records: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX ux_alt_text_store_product_image
		ON alt_text_records (store_id, product_id, image_id)`).Error; err != nil {
		t.Fatalf("create unique index: %v", err)
	}

	return NewService(Params{DB: db, Log: zap.NewNop(), GenID: node}), db
}

func TestUpsertIsIdempotentOnCompositeKey(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, db := setupAltTextService(t, node)
	ctx := context.Background()

	req := alttextdomain.UpsertRequest{
		StoreID:     storeID,
		ProductID:   "prod-1",
		ProductName: "Ceramic Mug",
		ImageID:     "img-a",
		ImageURL:    "https://img.example/a",
		AltText:     "A hand-thrown ceramic mug",
	}

	first, err := service.Upsert(ctx, req)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	req.AltText = "A hand-thrown ceramic mug on a wooden table"
	second, err := service.Upsert(ctx, req)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("upsert replaced the row instead of updating: %s vs %s", first.ID, second.ID)
	}
	if second.FinalAltText != "A hand-thrown ceramic mug on a wooden table" {
		t.Fatalf("second upsert did not refresh text: %q", second.FinalAltText)
	}

	var count int64
	if err := db.Model(&alttextdomain.AltTextRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
}

func TestUpsertValidation(t *testing.T) {
	node := mustNode(t)
	service, _ := setupAltTextService(t, node)
	ctx := context.Background()

	_, err := service.Upsert(ctx, alttextdomain.UpsertRequest{ProductID: "p", ImageID: "i", AltText: "x"})
	if !errors.Is(err, alttextdomain.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for missing store, got %v", err)
	}

	_, err = service.Upsert(ctx, alttextdomain.UpsertRequest{
		StoreID: node.Generate(), ProductID: "p", ImageID: "i", AltText: "  ",
	})
	if !errors.Is(err, alttextdomain.ErrEmptyAltText) {
		t.Fatalf("expected ErrEmptyAltText, got %v", err)
	}

	_, err = service.Upsert(ctx, alttextdomain.UpsertRequest{
		StoreID: node.Generate(), ProductID: "p", ImageID: "i", AltText: "x",
		Status: alttextdomain.StatusApplied,
	})
	if !errors.Is(err, alttextdomain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for APPLIED without timestamp, got %v", err)
	}
}

func TestEditResetsStatusToGenerated(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, _ := setupAltTextService(t, node)
	ctx := context.Background()

	now := time.Now().UTC()
	record, err := service.Upsert(ctx, alttextdomain.UpsertRequest{
		StoreID:   storeID,
		ProductID: "prod-1",
		ImageID:   "img-a",
		AltText:   "A red shoe",
		Status:    alttextdomain.StatusApplied,
		AppliedAt: &now,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if record.Status != alttextdomain.StatusApplied {
		t.Fatalf("expected APPLIED, got %s", record.Status)
	}

	if err := service.Edit(ctx, storeID, "prod-1", "img-a", "A bright red leather shoe"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	edited, err := service.Get(ctx, storeID, "prod-1", "img-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if edited.Status != alttextdomain.StatusGenerated {
		t.Fatalf("edit must drop status back to GENERATED, got %s", edited.Status)
	}
	if edited.FinalAltText != "A bright red leather shoe" {
		t.Fatalf("edit did not store text: %q", edited.FinalAltText)
	}
}

func TestEditUnknownRecord(t *testing.T) {
	node := mustNode(t)
	service, _ := setupAltTextService(t, node)

	err := service.Edit(context.Background(), node.Generate(), "prod-x", "img-x", "text")
	if !errors.Is(err, alttextdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkAppliedAndCounts(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, _ := setupAltTextService(t, node)
	ctx := context.Background()

	a, err := service.Upsert(ctx, alttextdomain.UpsertRequest{
		StoreID: storeID, ProductID: "prod-1", ImageID: "img-a", AltText: "A mug",
	})
	if err != nil {
		t.Fatalf("upsert a: %v", err)
	}
	if _, err := service.Upsert(ctx, alttextdomain.UpsertRequest{
		StoreID: storeID, ProductID: "prod-1", ImageID: "img-b", AltText: "A bowl",
	}); err != nil {
		t.Fatalf("upsert b: %v", err)
	}

	if err := service.MarkApplied(ctx, a.ID, time.Now().UTC()); err != nil {
		t.Fatalf("mark applied: %v", err)
	}

	total, applied, err := service.CountByStore(ctx, storeID)
	if err != nil {
		t.Fatalf("count by store: %v", err)
	}
	if total != 2 || applied != 1 {
		t.Fatalf("expected total=2 applied=1, got total=%d applied=%d", total, applied)
	}
}

func TestListByProductIDs(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, _ := setupAltTextService(t, node)
	ctx := context.Background()

	for _, key := range []struct{ product, image string }{
		{"prod-1", "img-a"},
		{"prod-1", "img-b"},
		{"prod-2", "img-c"},
	} {
		if _, err := service.Upsert(ctx, alttextdomain.UpsertRequest{
			StoreID: storeID, ProductID: key.product, ImageID: key.image, AltText: "Alt text",
		}); err != nil {
			t.Fatalf("upsert %s/%s: %v", key.product, key.image, err)
		}
	}

	records, err := service.ListByProductIDs(ctx, storeID, []string{"prod-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records for prod-1, got %d", len(records))
	}

	empty, err := service.ListByProductIDs(ctx, storeID, nil)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no records for empty filter, got %d", len(empty))
	}
}
