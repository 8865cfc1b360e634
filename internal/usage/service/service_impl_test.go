package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	usagedomain "github.com/smallbiznis/specto/internal/usage/domain"
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

func setupUsageService(t *testing.T, node *snowflake.Node) usagedomain.Service {
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

	if err := db.Exec(`CREATE TABLE usage_records (
		id BIGINT PRIMARY KEY,
		store_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		credits_used BIGINT NOT NULL DEFAULT 0,
		product_id TEXT,
		image_id TEXT,
		metadata JSON,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create usage_records: %v", err)
	}

	return NewService(Params{DB: db, Log: zap.NewNop(), GenID: node})
}

func TestAppendValidatesAction(t *testing.T) {
	node := mustNode(t)
	service := setupUsageService(t, node)
	ctx := context.Background()

	err := service.Append(ctx, usagedomain.AppendRequest{
		StoreID: node.Generate(),
		Action:  "MANUAL",
	})
	if !errors.Is(err, usagedomain.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}

	err = service.Append(ctx, usagedomain.AppendRequest{Action: usagedomain.ActionBulk})
	if !errors.Is(err, usagedomain.ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore, got %v", err)
	}
}

func TestAppendAndListNewestFirst(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service := setupUsageService(t, node)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := service.Append(ctx, usagedomain.AppendRequest{
			StoreID:     storeID,
			Action:      usagedomain.ActionBulk,
			CreditsUsed: int64(i + 1),
		}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := service.List(ctx, storeID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected limit of 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.Action != usagedomain.ActionBulk {
			t.Fatalf("unexpected action %s", r.Action)
		}
	}
}

func TestAppendStoresOptionalKeys(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service := setupUsageService(t, node)
	ctx := context.Background()

	if err := service.Append(ctx, usagedomain.AppendRequest{
		StoreID:     storeID,
		Action:      usagedomain.ActionAutoProcess,
		CreditsUsed: 1,
		ProductID:   "prod-1",
		ImageID:     "img-a",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := service.List(ctx, storeID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ProductID == nil || *records[0].ProductID != "prod-1" {
		t.Fatalf("product id not stored: %+v", records[0])
	}
	if records[0].ImageID == nil || *records[0].ImageID != "img-a" {
		t.Fatalf("image id not stored: %+v", records[0])
	}
}
