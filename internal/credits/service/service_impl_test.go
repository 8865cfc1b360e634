package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	creditsdomain "github.com/smallbiznis/specto/internal/credits/domain"
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

func setupCreditsService(t *testing.T) (creditsdomain.Service, *gorm.DB) {
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
	prepareStoreSchema(t, db)

	return NewService(Params{DB: db, Log: zap.NewNop()}), db
}

func prepareStoreSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE stores (
		id BIGINT PRIMARY KEY,
		site_id TEXT NOT NULL UNIQUE,
		site_name TEXT NOT NULL DEFAULT '',
		access_token TEXT NOT NULL DEFAULT '',
		plan TEXT NOT NULL DEFAULT 'free',
		credits_remaining BIGINT NOT NULL DEFAULT 0,
		credits_used BIGINT NOT NULL DEFAULT 0,
		alt_text_style TEXT NOT NULL DEFAULT 'balanced',
		default_language TEXT NOT NULL DEFAULT 'en',
		auto_process BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create stores: %v", err)
	}
}

func seedStore(t *testing.T, db *gorm.DB, id snowflake.ID, credits int64) {
	t.Helper()
	if err := db.Exec(
		`INSERT INTO stores (id, site_id, credits_remaining) VALUES (?, ?, ?)`,
		id, fmt.Sprintf("site-%s", id.String()), credits,
	).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func TestReserveCommitRefundConservation(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, db := setupCreditsService(t)
	seedStore(t, db, storeID, 5)
	ctx := context.Background()

	if err := service.Reserve(ctx, storeID, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := service.Commit(ctx, storeID, 2); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := service.Refund(ctx, storeID, 1); err != nil {
		t.Fatalf("refund: %v", err)
	}

	remaining, used, err := service.Balance(ctx, storeID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if remaining != 3 || used != 2 {
		t.Fatalf("expected remaining=3 used=2, got remaining=%d used=%d", remaining, used)
	}
}

func TestReserveInsufficientLeavesBalanceUntouched(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, db := setupCreditsService(t)
	seedStore(t, db, storeID, 3)
	ctx := context.Background()

	err := service.Reserve(ctx, storeID, 5)
	var insufficient *creditsdomain.ErrInsufficientCredits
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if insufficient.Required != 5 || insufficient.Available != 3 {
		t.Fatalf("expected required=5 available=3, got %+v", insufficient)
	}

	remaining, used, err := service.Balance(ctx, storeID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if remaining != 3 || used != 0 {
		t.Fatalf("failed reserve mutated balance: remaining=%d used=%d", remaining, used)
	}
}

func TestConcurrentReserveNeverOverdraws(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, db := setupCreditsService(t)
	seedStore(t, db, storeID, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- service.Reserve(ctx, storeID, 1)
		}()
	}
	wg.Wait()
	close(errs)

	granted := 0
	for err := range errs {
		if err == nil {
			granted++
			continue
		}
		var insufficient *creditsdomain.ErrInsufficientCredits
		if !errors.As(err, &insufficient) {
			t.Fatalf("unexpected reserve error: %v", err)
		}
	}
	if granted != 10 {
		t.Fatalf("expected exactly 10 granted reservations, got %d", granted)
	}

	remaining, _, err := service.Balance(ctx, storeID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", remaining)
	}
}

func TestDebitStopsAtZero(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, db := setupCreditsService(t)
	seedStore(t, db, storeID, 1)
	ctx := context.Background()

	if err := service.Debit(ctx, storeID); err != nil {
		t.Fatalf("first debit: %v", err)
	}

	err := service.Debit(ctx, storeID)
	var insufficient *creditsdomain.ErrInsufficientCredits
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientCredits on empty balance, got %v", err)
	}

	remaining, used, err := service.Balance(ctx, storeID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if remaining != 0 || used != 1 {
		t.Fatalf("expected remaining=0 used=1, got remaining=%d used=%d", remaining, used)
	}
}

func TestReserveValidation(t *testing.T) {
	service, _ := setupCreditsService(t)
	ctx := context.Background()

	if err := service.Reserve(ctx, 0, 1); !errors.Is(err, creditsdomain.ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore, got %v", err)
	}
	if err := service.Reserve(ctx, mustNode(t).Generate(), 0); !errors.Is(err, creditsdomain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRefundNonPositiveIsNoop(t *testing.T) {
	node := mustNode(t)
	storeID := node.Generate()
	service, db := setupCreditsService(t)
	seedStore(t, db, storeID, 2)
	ctx := context.Background()

	if err := service.Refund(ctx, storeID, 0); err != nil {
		t.Fatalf("refund zero: %v", err)
	}
	if err := service.Refund(ctx, storeID, -3); err != nil {
		t.Fatalf("refund negative: %v", err)
	}

	remaining, _, err := service.Balance(ctx, storeID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("no-op refund mutated balance: %d", remaining)
	}
}
