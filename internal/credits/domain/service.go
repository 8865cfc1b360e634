package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// ErrInsufficientCredits reports a reservation shortfall. No state has
// changed when it is returned.
type ErrInsufficientCredits struct {
	Required  int64
	Available int64
}

func (e *ErrInsufficientCredits) Error() string {
	return fmt.Sprintf("insufficient_credits: need %d, have %d", e.Required, e.Available)
}

var (
	ErrInvalidStore  = errors.New("invalid_store")
	ErrInvalidAmount = errors.New("invalid_amount")
)

// Service mediates all mutation of a store's credit counters.
//
// The reserve-then-compensate contract: Reserve(n) followed by
// Commit(used) and Refund(n-used) leaves the ledger exactly as if only
// `used` credits had ever been spent. A caller that aborts after Reserve
// and before Commit must Refund the full reservation.
type Service interface {
	// Reserve atomically decrements the remaining balance by n only when
	// the current balance covers it. Safe against concurrent reservations
	// for the same store.
	Reserve(ctx context.Context, storeID snowflake.ID, n int64) error
	// Commit records n credits as consumed. The balance was already
	// decremented at reservation time.
	Commit(ctx context.Context, storeID snowflake.ID, used int64) error
	// Refund returns n unused reserved credits to the balance. n <= 0 is
	// a no-op.
	Refund(ctx context.Context, storeID snowflake.ID, n int64) error
	// Debit spends exactly one credit without a prior reservation,
	// failing when the balance is empty. Used by the auto-processor's
	// per-image loop.
	Debit(ctx context.Context, storeID snowflake.ID) error
	// Balance reports (remaining, used).
	Balance(ctx context.Context, storeID snowflake.ID) (int64, int64, error)
}
