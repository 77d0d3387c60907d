package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
)

// ShareRepository keeps member positions derived from the transaction
// ledger. Transfer verifies both parties exist and are active, rechecks the
// source position and writes the debit/credit pair in one store transaction;
// a partial transfer is never observable. An inactive party fails with
// domain.ErrInvalidState.
type ShareRepository interface {
	Allocate(ctx context.Context, holding domain.ShareHolding, txn domain.ShareTransaction) (domain.ShareHolding, error)
	Transfer(ctx context.Context, debit domain.ShareTransaction, credit domain.ShareTransaction) error
	BalanceForMember(ctx context.Context, memberID string) (int64, error)
	ListTransactions(ctx context.Context, memberID string) ([]domain.ShareTransaction, error)
	PositionsAsOf(ctx context.Context, recordDate time.Time) ([]domain.ShareholderPosition, error)
}
