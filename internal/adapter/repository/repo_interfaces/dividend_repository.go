package repo_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

// DividendRepository guards the state machine in the store. Create rejects a
// second non-cancelled dividend for the same (year, type) with
// domain.ErrDuplicateResource. Distribute performs the APPROVED -> PAID
// compare-and-set and the batch insert in one transaction, so a second call
// can never write a second batch.
type DividendRepository interface {
	Create(ctx context.Context, dividend domain.Dividend) (domain.Dividend, error)
	GetByID(ctx context.Context, id string) (domain.Dividend, error)
	Approve(ctx context.Context, id string) (domain.Dividend, error)
	Cancel(ctx context.Context, id string, reason string) (domain.Dividend, error)
	Distribute(ctx context.Context, id string, rows []domain.DividendDistribution, total decimal.Decimal) (domain.Dividend, error)
	ListDistributions(ctx context.Context, dividendID string) ([]domain.DividendDistribution, error)
}
