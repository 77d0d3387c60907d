package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

// DepositRepository transitions are compare-and-set on the ACTIVE status, so
// each deposit leaves ACTIVE exactly once. MarkMatured keeps the maturity
// amount as booked; ClosePrematurely overwrites it with the reduced payout.
type DepositRepository interface {
	Create(ctx context.Context, deposit domain.TermDeposit) (domain.TermDeposit, error)
	GetByID(ctx context.Context, id string) (domain.TermDeposit, error)
	MarkMatured(ctx context.Context, id string) (domain.TermDeposit, error)
	ClosePrematurely(ctx context.Context, id string, payout decimal.Decimal) (domain.TermDeposit, error)
	RecordInstallment(ctx context.Context, id string) (domain.TermDeposit, error)
	ListDueActive(ctx context.Context, asOf time.Time) ([]domain.TermDeposit, error)
}
