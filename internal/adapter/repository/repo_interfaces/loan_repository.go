package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

// LoanRepository applies repayments atomically: the overpayment check, the
// outstanding decrement, the repayment insert and the close-at-zero
// transition are one store transaction per loan.
type LoanRepository interface {
	Create(ctx context.Context, loan domain.Loan) (domain.Loan, error)
	GetByID(ctx context.Context, id string) (domain.Loan, error)
	HasOpenLoanForBorrower(ctx context.Context, borrowerID string) (bool, error)
	ApplyRepayment(ctx context.Context, loanID string, amount decimal.Decimal, paymentDate time.Time) (domain.Loan, domain.Repayment, error)
	ListRepayments(ctx context.Context, loanID string) ([]domain.Repayment, error)
}
