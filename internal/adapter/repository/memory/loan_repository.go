package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

type LoanRepository struct {
	store *Store
}

func NewLoanRepository(store *Store) *LoanRepository {
	return &LoanRepository{store: store}
}

func (r *LoanRepository) Create(_ context.Context, loan domain.Loan) (domain.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan.ID = newID()
	loan.CreatedAt = now()
	loan.UpdatedAt = loan.CreatedAt
	r.store.loans[loan.ID] = loan
	return loan, nil
}

func (r *LoanRepository) GetByID(_ context.Context, id string) (domain.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan, ok := r.store.loans[id]
	if !ok {
		return domain.Loan{}, fmt.Errorf("loan %s: %w", id, domain.ErrNotFound)
	}
	return loan, nil
}

func (r *LoanRepository) HasOpenLoanForBorrower(_ context.Context, borrowerID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, loan := range r.store.loans {
		if loan.BorrowerID == borrowerID && loan.Status.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r *LoanRepository) ApplyRepayment(_ context.Context, loanID string, amount decimal.Decimal, paymentDate time.Time) (domain.Loan, domain.Repayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan, ok := r.store.loans[loanID]
	if !ok {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("loan %s: %w", loanID, domain.ErrNotFound)
	}
	if loan.Status == domain.LoanStatusClosed || loan.Status == domain.LoanStatusDefaulted {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("loan %s is %s: %w", loanID, loan.Status, domain.ErrInvalidState)
	}
	if amount.GreaterThan(loan.OutstandingAmount) {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("repayment %s exceeds outstanding %s on loan %s: %w",
			amount.StringFixed(2), loan.OutstandingAmount.StringFixed(2), loanID, domain.ErrInsufficientResource)
	}

	loan.OutstandingAmount = loan.OutstandingAmount.Sub(amount)
	loan.UpdatedAt = now()
	if loan.OutstandingAmount.IsZero() {
		loan.Status = domain.LoanStatusClosed
	}
	r.store.loans[loan.ID] = loan

	repayment := domain.Repayment{
		ID:          newID(),
		LoanID:      loan.ID,
		Amount:      amount,
		PaymentDate: paymentDate,
		CreatedAt:   loan.UpdatedAt,
	}
	r.store.repayments[loan.ID] = append(r.store.repayments[loan.ID], repayment)

	return loan, repayment, nil
}

func (r *LoanRepository) ListRepayments(_ context.Context, loanID string) ([]domain.Repayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	repayments := r.store.repayments[loanID]
	out := make([]domain.Repayment, len(repayments))
	copy(out, repayments)
	return out, nil
}
