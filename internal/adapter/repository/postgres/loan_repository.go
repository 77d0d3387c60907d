package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/shopspring/decimal"
)

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Create(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	logger.Info("loan repository create", logger.Fields{
		"borrowerId": loan.BorrowerID,
		"principal":  loan.PrincipalAmount.StringFixed(2),
	})

	const query = `
INSERT INTO loans (
	borrower_id,
	principal_amount,
	interest_rate,
	tenure_months,
	outstanding_amount,
	status
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		loan.BorrowerID,
		loan.PrincipalAmount,
		loan.InterestRate,
		loan.TenureMonths,
		loan.OutstandingAmount,
		loan.Status,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		logger.Error("loan repository create failed", err, logger.Fields{
			"borrowerId": loan.BorrowerID,
		})
		return domain.Loan{}, fmt.Errorf("create loan: %w", err)
	}

	return loan, nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (domain.Loan, error) {
	loan, err := scanLoan(r.db.QueryRowContext(ctx, selectLoanQuery+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, fmt.Errorf("loan %s: %w", id, domain.ErrNotFound)
		}
		return domain.Loan{}, fmt.Errorf("get loan by id: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) HasOpenLoanForBorrower(ctx context.Context, borrowerID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM loans
	WHERE borrower_id = $1
	  AND status <> 'CLOSED'
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, borrowerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open loan for borrower: %w", err)
	}
	return exists, nil
}

// ApplyRepayment holds the loan row locked from the overpayment check
// through the outstanding decrement and the repayment insert.
func (r *LoanRepository) ApplyRepayment(ctx context.Context, loanID string, amount decimal.Decimal, paymentDate time.Time) (domain.Loan, domain.Repayment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("begin tx: %w", err)
	}

	loan, repayment, err := applyRepaymentTx(ctx, tx, loanID, amount, paymentDate)
	if err != nil {
		_ = tx.Rollback()
		if isSerializationFailure(err) {
			return domain.Loan{}, domain.Repayment{}, fmt.Errorf("repayment lost a concurrent race: %w", domain.ErrConcurrencyConflict)
		}
		return domain.Loan{}, domain.Repayment{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("commit tx: %w", err)
	}
	return loan, repayment, nil
}

func applyRepaymentTx(ctx context.Context, tx *sql.Tx, loanID string, amount decimal.Decimal, paymentDate time.Time) (domain.Loan, domain.Repayment, error) {
	loan, err := scanLoan(tx.QueryRowContext(ctx, selectLoanQuery+` WHERE id = $1 FOR UPDATE`, loanID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, domain.Repayment{}, fmt.Errorf("loan %s: %w", loanID, domain.ErrNotFound)
		}
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("lock loan: %w", err)
	}

	if loan.Status == domain.LoanStatusClosed || loan.Status == domain.LoanStatusDefaulted {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("loan %s is %s: %w", loanID, loan.Status, domain.ErrInvalidState)
	}
	if amount.GreaterThan(loan.OutstandingAmount) {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("repayment %s exceeds outstanding %s on loan %s: %w",
			amount.StringFixed(2), loan.OutstandingAmount.StringFixed(2), loanID, domain.ErrInsufficientResource)
	}

	loan.OutstandingAmount = loan.OutstandingAmount.Sub(amount)
	if loan.OutstandingAmount.IsZero() {
		loan.Status = domain.LoanStatusClosed
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE loans SET outstanding_amount = $2, status = $3, updated_at = NOW() WHERE id = $1`,
		loan.ID, loan.OutstandingAmount, loan.Status,
	); err != nil {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("update loan outstanding: %w", err)
	}

	repayment := domain.Repayment{
		LoanID:      loan.ID,
		Amount:      amount,
		PaymentDate: paymentDate,
	}
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO repayments (loan_id, amount, payment_date) VALUES ($1, $2, $3) RETURNING id, created_at`,
		repayment.LoanID, repayment.Amount, repayment.PaymentDate,
	).Scan(&repayment.ID, &repayment.CreatedAt); err != nil {
		return domain.Loan{}, domain.Repayment{}, fmt.Errorf("record repayment: %w", err)
	}

	return loan, repayment, nil
}

func (r *LoanRepository) ListRepayments(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	const query = `
SELECT id, loan_id, amount, payment_date, created_at
FROM repayments
WHERE loan_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("list repayments: %w", err)
	}
	defer rows.Close()

	var repayments []domain.Repayment
	for rows.Next() {
		var repayment domain.Repayment
		if err := rows.Scan(
			&repayment.ID,
			&repayment.LoanID,
			&repayment.Amount,
			&repayment.PaymentDate,
			&repayment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan repayment: %w", err)
		}
		repayments = append(repayments, repayment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list repayments: %w", err)
	}

	return repayments, nil
}

const selectLoanQuery = `
SELECT id, borrower_id, principal_amount, interest_rate, tenure_months, outstanding_amount, status, created_at, updated_at
FROM loans`

func scanLoan(row *sql.Row) (domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(
		&loan.ID,
		&loan.BorrowerID,
		&loan.PrincipalAmount,
		&loan.InterestRate,
		&loan.TenureMonths,
		&loan.OutstandingAmount,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	return loan, err
}
