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

type DepositRepository struct {
	db *sql.DB
}

func NewDepositRepository(db *sql.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) Create(ctx context.Context, deposit domain.TermDeposit) (domain.TermDeposit, error) {
	logger.Info("deposit repository create", logger.Fields{
		"holderId": deposit.HolderID,
		"product":  deposit.Product,
		"amount":   deposit.Amount.StringFixed(2),
	})

	const query = `
INSERT INTO term_deposits (
	holder_id,
	product,
	amount,
	interest_rate,
	tenure_months,
	start_date,
	maturity_date,
	maturity_amount,
	installments_paid,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		deposit.HolderID,
		deposit.Product,
		deposit.Amount,
		deposit.InterestRate,
		deposit.TenureMonths,
		deposit.StartDate,
		deposit.MaturityDate,
		deposit.MaturityAmount,
		deposit.InstallmentsPaid,
		deposit.Status,
	).Scan(&deposit.ID, &deposit.CreatedAt, &deposit.UpdatedAt)
	if err != nil {
		logger.Error("deposit repository create failed", err, logger.Fields{
			"holderId": deposit.HolderID,
		})
		return domain.TermDeposit{}, fmt.Errorf("create term deposit: %w", err)
	}

	return deposit, nil
}

func (r *DepositRepository) GetByID(ctx context.Context, id string) (domain.TermDeposit, error) {
	deposit, err := scanDeposit(r.db.QueryRowContext(ctx, selectDepositQuery+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TermDeposit{}, fmt.Errorf("term deposit %s: %w", id, domain.ErrNotFound)
		}
		return domain.TermDeposit{}, fmt.Errorf("get term deposit by id: %w", err)
	}
	return deposit, nil
}

// MarkMatured is a compare-and-set on ACTIVE; the maturity amount stays as
// booked.
func (r *DepositRepository) MarkMatured(ctx context.Context, id string) (domain.TermDeposit, error) {
	const query = `
UPDATE term_deposits
SET status = 'MATURED', updated_at = NOW()
WHERE id = $1 AND status = 'ACTIVE'
RETURNING ` + depositColumns

	deposit, err := scanDeposit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TermDeposit{}, r.classifyMissedTransition(ctx, id)
		}
		return domain.TermDeposit{}, fmt.Errorf("mark deposit matured: %w", err)
	}
	return deposit, nil
}

// ClosePrematurely overwrites the maturity amount with the reduced payout
// actually disbursed.
func (r *DepositRepository) ClosePrematurely(ctx context.Context, id string, payout decimal.Decimal) (domain.TermDeposit, error) {
	const query = `
UPDATE term_deposits
SET status = 'PREMATURE_CLOSED', maturity_amount = $2, updated_at = NOW()
WHERE id = $1 AND status = 'ACTIVE'
RETURNING ` + depositColumns

	deposit, err := scanDeposit(r.db.QueryRowContext(ctx, query, id, payout))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TermDeposit{}, r.classifyMissedTransition(ctx, id)
		}
		return domain.TermDeposit{}, fmt.Errorf("close deposit prematurely: %w", err)
	}
	return deposit, nil
}

func (r *DepositRepository) RecordInstallment(ctx context.Context, id string) (domain.TermDeposit, error) {
	const query = `
UPDATE term_deposits
SET installments_paid = installments_paid + 1, updated_at = NOW()
WHERE id = $1
  AND status = 'ACTIVE'
  AND product = 'RECURRING'
  AND installments_paid < tenure_months
RETURNING ` + depositColumns

	deposit, err := scanDeposit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TermDeposit{}, r.classifyMissedInstallment(ctx, id)
		}
		return domain.TermDeposit{}, fmt.Errorf("record deposit installment: %w", err)
	}
	return deposit, nil
}

func (r *DepositRepository) ListDueActive(ctx context.Context, asOf time.Time) ([]domain.TermDeposit, error) {
	const query = selectDepositQuery + `
WHERE status = 'ACTIVE' AND maturity_date <= $1
ORDER BY maturity_date ASC`

	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list due deposits: %w", err)
	}
	defer rows.Close()

	var deposits []domain.TermDeposit
	for rows.Next() {
		var deposit domain.TermDeposit
		if err := scanDepositRow(rows, &deposit); err != nil {
			return nil, fmt.Errorf("scan term deposit: %w", err)
		}
		deposits = append(deposits, deposit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list due deposits: %w", err)
	}

	return deposits, nil
}

// classifyMissedTransition reports why a guarded status update matched no
// rows: either the deposit does not exist or it already left ACTIVE.
func (r *DepositRepository) classifyMissedTransition(ctx context.Context, id string) error {
	deposit, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("term deposit %s is %s: %w", id, deposit.Status, domain.ErrInvalidState)
}

func (r *DepositRepository) classifyMissedInstallment(ctx context.Context, id string) error {
	deposit, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if deposit.Product != domain.DepositProductRecurring {
		return fmt.Errorf("term deposit %s is not a recurring deposit: %w", id, domain.ErrInvalidState)
	}
	if deposit.Status != domain.DepositStatusActive {
		return fmt.Errorf("term deposit %s is %s: %w", id, deposit.Status, domain.ErrInvalidState)
	}
	return fmt.Errorf("term deposit %s already received all %d installments: %w", id, deposit.TenureMonths, domain.ErrInvalidState)
}

const depositColumns = `id, holder_id, product, amount, interest_rate, tenure_months, start_date, maturity_date, maturity_amount, installments_paid, status, created_at, updated_at`

const selectDepositQuery = `
SELECT ` + depositColumns + `
FROM term_deposits`

type depositScanner interface {
	Scan(dest ...any) error
}

func scanDeposit(row *sql.Row) (domain.TermDeposit, error) {
	var deposit domain.TermDeposit
	err := scanDepositRow(row, &deposit)
	return deposit, err
}

func scanDepositRow(s depositScanner, deposit *domain.TermDeposit) error {
	return s.Scan(
		&deposit.ID,
		&deposit.HolderID,
		&deposit.Product,
		&deposit.Amount,
		&deposit.InterestRate,
		&deposit.TenureMonths,
		&deposit.StartDate,
		&deposit.MaturityDate,
		&deposit.MaturityAmount,
		&deposit.InstallmentsPaid,
		&deposit.Status,
		&deposit.CreatedAt,
		&deposit.UpdatedAt,
	)
}
