package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/shopspring/decimal"
)

type DividendRepository struct {
	db *sql.DB
}

func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// Create relies on the partial unique index over (year, dividend_type) for
// non-cancelled rows to reject duplicate declarations.
func (r *DividendRepository) Create(ctx context.Context, dividend domain.Dividend) (domain.Dividend, error) {
	logger.Info("dividend repository create", logger.Fields{
		"year": dividend.Year,
		"type": dividend.DividendType,
	})

	const query = `
INSERT INTO dividends (year, dividend_type, rate_percent, record_date, payment_date, status, total_amount)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		dividend.Year,
		dividend.DividendType,
		dividend.RatePercent,
		dividend.RecordDate,
		dividend.PaymentDate,
		dividend.Status,
		dividend.TotalAmount,
	).Scan(&dividend.ID, &dividend.CreatedAt, &dividend.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Dividend{}, fmt.Errorf("dividend for %d %s already declared: %w",
				dividend.Year, dividend.DividendType, domain.ErrDuplicateResource)
		}
		logger.Error("dividend repository create failed", err, logger.Fields{
			"year": dividend.Year,
			"type": dividend.DividendType,
		})
		return domain.Dividend{}, fmt.Errorf("create dividend: %w", err)
	}

	return dividend, nil
}

func (r *DividendRepository) GetByID(ctx context.Context, id string) (domain.Dividend, error) {
	dividend, err := scanDividend(r.db.QueryRowContext(ctx, selectDividendQuery+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dividend{}, fmt.Errorf("dividend %s: %w", id, domain.ErrNotFound)
		}
		return domain.Dividend{}, fmt.Errorf("get dividend by id: %w", err)
	}
	return dividend, nil
}

func (r *DividendRepository) Approve(ctx context.Context, id string) (domain.Dividend, error) {
	const query = `
UPDATE dividends
SET status = 'APPROVED', updated_at = NOW()
WHERE id = $1 AND status = 'DECLARED'
RETURNING ` + dividendColumns

	dividend, err := scanDividend(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dividend{}, r.classifyMissedTransition(ctx, id)
		}
		return domain.Dividend{}, fmt.Errorf("approve dividend: %w", err)
	}
	return dividend, nil
}

func (r *DividendRepository) Cancel(ctx context.Context, id string, reason string) (domain.Dividend, error) {
	const query = `
UPDATE dividends
SET status = 'CANCELLED', cancel_reason = $2, updated_at = NOW()
WHERE id = $1 AND status <> 'PAID'
RETURNING ` + dividendColumns

	dividend, err := scanDividend(r.db.QueryRowContext(ctx, query, id, reason))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dividend{}, r.classifyMissedTransition(ctx, id)
		}
		return domain.Dividend{}, fmt.Errorf("cancel dividend: %w", err)
	}
	return dividend, nil
}

// Distribute performs the APPROVED -> PAID compare-and-set and the batch
// insert in one transaction. A concurrent second call matches zero rows on
// the status update and writes nothing.
func (r *DividendRepository) Distribute(ctx context.Context, id string, distributions []domain.DividendDistribution, total decimal.Decimal) (domain.Dividend, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Dividend{}, fmt.Errorf("begin tx: %w", err)
	}

	const query = `
UPDATE dividends
SET status = 'PAID', total_amount = $2, updated_at = NOW()
WHERE id = $1 AND status = 'APPROVED'
RETURNING ` + dividendColumns

	dividend, err := scanDividend(tx.QueryRowContext(ctx, query, id, total))
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dividend{}, r.classifyMissedTransition(ctx, id)
		}
		return domain.Dividend{}, fmt.Errorf("mark dividend paid: %w", err)
	}

	const insertQuery = `
INSERT INTO dividend_distributions (dividend_id, member_id, number_of_shares, payout_amount, payment_status)
VALUES ($1, $2, $3, $4, $5)`

	for _, distribution := range distributions {
		if _, err := tx.ExecContext(
			ctx,
			insertQuery,
			id,
			distribution.MemberID,
			distribution.NumberOfShares,
			distribution.PayoutAmount,
			distribution.PaymentStatus,
		); err != nil {
			_ = tx.Rollback()
			return domain.Dividend{}, fmt.Errorf("record dividend distribution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Dividend{}, fmt.Errorf("commit tx: %w", err)
	}

	logger.Info("dividend repository distribute success", logger.Fields{
		"dividendId": dividend.ID,
		"recipients": len(distributions),
		"total":      total.StringFixed(2),
	})
	return dividend, nil
}

func (r *DividendRepository) ListDistributions(ctx context.Context, dividendID string) ([]domain.DividendDistribution, error) {
	const query = `
SELECT id, dividend_id, member_id, number_of_shares, payout_amount, payment_status, created_at
FROM dividend_distributions
WHERE dividend_id = $1
ORDER BY member_id ASC`

	rows, err := r.db.QueryContext(ctx, query, dividendID)
	if err != nil {
		return nil, fmt.Errorf("list dividend distributions: %w", err)
	}
	defer rows.Close()

	var distributions []domain.DividendDistribution
	for rows.Next() {
		var distribution domain.DividendDistribution
		if err := rows.Scan(
			&distribution.ID,
			&distribution.DividendID,
			&distribution.MemberID,
			&distribution.NumberOfShares,
			&distribution.PayoutAmount,
			&distribution.PaymentStatus,
			&distribution.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dividend distribution: %w", err)
		}
		distributions = append(distributions, distribution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dividend distributions: %w", err)
	}

	return distributions, nil
}

func (r *DividendRepository) classifyMissedTransition(ctx context.Context, id string) error {
	dividend, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("dividend %s is %s: %w", id, dividend.Status, domain.ErrInvalidState)
}

const dividendColumns = `id, year, dividend_type, rate_percent, record_date, payment_date, status, total_amount, cancel_reason, created_at, updated_at`

const selectDividendQuery = `
SELECT ` + dividendColumns + `
FROM dividends`

func scanDividend(row *sql.Row) (domain.Dividend, error) {
	var dividend domain.Dividend
	err := row.Scan(
		&dividend.ID,
		&dividend.Year,
		&dividend.DividendType,
		&dividend.RatePercent,
		&dividend.RecordDate,
		&dividend.PaymentDate,
		&dividend.Status,
		&dividend.TotalAmount,
		&dividend.CancelReason,
		&dividend.CreatedAt,
		&dividend.UpdatedAt,
	)
	return dividend, err
}
