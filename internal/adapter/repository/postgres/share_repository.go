package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/lib/pq"
)

type ShareRepository struct {
	db *sql.DB
}

func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Allocate writes the holding and its opening purchase transaction together.
func (r *ShareRepository) Allocate(ctx context.Context, holding domain.ShareHolding, txn domain.ShareTransaction) (domain.ShareHolding, error) {
	logger.Info("share repository allocate", logger.Fields{
		"memberId":  holding.MemberID,
		"shareType": holding.ShareType,
		"shares":    holding.NumberOfShares,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ShareHolding{}, fmt.Errorf("begin tx: %w", err)
	}

	const holdingQuery = `
INSERT INTO share_holdings (member_id, share_type, number_of_shares, share_value, total_amount, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := tx.QueryRowContext(
		ctx,
		holdingQuery,
		holding.MemberID,
		holding.ShareType,
		holding.NumberOfShares,
		holding.ShareValue,
		holding.TotalAmount,
		holding.Status,
	).Scan(&holding.ID, &holding.CreatedAt, &holding.UpdatedAt); err != nil {
		_ = tx.Rollback()
		return domain.ShareHolding{}, fmt.Errorf("create share holding: %w", err)
	}

	if err := insertShareTransaction(ctx, tx, &txn); err != nil {
		_ = tx.Rollback()
		return domain.ShareHolding{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.ShareHolding{}, fmt.Errorf("commit tx: %w", err)
	}
	return holding, nil
}

// Transfer locks both member rows in id order as the serialization point,
// verifies both parties are active, rechecks the source position under the
// lock, and writes the debit and credit legs together.
func (r *ShareRepository) Transfer(ctx context.Context, debit domain.ShareTransaction, credit domain.ShareTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := transferTx(ctx, tx, debit, credit); err != nil {
		_ = tx.Rollback()
		if isSerializationFailure(err) {
			return fmt.Errorf("share transfer lost a concurrent race: %w", domain.ErrConcurrencyConflict)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func transferTx(ctx context.Context, tx *sql.Tx, debit, credit domain.ShareTransaction) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, status FROM members WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		pq.Array([]string{debit.MemberID, credit.MemberID}),
	)
	if err != nil {
		return fmt.Errorf("lock members: %w", err)
	}
	locked := 0
	for rows.Next() {
		var id string
		var status domain.MemberStatus
		if err := rows.Scan(&id, &status); err != nil {
			rows.Close()
			return fmt.Errorf("lock members: %w", err)
		}
		if status != domain.MemberStatusActive {
			rows.Close()
			return fmt.Errorf("member %s is %s: %w", id, status, domain.ErrInvalidState)
		}
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock members: %w", err)
	}
	if locked != 2 {
		return fmt.Errorf("share transfer parties: %w", domain.ErrNotFound)
	}

	var available int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(number_of_shares), 0) FROM share_transactions WHERE member_id = $1`,
		debit.MemberID,
	).Scan(&available); err != nil {
		return fmt.Errorf("sum source share position: %w", err)
	}
	if available < -debit.NumberOfShares {
		return fmt.Errorf("member %s holds %d shares, cannot transfer %d: %w",
			debit.MemberID, available, -debit.NumberOfShares, domain.ErrInsufficientResource)
	}

	if err := insertShareTransaction(ctx, tx, &debit); err != nil {
		return err
	}
	return insertShareTransaction(ctx, tx, &credit)
}

func (r *ShareRepository) BalanceForMember(ctx context.Context, memberID string) (int64, error) {
	var balance int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(number_of_shares), 0) FROM share_transactions WHERE member_id = $1`,
		memberID,
	).Scan(&balance); err != nil {
		return 0, fmt.Errorf("sum share position: %w", err)
	}
	return balance, nil
}

func (r *ShareRepository) ListTransactions(ctx context.Context, memberID string) ([]domain.ShareTransaction, error) {
	const query = `
SELECT id, member_id, transaction_type, number_of_shares, amount, transaction_date, created_at
FROM share_transactions
WHERE member_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("list share transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.ShareTransaction
	for rows.Next() {
		var txn domain.ShareTransaction
		if err := rows.Scan(
			&txn.ID,
			&txn.MemberID,
			&txn.TransactionType,
			&txn.NumberOfShares,
			&txn.Amount,
			&txn.TransactionDate,
			&txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan share transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list share transactions: %w", err)
	}

	return txns, nil
}

// PositionsAsOf aggregates the signed transaction history up to the record
// date for every active member with a positive position, carrying the par
// value of the member's most recent holding.
func (r *ShareRepository) PositionsAsOf(ctx context.Context, recordDate time.Time) ([]domain.ShareholderPosition, error) {
	const query = `
SELECT t.member_id, SUM(t.number_of_shares) AS shares, h.share_value
FROM share_transactions t
JOIN members m ON m.id = t.member_id AND m.status = 'ACTIVE'
JOIN LATERAL (
	SELECT share_value
	FROM share_holdings
	WHERE member_id = t.member_id
	ORDER BY created_at DESC
	LIMIT 1
) h ON TRUE
WHERE t.transaction_date <= $1
GROUP BY t.member_id, h.share_value
HAVING SUM(t.number_of_shares) > 0
ORDER BY t.member_id`

	rows, err := r.db.QueryContext(ctx, query, recordDate)
	if err != nil {
		return nil, fmt.Errorf("list shareholder positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.ShareholderPosition
	for rows.Next() {
		var position domain.ShareholderPosition
		if err := rows.Scan(&position.MemberID, &position.Shares, &position.ShareValue); err != nil {
			return nil, fmt.Errorf("scan shareholder position: %w", err)
		}
		positions = append(positions, position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shareholder positions: %w", err)
	}

	return positions, nil
}

func insertShareTransaction(ctx context.Context, tx *sql.Tx, txn *domain.ShareTransaction) error {
	const query = `
INSERT INTO share_transactions (member_id, transaction_type, number_of_shares, amount, transaction_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	if err := tx.QueryRowContext(
		ctx,
		query,
		txn.MemberID,
		txn.TransactionType,
		txn.NumberOfShares,
		txn.Amount,
		txn.TransactionDate,
	).Scan(&txn.ID, &txn.CreatedAt); err != nil {
		return fmt.Errorf("record share transaction: %w", err)
	}
	return nil
}
