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

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (
	owner_id,
	account_number,
	account_type,
	balance,
	minimum_balance,
	interest_rate,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		account.OwnerID,
		account.AccountNumber,
		account.AccountType,
		account.Balance,
		account.MinimumBalance,
		account.InterestRate,
		account.Status,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, fmt.Errorf("account number %s: %w", account.AccountNumber, domain.ErrDuplicateResource)
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"ownerId": account.OwnerID,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, selectAccountQuery+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return account, nil
}

// Credit locks the account row, applies the balance change and appends the
// ledger entry in one transaction.
func (r *AccountRepository) Credit(ctx context.Context, accountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		account, err := lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		entry, err = postEntry(ctx, tx, account, domain.LedgerEntryCredit, amount, account.Balance.Add(amount), narration)
		return err
	})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	return entry, nil
}

// Debit enforces the minimum-balance floor while the row is locked, so two
// concurrent debits can never both succeed when only one can be funded.
func (r *AccountRepository) Debit(ctx context.Context, accountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		account, err := lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		newBalance := account.Balance.Sub(amount)
		if newBalance.LessThan(account.MinimumBalance) {
			return fmt.Errorf("account %s balance %s cannot fund debit of %s: %w",
				accountID, account.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientResource)
		}

		entry, err = postEntry(ctx, tx, account, domain.LedgerEntryDebit, amount, newBalance, narration)
		return err
	})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	return entry, nil
}

// Transfer debits the source and credits the destination as one unit. Rows
// are locked in id order so concurrent opposing transfers cannot deadlock.
func (r *AccountRepository) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, domain.LedgerEntry, error) {
	var debitEntry, creditEntry domain.LedgerEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		first, second := fromAccountID, toAccountID
		if second < first {
			first, second = second, first
		}
		locked := map[string]domain.Account{}
		for _, id := range []string{first, second} {
			account, err := lockAccount(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = account
		}

		source := locked[fromAccountID]
		destination := locked[toAccountID]

		newSourceBalance := source.Balance.Sub(amount)
		if newSourceBalance.LessThan(source.MinimumBalance) {
			return fmt.Errorf("account %s balance %s cannot fund transfer of %s: %w",
				fromAccountID, source.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientResource)
		}

		var err error
		debitEntry, err = postEntry(ctx, tx, source, domain.LedgerEntryTransfer, amount, newSourceBalance, narration)
		if err != nil {
			return err
		}
		creditEntry, err = postEntry(ctx, tx, destination, domain.LedgerEntryTransfer, amount, destination.Balance.Add(amount), narration)
		return err
	})
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	return debitEntry, creditEntry, nil
}

func (r *AccountRepository) ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	const query = `
SELECT id, account_id, entry_type, amount, balance_before, balance_after, narration, created_at
FROM ledger_entries
WHERE account_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.EntryType,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.Narration,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	return entries, nil
}

const selectAccountQuery = `
SELECT id, owner_id, account_number, account_type, balance, minimum_balance, interest_rate, status, created_at, updated_at
FROM accounts`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.AccountNumber,
		&account.AccountType,
		&account.Balance,
		&account.MinimumBalance,
		&account.InterestRate,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

func lockAccount(ctx context.Context, tx *sql.Tx, id string) (domain.Account, error) {
	account, err := scanAccount(tx.QueryRowContext(ctx, selectAccountQuery+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return domain.Account{}, fmt.Errorf("lock account: %w", err)
	}
	if account.Status != domain.AccountStatusActive {
		return domain.Account{}, fmt.Errorf("account %s is %s: %w", id, account.Status, domain.ErrInvalidState)
	}
	return account, nil
}

func postEntry(ctx context.Context, tx *sql.Tx, account domain.Account, entryType domain.LedgerEntryType, amount, newBalance decimal.Decimal, narration string) (domain.LedgerEntry, error) {
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`,
		account.ID, newBalance,
	); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("update account balance: %w", err)
	}

	entry := domain.LedgerEntry{
		AccountID:     account.ID,
		EntryType:     entryType,
		Amount:        amount,
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		Narration:     narration,
	}

	const query = `
INSERT INTO ledger_entries (account_id, entry_type, amount, balance_before, balance_after, narration)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	if err := tx.QueryRowContext(
		ctx,
		query,
		entry.AccountID,
		entry.EntryType,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.Narration,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("append ledger entry: %w", err)
	}

	return entry, nil
}

func (r *AccountRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		if isSerializationFailure(err) {
			return fmt.Errorf("account posting lost a concurrent race: %w", domain.ErrConcurrencyConflict)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("account posting lost a concurrent race: %w", domain.ErrConcurrencyConflict)
		}
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
