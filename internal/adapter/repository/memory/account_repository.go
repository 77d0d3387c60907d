package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account.ID = newID()
	account.CreatedAt = now()
	account.UpdatedAt = account.CreatedAt
	r.store.accounts[account.ID] = account
	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return account, nil
}

func (r *AccountRepository) Credit(_ context.Context, accountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, err := r.activeAccountLocked(accountID)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	return r.postLocked(account, domain.LedgerEntryCredit, amount, account.Balance.Add(amount), narration), nil
}

func (r *AccountRepository) Debit(_ context.Context, accountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, err := r.activeAccountLocked(accountID)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	newBalance := account.Balance.Sub(amount)
	if newBalance.LessThan(account.MinimumBalance) {
		return domain.LedgerEntry{}, fmt.Errorf("account %s balance %s cannot fund debit of %s: %w",
			accountID, account.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientResource)
	}

	return r.postLocked(account, domain.LedgerEntryDebit, amount, newBalance, narration), nil
}

func (r *AccountRepository) Transfer(_ context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	source, err := r.activeAccountLocked(fromAccountID)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	destination, err := r.activeAccountLocked(toAccountID)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	newSourceBalance := source.Balance.Sub(amount)
	if newSourceBalance.LessThan(source.MinimumBalance) {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, fmt.Errorf("account %s balance %s cannot fund transfer of %s: %w",
			fromAccountID, source.Balance.StringFixed(2), amount.StringFixed(2), domain.ErrInsufficientResource)
	}

	debitEntry := r.postLocked(source, domain.LedgerEntryTransfer, amount, newSourceBalance, narration)
	creditEntry := r.postLocked(destination, domain.LedgerEntryTransfer, amount, destination.Balance.Add(amount), narration)
	return debitEntry, creditEntry, nil
}

func (r *AccountRepository) ListEntries(_ context.Context, accountID string) ([]domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := r.store.entries[accountID]
	out := make([]domain.LedgerEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *AccountRepository) activeAccountLocked(id string) (domain.Account, error) {
	account, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	if account.Status != domain.AccountStatusActive {
		return domain.Account{}, fmt.Errorf("account %s is %s: %w", id, account.Status, domain.ErrInvalidState)
	}
	return account, nil
}

func (r *AccountRepository) postLocked(account domain.Account, entryType domain.LedgerEntryType, amount, newBalance decimal.Decimal, narration string) domain.LedgerEntry {
	entry := domain.LedgerEntry{
		ID:            newID(),
		AccountID:     account.ID,
		EntryType:     entryType,
		Amount:        amount,
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		Narration:     narration,
		CreatedAt:     now(),
	}

	account.Balance = newBalance
	account.UpdatedAt = entry.CreatedAt
	r.store.accounts[account.ID] = account
	r.store.entries[account.ID] = append(r.store.entries[account.ID], entry)
	return entry
}
