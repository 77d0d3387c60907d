package repo_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository owns balance mutation. Credit, Debit and Transfer are
// atomic read-validate-write operations: the balance check, the balance
// update and the ledger-entry append commit together or not at all. Debit
// fails with domain.ErrInsufficientResource when the balance would drop
// below the account's minimum, and with domain.ErrInvalidState when the
// account is not active.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	Credit(ctx context.Context, accountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, error)
	Debit(ctx context.Context, accountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, narration string) (domain.LedgerEntry, domain.LedgerEntry, error)
	ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
}
