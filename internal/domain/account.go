package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

type AccountType string

const (
	AccountTypeSavings          AccountType = "SAVINGS"
	AccountTypeCurrent          AccountType = "CURRENT"
	AccountTypeFixedDeposit     AccountType = "FIXED_DEPOSIT"
	AccountTypeRecurringDeposit AccountType = "RECURRING_DEPOSIT"
	AccountTypeLoan             AccountType = "LOAN"
	AccountTypeDemat            AccountType = "DEMAT"
)

// Account.Balance is the authoritative stored balance; every mutation goes
// through the ledger and appends a LedgerEntry in the same store transaction.
type Account struct {
	ID             string
	OwnerID        string
	AccountNumber  string
	AccountType    AccountType
	Balance        decimal.Decimal
	MinimumBalance decimal.Decimal
	InterestRate   decimal.Decimal
	Status         AccountStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type LedgerEntryType string

const (
	LedgerEntryCredit   LedgerEntryType = "CREDIT"
	LedgerEntryDebit    LedgerEntryType = "DEBIT"
	LedgerEntryTransfer LedgerEntryType = "TRANSFER"
)

// LedgerEntry is the append-only audit record of one balance change. Entries
// are never updated or deleted once written.
type LedgerEntry struct {
	ID            string
	AccountID     string
	EntryType     LedgerEntryType
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Narration     string
	CreatedAt     time.Time
}
