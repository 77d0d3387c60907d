package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShareHoldingStatus string

const (
	ShareHoldingStatusActive      ShareHoldingStatus = "ACTIVE"
	ShareHoldingStatusTransferred ShareHoldingStatus = "TRANSFERRED"
	ShareHoldingStatusRedeemed    ShareHoldingStatus = "REDEEMED"
	ShareHoldingStatusSuspended   ShareHoldingStatus = "SUSPENDED"
	ShareHoldingStatusPending     ShareHoldingStatus = "PENDING"
)

type ShareHolding struct {
	ID             string
	MemberID       string
	ShareType      string
	NumberOfShares int64
	ShareValue     decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         ShareHoldingStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ShareTransactionType string

const (
	ShareTransactionPurchase   ShareTransactionType = "PURCHASE"
	ShareTransactionTransfer   ShareTransactionType = "TRANSFER"
	ShareTransactionRedemption ShareTransactionType = "REDEMPTION"
	ShareTransactionDividend   ShareTransactionType = "DIVIDEND"
	ShareTransactionBonusIssue ShareTransactionType = "BONUS_ISSUE"
)

// ShareTransaction is the immutable movement ledger. NumberOfShares and
// Amount are signed; a member's current position is the signed sum of their
// history, never a separately maintained counter.
type ShareTransaction struct {
	ID              string
	MemberID        string
	TransactionType ShareTransactionType
	NumberOfShares  int64
	Amount          decimal.Decimal
	TransactionDate time.Time
	CreatedAt       time.Time
}

// ShareholderPosition is the aggregate read used by dividend distribution:
// the member's signed share count as of a record date plus the par value of
// their most recent holding.
type ShareholderPosition struct {
	MemberID   string
	Shares     int64
	ShareValue decimal.Decimal
}
