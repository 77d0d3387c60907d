package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositStatus string

const (
	DepositStatusPending         DepositStatus = "PENDING"
	DepositStatusActive          DepositStatus = "ACTIVE"
	DepositStatusMatured         DepositStatus = "MATURED"
	DepositStatusPrematureClosed DepositStatus = "PREMATURE_CLOSED"
	DepositStatusRenewed         DepositStatus = "RENEWED"
)

type DepositProduct string

const (
	DepositProductFixed     DepositProduct = "FIXED"
	DepositProductRecurring DepositProduct = "RECURRING"
)

// TermDeposit covers both fixed and recurring products. For fixed deposits
// Amount is the booked principal; for recurring deposits it is the monthly
// installment and InstallmentsPaid tracks how many have been received.
// MaturityAmount is derived at booking and is only ever rewritten by a
// premature closure, which replaces it with the reduced payout actually
// disbursed. Status transitions are one-way.
type TermDeposit struct {
	ID               string
	HolderID         string
	Product          DepositProduct
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	TenureMonths     int
	StartDate        time.Time
	MaturityDate     time.Time
	MaturityAmount   decimal.Decimal
	InstallmentsPaid int
	Status           DepositStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
