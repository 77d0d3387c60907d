package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusApproved  LoanStatus = "APPROVED"
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusClosed    LoanStatus = "CLOSED"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// IsOpen reports whether the loan still blocks the borrower from taking a new
// one. A borrower holds at most one open loan at a time.
func (s LoanStatus) IsOpen() bool {
	return s != LoanStatusClosed
}

type Loan struct {
	ID                string
	BorrowerID        string
	PrincipalAmount   decimal.Decimal
	InterestRate      decimal.Decimal
	TenureMonths      int
	OutstandingAmount decimal.Decimal
	Status            LoanStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Repayment is immutable once recorded. Outstanding only ever decreases
// through repayments, never through accrual.
type Repayment struct {
	ID          string
	LoanID      string
	Amount      decimal.Decimal
	PaymentDate time.Time
	CreatedAt   time.Time
}
