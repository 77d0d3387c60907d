package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DividendStatus string

const (
	DividendStatusPending   DividendStatus = "PENDING"
	DividendStatusDeclared  DividendStatus = "DECLARED"
	DividendStatusApproved  DividendStatus = "APPROVED"
	DividendStatusPaid      DividendStatus = "PAID"
	DividendStatusCancelled DividendStatus = "CANCELLED"
)

type DividendType string

const (
	DividendTypeAnnual  DividendType = "ANNUAL"
	DividendTypeInterim DividendType = "INTERIM"
	DividendTypeBonus   DividendType = "BONUS"
	DividendTypeSpecial DividendType = "SPECIAL"
)

// Dividend walks DECLARED -> APPROVED -> PAID; CANCELLED is reachable from
// any state except PAID. At most one non-cancelled dividend may exist per
// (year, type).
type Dividend struct {
	ID           string
	Year         int
	DividendType DividendType
	RatePercent  decimal.Decimal
	RecordDate   time.Time
	PaymentDate  time.Time
	Status       DividendStatus
	TotalAmount  decimal.Decimal
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DistributionPaymentStatus string

const (
	DistributionPaymentPending DistributionPaymentStatus = "PENDING"
	DistributionPaymentPaid    DistributionPaymentStatus = "PAID"
)

// DividendDistribution rows are written in a single batch exactly once per
// dividend, guarded by the APPROVED -> PAID status transition.
type DividendDistribution struct {
	ID             string
	DividendID     string
	MemberID       string
	NumberOfShares int64
	PayoutAmount   decimal.Decimal
	PaymentStatus  DistributionPaymentStatus
	CreatedAt      time.Time
}
