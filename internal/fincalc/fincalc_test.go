package fincalc_test

import (
	"testing"
	"time"

	"github.com/api-sage/coop-banking-core/internal/fincalc"
	"github.com/shopspring/decimal"
)

func TestQuarterlyCompoundMaturityGoldenValue(t *testing.T) {
	got, err := fincalc.QuarterlyCompoundMaturity(
		decimal.NewFromInt(100000),
		decimal.NewFromInt(8),
		12,
	)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := decimal.RequireFromString("108243.22")
	if !got.Equal(want) {
		t.Fatalf("expected maturity %s, got %s", want, got)
	}
}

func TestQuarterlyCompoundMaturityZeroRate(t *testing.T) {
	got, err := fincalc.QuarterlyCompoundMaturity(decimal.NewFromInt(5000), decimal.Zero, 24)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !got.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected principal back at zero rate, got %s", got)
	}
}

func TestQuarterlyCompoundMaturityDeterministic(t *testing.T) {
	principal := decimal.RequireFromString("250000.50")
	rate := decimal.RequireFromString("7.25")
	first, err := fincalc.QuarterlyCompoundMaturity(principal, rate, 18)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	second, err := fincalc.QuarterlyCompoundMaturity(principal, rate, 18)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("expected identical results, got %s and %s", first, second)
	}
}

func TestPrematureFixedPayoutBelowFullTerm(t *testing.T) {
	principal := decimal.NewFromInt(100000)
	rate := decimal.NewFromInt(8)

	full, err := fincalc.QuarterlyCompoundMaturity(principal, rate, 12)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	early, err := fincalc.PrematureFixedPayout(principal, rate, decimal.NewFromInt(1), 7)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if early.GreaterThanOrEqual(full) {
		t.Fatalf("expected premature payout %s below full maturity %s", early, full)
	}
	if early.LessThan(principal) {
		t.Fatalf("expected premature payout %s to be at least principal", early)
	}
}

func TestPrematureFixedPayoutPenaltyFloorsAtZeroRate(t *testing.T) {
	principal := decimal.NewFromInt(20000)
	got, err := fincalc.PrematureFixedPayout(principal, decimal.NewFromInt(5), decimal.NewFromInt(9), 6)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !got.Equal(principal) {
		t.Fatalf("expected principal back when penalty exceeds rate, got %s", got)
	}
}

func TestRecurringMaturityExceedsContributions(t *testing.T) {
	installment := decimal.NewFromInt(2000)
	got, err := fincalc.RecurringMaturity(installment, decimal.NewFromInt(6), 12)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	contributed := installment.Mul(decimal.NewFromInt(12))
	if !got.GreaterThan(contributed) {
		t.Fatalf("expected maturity %s above contributions %s", got, contributed)
	}
}

func TestRecurringClosureCharge(t *testing.T) {
	got := fincalc.RecurringClosureCharge(decimal.NewFromInt(1000), 24, decimal.NewFromInt(2))
	want := decimal.RequireFromString("480.00")
	if !got.Equal(want) {
		t.Fatalf("expected charge %s, got %s", want, got)
	}
}

func TestMissedInstallmentPenalty(t *testing.T) {
	got := fincalc.MissedInstallmentPenalty(decimal.NewFromInt(1500), 3, decimal.NewFromInt(2))
	want := decimal.RequireFromString("90.00")
	if !got.Equal(want) {
		t.Fatalf("expected penalty %s, got %s", want, got)
	}

	if !fincalc.MissedInstallmentPenalty(decimal.NewFromInt(1500), 0, decimal.NewFromInt(2)).IsZero() {
		t.Fatal("expected zero penalty for no missed installments")
	}
}

func TestElapsedWholeMonths(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	if got := fincalc.ElapsedWholeMonths(start, time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)); got != 7 {
		t.Fatalf("expected 7 elapsed months, got %d", got)
	}
	if got := fincalc.ElapsedWholeMonths(start, time.Date(2024, time.August, 14, 0, 0, 0, 0, time.UTC)); got != 6 {
		t.Fatalf("expected 6 elapsed months before anniversary day, got %d", got)
	}
	if got := fincalc.ElapsedWholeMonths(start, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)); got != 0 {
		t.Fatalf("expected 0 elapsed months for a date before start, got %d", got)
	}
}

func TestAddMonths(t *testing.T) {
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	got := fincalc.AddMonths(start, 12)
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
