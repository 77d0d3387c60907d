// Package fincalc holds the deposit and penalty arithmetic shared by the
// lifecycle engines. Everything is computed on decimals and rounded to two
// places only at the final step, so a given set of inputs always produces
// the same payout.
package fincalc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one         = decimal.NewFromInt(1)
	hundred     = decimal.NewFromInt(100)
	fourHundred = decimal.NewFromInt(400)
	three       = decimal.NewFromInt(3)
)

const powPrecision = 16

// QuarterlyCompoundMaturity returns principal * (1 + rate/400)^(4*months/12)
// rounded to 2 decimal places. 100000 at 8% over 12 months yields 108243.22.
func QuarterlyCompoundMaturity(principal, ratePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	factor, err := compoundFactor(ratePercent, tenureMonths)
	if err != nil {
		return decimal.Zero, err
	}
	return principal.Mul(factor).Round(2), nil
}

// RecurringMaturity compounds each monthly installment quarterly for the
// months it remains on deposit and sums the results.
func RecurringMaturity(installment, ratePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	total := decimal.Zero
	for month := 1; month <= tenureMonths; month++ {
		factor, err := compoundFactor(ratePercent, tenureMonths-month+1)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(installment.Mul(factor))
	}
	return total.Round(2), nil
}

// PrematureFixedPayout recomputes a fixed deposit payout at the penalised
// rate over the elapsed whole months only. The effective rate never goes
// below zero, so the payout is never less than the principal.
func PrematureFixedPayout(principal, ratePercent, penaltyRate decimal.Decimal, elapsedMonths int) (decimal.Decimal, error) {
	effective := ratePercent.Sub(penaltyRate)
	if effective.IsNegative() {
		effective = decimal.Zero
	}
	return QuarterlyCompoundMaturity(principal, effective, elapsedMonths)
}

// RecurringClosureCharge is the flat early-exit charge for recurring
// deposits: flatPercent of the total committed principal
// (installment * tenureMonths). Recurring products deliberately do not use
// the compounding penalty model of fixed deposits.
func RecurringClosureCharge(installment decimal.Decimal, tenureMonths int, flatPercent decimal.Decimal) decimal.Decimal {
	committed := installment.Mul(decimal.NewFromInt(int64(tenureMonths)))
	return committed.Mul(flatPercent).Div(hundred).Round(2)
}

// MissedInstallmentPenalty charges penaltyPercent of the installment amount
// for every missed installment.
func MissedInstallmentPenalty(installment decimal.Decimal, missed int, penaltyPercent decimal.Decimal) decimal.Decimal {
	if missed <= 0 {
		return decimal.Zero.Round(2)
	}
	perMiss := installment.Mul(penaltyPercent).Div(hundred)
	return perMiss.Mul(decimal.NewFromInt(int64(missed))).Round(2)
}

func compoundFactor(ratePercent decimal.Decimal, months int) (decimal.Decimal, error) {
	if months < 0 {
		return decimal.Zero, fmt.Errorf("compound factor: months must not be negative, got %d", months)
	}
	if months == 0 {
		return one, nil
	}
	base := one.Add(ratePercent.Div(fourHundred))
	// quarters on deposit: 4 * months / 12
	exponent := decimal.NewFromInt(int64(months)).Div(three)
	factor, err := base.PowWithPrecision(exponent, powPrecision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("compound factor: %w", err)
	}
	return factor, nil
}

// AddMonths advances a date by whole calendar months.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// ElapsedWholeMonths counts the full calendar months between start and now,
// never negative.
func ElapsedWholeMonths(start, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if now.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
