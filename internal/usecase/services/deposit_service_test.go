package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

func TestDepositServiceBookFixedDepositGoldenMaturity(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Moyo")

	resp, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "100000.00",
		RatePercent:  "8",
		TenureMonths: 12,
		StartDate:    "2026-01-01",
	})
	if err != nil {
		t.Fatalf("book deposit: %v", err)
	}
	if resp.Data.MaturityAmount != "108243.22" {
		t.Fatalf("expected maturity amount 108243.22, got %s", resp.Data.MaturityAmount)
	}
	if resp.Data.MaturityDate != "2027-01-01" {
		t.Fatalf("expected maturity date 2027-01-01, got %s", resp.Data.MaturityDate)
	}
	if resp.Data.Status != string(domain.DepositStatusActive) {
		t.Fatalf("expected status ACTIVE, got %s", resp.Data.Status)
	}
}

func TestDepositServiceMatureBeforeMaturityDateFails(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Nneka")

	startDate := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02")
	resp, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "50000.00",
		RatePercent:  "7",
		TenureMonths: 12,
		StartDate:    startDate,
	})
	if err != nil {
		t.Fatalf("book deposit: %v", err)
	}

	_, err = env.deposits.Mature(context.Background(), resp.Data.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState before maturity date, got %v", err)
	}
}

func TestDepositServiceMatureAfterMaturityDate(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Obi")

	startDate := time.Now().UTC().AddDate(0, -13, 0).Format("2006-01-02")
	booked, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "50000.00",
		RatePercent:  "7",
		TenureMonths: 12,
		StartDate:    startDate,
	})
	if err != nil {
		t.Fatalf("book deposit: %v", err)
	}

	matured, err := env.deposits.Mature(context.Background(), booked.Data.ID)
	if err != nil {
		t.Fatalf("mature deposit: %v", err)
	}
	if matured.Data.Status != string(domain.DepositStatusMatured) {
		t.Fatalf("expected status MATURED, got %s", matured.Data.Status)
	}
	if matured.Data.MaturityAmount != booked.Data.MaturityAmount {
		t.Fatalf("maturity amount changed on transition: booked %s, matured %s",
			booked.Data.MaturityAmount, matured.Data.MaturityAmount)
	}

	_, err = env.deposits.Mature(context.Background(), booked.Data.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second mature, got %v", err)
	}
}

func TestDepositServicePrematureCloseFixedPaysBetweenPrincipalAndFull(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Pade")

	startDate := time.Now().UTC().AddDate(0, -7, 0).Format("2006-01-02")
	booked, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "100000.00",
		RatePercent:  "8",
		TenureMonths: 12,
		StartDate:    startDate,
	})
	if err != nil {
		t.Fatalf("book deposit: %v", err)
	}

	closed, err := env.deposits.ClosePrematurely(context.Background(), booked.Data.ID, models.CloseDepositRequest{
		PenaltyRate: "1",
	})
	if err != nil {
		t.Fatalf("premature close: %v", err)
	}
	if closed.Data.Status != string(domain.DepositStatusPrematureClosed) {
		t.Fatalf("expected status PREMATURE_CLOSED, got %s", closed.Data.Status)
	}

	payout, _ := decimal.NewFromString(closed.Data.MaturityAmount)
	principal := decimal.NewFromInt(100000)
	full, _ := decimal.NewFromString(booked.Data.MaturityAmount)
	if payout.LessThan(principal) {
		t.Fatalf("premature payout %s below principal", closed.Data.MaturityAmount)
	}
	if !payout.LessThan(full) {
		t.Fatalf("premature payout %s not below full maturity %s", closed.Data.MaturityAmount, booked.Data.MaturityAmount)
	}
}

func TestDepositServicePrematureCloseAfterMaturityDateCappedAtBooked(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Sade")

	startDate := time.Now().UTC().AddDate(0, -17, 0).Format("2006-01-02")
	booked, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "100000.00",
		RatePercent:  "8",
		TenureMonths: 12,
		StartDate:    startDate,
	})
	if err != nil {
		t.Fatalf("book deposit: %v", err)
	}

	closed, err := env.deposits.ClosePrematurely(context.Background(), booked.Data.ID, models.CloseDepositRequest{
		PenaltyRate: "2",
	})
	if err != nil {
		t.Fatalf("premature close: %v", err)
	}

	// 6% effective over the full 12-month tenure, not over the 17 elapsed
	// months.
	if closed.Data.MaturityAmount != "106136.36" {
		t.Fatalf("expected payout 106136.36, got %s", closed.Data.MaturityAmount)
	}
	payout, _ := decimal.NewFromString(closed.Data.MaturityAmount)
	full, _ := decimal.NewFromString(booked.Data.MaturityAmount)
	if payout.GreaterThan(full) {
		t.Fatalf("premature payout %s above full-term maturity %s",
			closed.Data.MaturityAmount, booked.Data.MaturityAmount)
	}
}

func TestDepositServiceRecurringInstallmentsAndClosureCharge(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Rekia")

	startDate := time.Now().UTC().AddDate(0, -3, 0).Format("2006-01-02")
	booked, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "RECURRING",
		Amount:       "1000.00",
		RatePercent:  "6",
		TenureMonths: 24,
		StartDate:    startDate,
	})
	if err != nil {
		t.Fatalf("book recurring deposit: %v", err)
	}

	contributions, _ := decimal.NewFromString(booked.Data.MaturityAmount)
	committed := decimal.NewFromInt(24000)
	if !contributions.GreaterThan(committed) {
		t.Fatalf("recurring maturity %s should exceed total contributions %s",
			booked.Data.MaturityAmount, committed.StringFixed(2))
	}

	for i := 0; i < 3; i++ {
		if _, err := env.deposits.RecordInstallment(context.Background(), booked.Data.ID); err != nil {
			t.Fatalf("record installment %d: %v", i+1, err)
		}
	}

	closed, err := env.deposits.ClosePrematurely(context.Background(), booked.Data.ID, models.CloseDepositRequest{})
	if err != nil {
		t.Fatalf("premature close recurring: %v", err)
	}

	// 3 installments of 1000 less 1% of the committed 24000
	if closed.Data.MaturityAmount != "2760.00" {
		t.Fatalf("expected payout 2760.00, got %s", closed.Data.MaturityAmount)
	}
}

func TestDepositServiceMissedInstallmentPenalty(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Sade")

	startDate := time.Now().UTC().AddDate(0, -4, -2).Format("2006-01-02")
	booked, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "RECURRING",
		Amount:       "1000.00",
		RatePercent:  "6",
		TenureMonths: 24,
		StartDate:    startDate,
	})
	if err != nil {
		t.Fatalf("book recurring deposit: %v", err)
	}

	if _, err := env.deposits.RecordInstallment(context.Background(), booked.Data.ID); err != nil {
		t.Fatalf("record installment: %v", err)
	}

	resp, err := env.deposits.MissedInstallmentPenalty(context.Background(), booked.Data.ID)
	if err != nil {
		t.Fatalf("missed installment penalty: %v", err)
	}
	// five installments due over four elapsed months, one paid
	if resp.Data.MissedInstallments != 4 {
		t.Fatalf("expected 4 missed installments, got %d", resp.Data.MissedInstallments)
	}
	if resp.Data.Penalty != "80.00" {
		t.Fatalf("expected penalty 80.00, got %s", resp.Data.Penalty)
	}
}

func TestDepositServiceInstallmentRejectedOnFixedProduct(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Tunde")

	booked, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "10000.00",
		RatePercent:  "8",
		TenureMonths: 12,
		StartDate:    "2026-01-01",
	})
	if err != nil {
		t.Fatalf("book fixed deposit: %v", err)
	}

	_, err = env.deposits.RecordInstallment(context.Background(), booked.Data.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for installment on fixed product, got %v", err)
	}
}

func TestDepositServiceMaturitySweepMaturesOnlyDueDeposits(t *testing.T) {
	env := newTestEnv(t)
	holderID := env.createMember(t, "Uche")

	pastStart := time.Now().UTC().AddDate(0, -13, 0).Format("2006-01-02")
	if _, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "10000.00",
		RatePercent:  "8",
		TenureMonths: 12,
		StartDate:    pastStart,
	}); err != nil {
		t.Fatalf("book due deposit: %v", err)
	}

	recentStart := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02")
	notDue, err := env.deposits.BookDeposit(context.Background(), models.BookDepositRequest{
		HolderID:     holderID,
		Product:      "FIXED",
		Amount:       "10000.00",
		RatePercent:  "8",
		TenureMonths: 12,
		StartDate:    recentStart,
	})
	if err != nil {
		t.Fatalf("book undue deposit: %v", err)
	}

	sweep, err := env.deposits.MatureDueDeposits(context.Background())
	if err != nil {
		t.Fatalf("maturity sweep: %v", err)
	}
	if sweep.Data.Matured != 1 {
		t.Fatalf("expected 1 matured deposit, got %d", sweep.Data.Matured)
	}

	still, err := env.deposits.GetDeposit(context.Background(), notDue.Data.ID)
	if err != nil {
		t.Fatalf("get undue deposit: %v", err)
	}
	if still.Data.Status != string(domain.DepositStatusActive) {
		t.Fatalf("expected undue deposit still ACTIVE, got %s", still.Data.Status)
	}
}
