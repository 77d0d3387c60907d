package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/domain"
)

func TestLoanServiceIssueLoanValidationError(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty issue loan request")
	}
}

func TestLoanServiceIssueLoanStartsWithFullOutstanding(t *testing.T) {
	env := newTestEnv(t)
	borrowerID := env.createMember(t, "Gbenga")

	resp, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    "50000.00",
		RatePercent:  "12",
		TenureMonths: 24,
	})
	if err != nil {
		t.Fatalf("issue loan: %v", err)
	}
	if resp.Data.OutstandingAmount != "50000.00" {
		t.Fatalf("expected outstanding 50000.00, got %s", resp.Data.OutstandingAmount)
	}
	if resp.Data.Status != string(domain.LoanStatusActive) {
		t.Fatalf("expected status ACTIVE, got %s", resp.Data.Status)
	}
}

func TestLoanServiceRejectsSecondOpenLoan(t *testing.T) {
	env := newTestEnv(t)
	borrowerID := env.createMember(t, "Halima")

	issue := models.IssueLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    "10000.00",
		TenureMonths: 12,
	}
	if _, err := env.loans.IssueLoan(context.Background(), issue); err != nil {
		t.Fatalf("issue first loan: %v", err)
	}

	_, err := env.loans.IssueLoan(context.Background(), issue)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for second open loan, got %v", err)
	}
}

func TestLoanServiceAllowsNewLoanAfterClosure(t *testing.T) {
	env := newTestEnv(t)
	borrowerID := env.createMember(t, "Ifeoma")

	first, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    "5000.00",
		TenureMonths: 6,
	})
	if err != nil {
		t.Fatalf("issue loan: %v", err)
	}

	repay, err := env.loans.ApplyRepayment(context.Background(), first.Data.ID, models.ApplyRepaymentRequest{
		Amount: "5000.00",
	})
	if err != nil {
		t.Fatalf("full repayment: %v", err)
	}
	if repay.Data.Status != string(domain.LoanStatusClosed) {
		t.Fatalf("expected status CLOSED after full repayment, got %s", repay.Data.Status)
	}
	if repay.Data.OutstandingAmount != "0.00" {
		t.Fatalf("expected outstanding 0.00, got %s", repay.Data.OutstandingAmount)
	}

	if _, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    "7000.00",
		TenureMonths: 12,
	}); err != nil {
		t.Fatalf("issue loan after closure: %v", err)
	}
}

func TestLoanServiceRejectsOverpayment(t *testing.T) {
	env := newTestEnv(t)
	borrowerID := env.createMember(t, "Jide")

	loan, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    "1000.00",
		TenureMonths: 12,
	})
	if err != nil {
		t.Fatalf("issue loan: %v", err)
	}

	if _, err := env.loans.ApplyRepayment(context.Background(), loan.Data.ID, models.ApplyRepaymentRequest{
		Amount: "600.00",
	}); err != nil {
		t.Fatalf("partial repayment: %v", err)
	}

	_, err = env.loans.ApplyRepayment(context.Background(), loan.Data.ID, models.ApplyRepaymentRequest{
		Amount: "600.00",
	})
	if !errors.Is(err, domain.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource for overpayment, got %v", err)
	}

	current, err := env.loans.GetLoan(context.Background(), loan.Data.ID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if current.Data.OutstandingAmount != "400.00" {
		t.Fatalf("expected outstanding 400.00 after rejected overpayment, got %s", current.Data.OutstandingAmount)
	}
}

func TestLoanServiceRejectsRepaymentOnClosedLoan(t *testing.T) {
	env := newTestEnv(t)
	borrowerID := env.createMember(t, "Kemi")

	loan, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    "2000.00",
		TenureMonths: 12,
	})
	if err != nil {
		t.Fatalf("issue loan: %v", err)
	}

	if _, err := env.loans.ApplyRepayment(context.Background(), loan.Data.ID, models.ApplyRepaymentRequest{
		Amount: "2000.00",
	}); err != nil {
		t.Fatalf("full repayment: %v", err)
	}

	_, err = env.loans.ApplyRepayment(context.Background(), loan.Data.ID, models.ApplyRepaymentRequest{
		Amount: "10.00",
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for repayment on closed loan, got %v", err)
	}
}

func TestLoanServiceListRepayments(t *testing.T) {
	env := newTestEnv(t)
	borrowerID := env.createMember(t, "Lanre")

	loan, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    "900.00",
		TenureMonths: 3,
	})
	if err != nil {
		t.Fatalf("issue loan: %v", err)
	}

	for _, amount := range []string{"300.00", "300.00"} {
		if _, err := env.loans.ApplyRepayment(context.Background(), loan.Data.ID, models.ApplyRepaymentRequest{
			Amount: amount,
		}); err != nil {
			t.Fatalf("repayment %s: %v", amount, err)
		}
	}

	list, err := env.loans.ListRepayments(context.Background(), loan.Data.ID)
	if err != nil {
		t.Fatalf("list repayments: %v", err)
	}
	if len(*list.Data) != 2 {
		t.Fatalf("expected 2 repayments, got %d", len(*list.Data))
	}
}

func TestLoanServiceIssueLoanUnknownBorrower(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.loans.IssueLoan(context.Background(), models.IssueLoanRequest{
		BorrowerID:   "missing",
		Principal:    "1000.00",
		TenureMonths: 12,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
