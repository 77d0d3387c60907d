package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

func declareDividend(t *testing.T, env *testEnv) models.DividendResponse {
	t.Helper()

	resp, err := env.dividends.DeclareDividend(context.Background(), models.DeclareDividendRequest{
		Year:        2026,
		Type:        "ANNUAL",
		RatePercent: "10",
		RecordDate:  "2026-12-31",
		PaymentDate: "2027-01-31",
	})
	if err != nil {
		t.Fatalf("declare dividend: %v", err)
	}
	return *resp.Data
}

func TestDividendServiceDeclareStartsDeclared(t *testing.T) {
	env := newTestEnv(t)

	dividend := declareDividend(t, env)
	if dividend.Status != string(domain.DividendStatusDeclared) {
		t.Fatalf("expected status DECLARED, got %s", dividend.Status)
	}
}

func TestDividendServiceRejectsDuplicateDeclaration(t *testing.T) {
	env := newTestEnv(t)
	declareDividend(t, env)

	_, err := env.dividends.DeclareDividend(context.Background(), models.DeclareDividendRequest{
		Year:        2026,
		Type:        "ANNUAL",
		RatePercent: "12",
		RecordDate:  "2026-12-31",
		PaymentDate: "2027-01-31",
	})
	if !errors.Is(err, domain.ErrDuplicateResource) {
		t.Fatalf("expected ErrDuplicateResource, got %v", err)
	}
}

func TestDividendServiceCancelledDeclarationFreesSlot(t *testing.T) {
	env := newTestEnv(t)
	dividend := declareDividend(t, env)

	if _, err := env.dividends.CancelDividend(context.Background(), dividend.ID, models.CancelDividendRequest{
		Reason: "board rejected the rate",
	}); err != nil {
		t.Fatalf("cancel dividend: %v", err)
	}

	if _, err := env.dividends.DeclareDividend(context.Background(), models.DeclareDividendRequest{
		Year:        2026,
		Type:        "ANNUAL",
		RatePercent: "8",
		RecordDate:  "2026-12-31",
		PaymentDate: "2027-01-31",
	}); err != nil {
		t.Fatalf("declare after cancellation: %v", err)
	}
}

func TestDividendServiceDistributeRequiresApproval(t *testing.T) {
	env := newTestEnv(t)
	dividend := declareDividend(t, env)

	_, err := env.dividends.DistributeDividend(context.Background(), dividend.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for unapproved distribution, got %v", err)
	}
}

func TestDividendServiceDistributePaysEveryShareholderOnce(t *testing.T) {
	env := newTestEnv(t)

	aID := env.createMember(t, "Dapo")
	bID := env.createMember(t, "Ebun")
	if _, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       aID,
		ShareType:      "ORDINARY",
		NumberOfShares: 100,
		ShareValue:     "10.00",
	}); err != nil {
		t.Fatalf("allocate shares: %v", err)
	}
	if _, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       bID,
		ShareType:      "ORDINARY",
		NumberOfShares: 50,
		ShareValue:     "10.00",
	}); err != nil {
		t.Fatalf("allocate shares: %v", err)
	}

	dividend := declareDividend(t, env)
	if _, err := env.dividends.ApproveDividend(context.Background(), dividend.ID); err != nil {
		t.Fatalf("approve dividend: %v", err)
	}

	resp, err := env.dividends.DistributeDividend(context.Background(), dividend.ID)
	if err != nil {
		t.Fatalf("distribute dividend: %v", err)
	}
	if resp.Data.Status != string(domain.DividendStatusPaid) {
		t.Fatalf("expected status PAID, got %s", resp.Data.Status)
	}
	if resp.Data.Recipients != 2 {
		t.Fatalf("expected 2 recipients, got %d", resp.Data.Recipients)
	}

	// payouts at 10% of par: 100*10*0.10 and 50*10*0.10
	total := decimal.Zero
	for _, payout := range resp.Data.Payouts {
		amount, _ := decimal.NewFromString(payout.PayoutAmount)
		total = total.Add(amount)
	}
	if total.StringFixed(2) != "150.00" {
		t.Fatalf("expected payouts summing to 150.00, got %s", total.StringFixed(2))
	}
	if resp.Data.TotalAmount != "150.00" {
		t.Fatalf("expected dividend total 150.00, got %s", resp.Data.TotalAmount)
	}

	_, err = env.dividends.DistributeDividend(context.Background(), dividend.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second distribution, got %v", err)
	}

	rows, err := env.dividends.ListDistributions(context.Background(), dividend.ID)
	if err != nil {
		t.Fatalf("list distributions: %v", err)
	}
	if len(*rows.Data) != 2 {
		t.Fatalf("expected exactly one batch of 2 rows, got %d", len(*rows.Data))
	}
}

func TestDividendServiceCannotCancelPaidDividend(t *testing.T) {
	env := newTestEnv(t)

	memberID := env.createMember(t, "Femi")
	if _, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       memberID,
		ShareType:      "ORDINARY",
		NumberOfShares: 10,
		ShareValue:     "10.00",
	}); err != nil {
		t.Fatalf("allocate shares: %v", err)
	}

	dividend := declareDividend(t, env)
	if _, err := env.dividends.ApproveDividend(context.Background(), dividend.ID); err != nil {
		t.Fatalf("approve dividend: %v", err)
	}
	if _, err := env.dividends.DistributeDividend(context.Background(), dividend.ID); err != nil {
		t.Fatalf("distribute dividend: %v", err)
	}

	_, err := env.dividends.CancelDividend(context.Background(), dividend.ID, models.CancelDividendRequest{
		Reason: "attempted rollback",
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState cancelling paid dividend, got %v", err)
	}
}

func TestDividendServiceApproveRequiresDeclaredState(t *testing.T) {
	env := newTestEnv(t)
	dividend := declareDividend(t, env)

	if _, err := env.dividends.ApproveDividend(context.Background(), dividend.ID); err != nil {
		t.Fatalf("approve dividend: %v", err)
	}

	_, err := env.dividends.ApproveDividend(context.Background(), dividend.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second approval, got %v", err)
	}
}
