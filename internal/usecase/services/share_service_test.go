package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/domain"
)

func TestShareServiceAllocateSharesValidationError(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty allocate request")
	}
}

func TestShareServiceAllocateSharesCreatesPosition(t *testing.T) {
	env := newTestEnv(t)
	memberID := env.createMember(t, "Wale")

	resp, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       memberID,
		ShareType:      "ORDINARY",
		NumberOfShares: 100,
		ShareValue:     "10.00",
	})
	if err != nil {
		t.Fatalf("allocate shares: %v", err)
	}
	if resp.Data.TotalAmount != "1000.00" {
		t.Fatalf("expected total amount 1000.00, got %s", resp.Data.TotalAmount)
	}

	position, err := env.shares.GetPosition(context.Background(), memberID)
	if err != nil {
		t.Fatalf("get position: %v", err)
	}
	if position.Data.Shares != 100 {
		t.Fatalf("expected position 100, got %d", position.Data.Shares)
	}
}

func TestShareServiceTransferMovesShares(t *testing.T) {
	env := newTestEnv(t)
	fromID := env.createMember(t, "Yemi")
	toID := env.createMember(t, "Zara")

	if _, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       fromID,
		ShareType:      "ORDINARY",
		NumberOfShares: 100,
		ShareValue:     "10.00",
	}); err != nil {
		t.Fatalf("allocate shares: %v", err)
	}

	resp, err := env.shares.TransferShares(context.Background(), models.TransferSharesRequest{
		FromMemberID:   fromID,
		ToMemberID:     toID,
		NumberOfShares: 30,
		Price:          "12.00",
	})
	if err != nil {
		t.Fatalf("transfer shares: %v", err)
	}
	if resp.Data.FromBalance != 70 {
		t.Fatalf("expected source balance 70, got %d", resp.Data.FromBalance)
	}
	if resp.Data.ToBalance != 30 {
		t.Fatalf("expected destination balance 30, got %d", resp.Data.ToBalance)
	}
	if resp.Data.FromBalance+resp.Data.ToBalance != 100 {
		t.Fatalf("registry total changed by transfer: %d", resp.Data.FromBalance+resp.Data.ToBalance)
	}
}

func TestShareServiceTransferBeyondPositionFails(t *testing.T) {
	env := newTestEnv(t)
	fromID := env.createMember(t, "Abebi")
	toID := env.createMember(t, "Bolu")

	if _, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       fromID,
		ShareType:      "ORDINARY",
		NumberOfShares: 100,
		ShareValue:     "10.00",
	}); err != nil {
		t.Fatalf("allocate shares: %v", err)
	}

	_, err := env.shares.TransferShares(context.Background(), models.TransferSharesRequest{
		FromMemberID:   fromID,
		ToMemberID:     toID,
		NumberOfShares: 150,
		Price:          "10.00",
	})
	if !errors.Is(err, domain.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource, got %v", err)
	}

	from, _ := env.shares.GetPosition(context.Background(), fromID)
	to, _ := env.shares.GetPosition(context.Background(), toID)
	if from.Data.Shares != 100 || to.Data.Shares != 0 {
		t.Fatalf("expected positions 100/0 after failed transfer, got %d/%d",
			from.Data.Shares, to.Data.Shares)
	}
}

func TestShareServiceTransferInvolvingInactiveMemberFails(t *testing.T) {
	env := newTestEnv(t)
	fromID := env.createMember(t, "Dayo")
	dormantID := env.createInactiveMember(t, "Efe")

	if _, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       fromID,
		ShareType:      "ORDINARY",
		NumberOfShares: 100,
		ShareValue:     "10.00",
	}); err != nil {
		t.Fatalf("allocate shares: %v", err)
	}

	_, err := env.shares.TransferShares(context.Background(), models.TransferSharesRequest{
		FromMemberID:   fromID,
		ToMemberID:     dormantID,
		NumberOfShares: 10,
		Price:          "10.00",
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState transferring to inactive member, got %v", err)
	}

	_, err = env.shares.TransferShares(context.Background(), models.TransferSharesRequest{
		FromMemberID:   dormantID,
		ToMemberID:     fromID,
		NumberOfShares: 10,
		Price:          "10.00",
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState transferring from inactive member, got %v", err)
	}

	from, _ := env.shares.GetPosition(context.Background(), fromID)
	dormant, _ := env.shares.GetPosition(context.Background(), dormantID)
	if from.Data.Shares != 100 || dormant.Data.Shares != 0 {
		t.Fatalf("expected positions 100/0 after rejected transfers, got %d/%d",
			from.Data.Shares, dormant.Data.Shares)
	}
}

func TestShareServiceTransferToUnknownMemberFails(t *testing.T) {
	env := newTestEnv(t)
	fromID := env.createMember(t, "Caro")

	if _, err := env.shares.AllocateShares(context.Background(), models.AllocateSharesRequest{
		MemberID:       fromID,
		ShareType:      "ORDINARY",
		NumberOfShares: 50,
		ShareValue:     "10.00",
	}); err != nil {
		t.Fatalf("allocate shares: %v", err)
	}

	_, err := env.shares.TransferShares(context.Background(), models.TransferSharesRequest{
		FromMemberID:   fromID,
		ToMemberID:     "missing",
		NumberOfShares: 10,
		Price:          "10.00",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
