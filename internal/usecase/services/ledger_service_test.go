package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/domain"
)

func TestLedgerServiceOpenAccountValidationError(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.OpenAccount(context.Background(), models.OpenAccountRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty open account request")
	}
}

func TestLedgerServiceOpenAccountUnknownOwner(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.OpenAccount(context.Background(), models.OpenAccountRequest{
		OwnerID:     "missing",
		AccountType: "SAVINGS",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerServiceCreditIncreasesBalance(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.createMember(t, "Amina")
	accountID := env.openAccount(t, ownerID, "1000.00")

	resp, err := env.ledger.ApplyTransaction(context.Background(), models.ApplyTransactionRequest{
		AccountID: accountID,
		Type:      "CREDIT",
		Amount:    "250.50",
		Narration: "cash deposit",
	})
	if err != nil {
		t.Fatalf("apply credit: %v", err)
	}
	if resp.Data.NewBalance != "1250.50" {
		t.Fatalf("expected new balance 1250.50, got %s", resp.Data.NewBalance)
	}
	if resp.Data.Entry.BalanceBefore != "1000.00" {
		t.Fatalf("expected balance before 1000.00, got %s", resp.Data.Entry.BalanceBefore)
	}
}

func TestLedgerServiceDebitBeyondBalanceFailsAndLeavesBalanceUntouched(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.createMember(t, "Bashir")
	accountID := env.openAccount(t, ownerID, "1000.00")

	_, err := env.ledger.ApplyTransaction(context.Background(), models.ApplyTransactionRequest{
		AccountID: accountID,
		Type:      "DEBIT",
		Amount:    "1500.00",
	})
	if !errors.Is(err, domain.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource, got %v", err)
	}

	account, err := env.ledger.GetAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Data.Balance != "1000.00" {
		t.Fatalf("expected balance unchanged at 1000.00, got %s", account.Data.Balance)
	}

	history, err := env.ledger.GetHistory(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history.Data.Entries) != 0 {
		t.Fatalf("expected no ledger entries after rejected debit, got %d", len(history.Data.Entries))
	}
}

func TestLedgerServiceDebitRespectsMinimumBalance(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.createMember(t, "Chidi")

	resp, err := env.ledger.OpenAccount(context.Background(), models.OpenAccountRequest{
		OwnerID:        ownerID,
		AccountType:    "SAVINGS",
		InitialDeposit: "1000.00",
		MinimumBalance: "200.00",
	})
	if err != nil {
		t.Fatalf("open account: %v", err)
	}

	_, err = env.ledger.ApplyTransaction(context.Background(), models.ApplyTransactionRequest{
		AccountID: resp.Data.ID,
		Type:      "DEBIT",
		Amount:    "900.00",
	})
	if !errors.Is(err, domain.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource below minimum balance, got %v", err)
	}

	ok, err := env.ledger.ApplyTransaction(context.Background(), models.ApplyTransactionRequest{
		AccountID: resp.Data.ID,
		Type:      "DEBIT",
		Amount:    "800.00",
	})
	if err != nil {
		t.Fatalf("apply debit to floor: %v", err)
	}
	if ok.Data.NewBalance != "200.00" {
		t.Fatalf("expected balance 200.00 at floor, got %s", ok.Data.NewBalance)
	}
}

func TestLedgerServiceTransferConservesCombinedBalance(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.createMember(t, "Dede")
	fromID := env.openAccount(t, ownerID, "1000.00")
	toID := env.openAccount(t, ownerID, "500.00")

	resp, err := env.ledger.Transfer(context.Background(), models.TransferRequest{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        "300.00",
		Narration:     "settlement",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if resp.Data.SourceBalance != "700.00" {
		t.Fatalf("expected source balance 700.00, got %s", resp.Data.SourceBalance)
	}
	if resp.Data.DestinationBalance != "800.00" {
		t.Fatalf("expected destination balance 800.00, got %s", resp.Data.DestinationBalance)
	}
}

func TestLedgerServiceTransferFailureLeavesBothAccountsUntouched(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.createMember(t, "Efe")
	fromID := env.openAccount(t, ownerID, "100.00")
	toID := env.openAccount(t, ownerID, "500.00")

	_, err := env.ledger.Transfer(context.Background(), models.TransferRequest{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        "250.00",
	})
	if !errors.Is(err, domain.ErrInsufficientResource) {
		t.Fatalf("expected ErrInsufficientResource, got %v", err)
	}

	from, _ := env.ledger.GetAccount(context.Background(), fromID)
	to, _ := env.ledger.GetAccount(context.Background(), toID)
	if from.Data.Balance != "100.00" || to.Data.Balance != "500.00" {
		t.Fatalf("expected balances 100.00/500.00 after failed transfer, got %s/%s",
			from.Data.Balance, to.Data.Balance)
	}
}

func TestLedgerServiceHistoryPreservesPostingOrder(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.createMember(t, "Folake")
	accountID := env.openAccount(t, ownerID, "0")

	amounts := []string{"100.00", "200.00", "300.00"}
	for _, amount := range amounts {
		if _, err := env.ledger.ApplyTransaction(context.Background(), models.ApplyTransactionRequest{
			AccountID: accountID,
			Type:      "CREDIT",
			Amount:    amount,
		}); err != nil {
			t.Fatalf("apply credit %s: %v", amount, err)
		}
	}

	history, err := env.ledger.GetHistory(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history.Data.Entries) != len(amounts) {
		t.Fatalf("expected %d entries, got %d", len(amounts), len(history.Data.Entries))
	}
	for i, amount := range amounts {
		if history.Data.Entries[i].Amount != amount {
			t.Fatalf("expected entry %d amount %s, got %s", i, amount, history.Data.Entries[i].Amount)
		}
	}
	// each entry's before balance must equal the previous entry's after
	for i := 1; i < len(history.Data.Entries); i++ {
		if history.Data.Entries[i].BalanceBefore != history.Data.Entries[i-1].BalanceAfter {
			t.Fatalf("entry %d balance chain broken: before %s, previous after %s",
				i, history.Data.Entries[i].BalanceBefore, history.Data.Entries[i-1].BalanceAfter)
		}
	}
}
