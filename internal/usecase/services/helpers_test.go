package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/adapter/repository/memory"
	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/api-sage/coop-banking-core/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type testEnv struct {
	members   *services.MemberService
	ledger    *services.LedgerService
	loans     *services.LoanService
	deposits  *services.DepositService
	shares    *services.ShareService
	dividends *services.DividendService

	memberRepo *memory.MemberRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	memberRepo := memory.NewMemberRepository(store)
	accountRepo := memory.NewAccountRepository(store)
	loanRepo := memory.NewLoanRepository(store)
	depositRepo := memory.NewDepositRepository(store)
	shareRepo := memory.NewShareRepository(store)
	dividendRepo := memory.NewDividendRepository(store)

	return &testEnv{
		members:    services.NewMemberService(memberRepo),
		ledger:     services.NewLedgerService(accountRepo, memberRepo),
		loans:      services.NewLoanService(loanRepo, memberRepo),
		deposits:   services.NewDepositService(depositRepo, memberRepo, decimal.NewFromInt(1), decimal.NewFromInt(2)),
		shares:     services.NewShareService(shareRepo, memberRepo),
		dividends:  services.NewDividendService(dividendRepo, shareRepo),
		memberRepo: memberRepo,
	}
}

func (e *testEnv) createMember(t *testing.T, firstName string) string {
	t.Helper()

	resp, err := e.members.CreateMember(context.Background(), models.CreateMemberRequest{
		FirstName:      firstName,
		LastName:       "Member",
		PhoneNumber:    "0700000000",
		TransactionPin: "4321",
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	return resp.Data.ID
}

func (e *testEnv) createInactiveMember(t *testing.T, firstName string) string {
	t.Helper()

	member, err := e.memberRepo.Create(context.Background(), domain.Member{
		FirstName:    firstName,
		LastName:     "Member",
		MemberNumber: "IN-" + firstName,
		PhoneNumber:  "0700000001",
		Status:       domain.MemberStatusInactive,
	})
	if err != nil {
		t.Fatalf("create inactive member: %v", err)
	}
	return member.ID
}

func (e *testEnv) openAccount(t *testing.T, ownerID, initialDeposit string) string {
	t.Helper()

	resp, err := e.ledger.OpenAccount(context.Background(), models.OpenAccountRequest{
		OwnerID:        ownerID,
		AccountType:    "SAVINGS",
		InitialDeposit: initialDeposit,
	})
	if err != nil {
		t.Fatalf("open account: %v", err)
	}
	return resp.Data.ID
}
