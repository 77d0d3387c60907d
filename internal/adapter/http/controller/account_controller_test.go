package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/controller"
	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/adapter/http/router"
	"github.com/api-sage/coop-banking-core/internal/adapter/repository/memory"
	"github.com/api-sage/coop-banking-core/internal/commons"
	"github.com/api-sage/coop-banking-core/internal/usecase/services"
	"github.com/gorilla/mux"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	store := memory.NewStore()
	memberRepo := memory.NewMemberRepository(store)
	accountRepo := memory.NewAccountRepository(store)

	memberService := services.NewMemberService(memberRepo)
	ledgerService := services.NewLedgerService(accountRepo, memberRepo)

	return router.New(
		nil,
		controller.NewMemberController(memberService),
		controller.NewAccountController(ledgerService),
	)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAccountControllerOpenAndDebitFlow(t *testing.T) {
	handler := newTestRouter(t)

	memberRR := doJSON(t, handler, http.MethodPost, "/members", models.CreateMemberRequest{
		FirstName:      "Ada",
		LastName:       "Obi",
		PhoneNumber:    "0700000001",
		TransactionPin: "1234",
	})
	if memberRR.Code != http.StatusCreated {
		t.Fatalf("create member: expected 201, got %d: %s", memberRR.Code, memberRR.Body.String())
	}
	var memberResp commons.Response[models.CreateMemberResponse]
	if err := json.Unmarshal(memberRR.Body.Bytes(), &memberResp); err != nil {
		t.Fatalf("decode member response: %v", err)
	}

	accountRR := doJSON(t, handler, http.MethodPost, "/accounts", models.OpenAccountRequest{
		OwnerID:        memberResp.Data.ID,
		AccountType:    "SAVINGS",
		InitialDeposit: "1000.00",
	})
	if accountRR.Code != http.StatusCreated {
		t.Fatalf("open account: expected 201, got %d: %s", accountRR.Code, accountRR.Body.String())
	}
	var accountResp commons.Response[models.AccountResponse]
	if err := json.Unmarshal(accountRR.Body.Bytes(), &accountResp); err != nil {
		t.Fatalf("decode account response: %v", err)
	}

	debitRR := doJSON(t, handler, http.MethodPost, "/accounts/transactions", models.ApplyTransactionRequest{
		AccountID: accountResp.Data.ID,
		Type:      "DEBIT",
		Amount:    "1500.00",
	})
	if debitRR.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overdraft debit: expected 422, got %d: %s", debitRR.Code, debitRR.Body.String())
	}

	getRR := doJSON(t, handler, http.MethodGet, "/accounts/"+accountResp.Data.ID, nil)
	if getRR.Code != http.StatusOK {
		t.Fatalf("get account: expected 200, got %d", getRR.Code)
	}
	var fetched commons.Response[models.AccountResponse]
	if err := json.Unmarshal(getRR.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode fetched account: %v", err)
	}
	if fetched.Data.Balance != "1000.00" {
		t.Fatalf("expected balance 1000.00 after rejected debit, got %s", fetched.Data.Balance)
	}
}

func TestAccountControllerRejectsMalformedBody(t *testing.T) {
	handler := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}
}

func TestAccountControllerUnknownAccountReturnsNotFound(t *testing.T) {
	handler := newTestRouter(t)

	rr := doJSON(t, handler, http.MethodGet, "/accounts/does-not-exist", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
