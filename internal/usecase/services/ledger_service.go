package services

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/coop-banking-core/internal/commons"
	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService owns account balance mutation. All monetary movement flows
// through the account repository's atomic posting operations; the service
// itself never computes a balance outside a posting.
type LedgerService struct {
	accountRepo repo_interfaces.AccountRepository
	memberRepo  repo_interfaces.MemberRepository
}

func NewLedgerService(accountRepo repo_interfaces.AccountRepository, memberRepo repo_interfaces.MemberRepository) *LedgerService {
	return &LedgerService{accountRepo: accountRepo, memberRepo: memberRepo}
}

func (s *LedgerService) OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("ledger service open account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service open account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	ownerID := strings.TrimSpace(req.OwnerID)
	owner, err := s.memberRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Owner not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
	}
	if owner.Status != domain.MemberStatusActive {
		err := fmt.Errorf("member %s is %s: %w", ownerID, owner.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.AccountResponse]("owner is not active", err.Error()), err
	}

	account := domain.Account{
		OwnerID:        ownerID,
		AccountNumber:  generateAccountNumber(),
		AccountType:    domain.AccountType(strings.ToUpper(strings.TrimSpace(req.AccountType))),
		Balance:        parseOrZero(req.InitialDeposit),
		MinimumBalance: parseOrZero(req.MinimumBalance),
		InterestRate:   parseOrZero(req.InterestRate),
		Status:         domain.AccountStatusActive,
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		logger.Error("ledger service open account repository failed", err, logger.Fields{
			"ownerId": ownerID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
	}

	logger.Info("ledger service open account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
		"ownerId":       created.OwnerID,
	})

	return commons.SuccessResponse("account opened successfully", mapAccountToResponse(created)), nil
}

func (s *LedgerService) GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error) {
	if strings.TrimSpace(id) == "" {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

// ApplyTransaction posts a single credit or debit. The returned entry
// carries the before/after balance snapshot taken inside the posting.
func (s *LedgerService) ApplyTransaction(ctx context.Context, req models.ApplyTransactionRequest) (commons.Response[models.ApplyTransactionResponse], error) {
	logger.Info("ledger service apply transaction request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service apply transaction validation failed", err, nil)
		return commons.ErrorResponse[models.ApplyTransactionResponse]("validation failed", err.Error()), err
	}

	accountID := strings.TrimSpace(req.AccountID)
	amount, _ := decimal.NewFromString(strings.TrimSpace(req.Amount))
	narration := strings.TrimSpace(req.Narration)

	var entry domain.LedgerEntry
	var err error
	switch strings.ToUpper(strings.TrimSpace(req.Type)) {
	case string(domain.LedgerEntryCredit):
		entry, err = s.accountRepo.Credit(ctx, accountID, amount, narration)
	case string(domain.LedgerEntryDebit):
		entry, err = s.accountRepo.Debit(ctx, accountID, amount, narration)
	}
	if err != nil {
		return commons.ErrorResponse[models.ApplyTransactionResponse](postingFailureMessage(err), err.Error()), err
	}

	response := models.ApplyTransactionResponse{
		Entry:      mapEntryToResponse(entry),
		NewBalance: entry.BalanceAfter.StringFixed(2),
	}

	logger.Info("ledger service apply transaction success", logger.Fields{
		"accountId":  accountID,
		"entryId":    entry.ID,
		"type":       entry.EntryType,
		"newBalance": response.NewBalance,
	})

	return commons.SuccessResponse("transaction applied successfully", response), nil
}

// Transfer debits the source and credits the destination as one unit; the
// combined balance of the two accounts is unchanged by a successful call.
func (s *LedgerService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("ledger service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service transfer validation failed", err, nil)
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	amount, _ := decimal.NewFromString(strings.TrimSpace(req.Amount))
	debitEntry, creditEntry, err := s.accountRepo.Transfer(
		ctx,
		strings.TrimSpace(req.FromAccountID),
		strings.TrimSpace(req.ToAccountID),
		amount,
		strings.TrimSpace(req.Narration),
	)
	if err != nil {
		return commons.ErrorResponse[models.TransferResponse](postingFailureMessage(err), err.Error()), err
	}

	response := models.TransferResponse{
		Debit:              mapEntryToResponse(debitEntry),
		Credit:             mapEntryToResponse(creditEntry),
		SourceBalance:      debitEntry.BalanceAfter.StringFixed(2),
		DestinationBalance: creditEntry.BalanceAfter.StringFixed(2),
	}

	logger.Info("ledger service transfer success", logger.Fields{
		"fromAccountId": debitEntry.AccountID,
		"toAccountId":   creditEntry.AccountID,
		"amount":        amount.StringFixed(2),
	})

	return commons.SuccessResponse("transfer completed successfully", response), nil
}

func (s *LedgerService) GetHistory(ctx context.Context, accountID string) (commons.Response[models.AccountHistoryResponse], error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return commons.ErrorResponse[models.AccountHistoryResponse]("validation failed", "accountId is required"), fmt.Errorf("accountId is required")
	}

	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.AccountHistoryResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountHistoryResponse]("failed to get history", "Unable to fetch history right now"), err
	}

	entries, err := s.accountRepo.ListEntries(ctx, accountID)
	if err != nil {
		logger.Error("ledger service get history failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[models.AccountHistoryResponse]("failed to get history", "Unable to fetch history right now"), err
	}

	response := models.AccountHistoryResponse{
		AccountID: accountID,
		Entries:   make([]models.LedgerEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, mapEntryToResponse(entry))
	}

	return commons.SuccessResponse("history fetched successfully", response), nil
}

func postingFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Account not found"
	case errors.Is(err, domain.ErrInvalidState):
		return "account is not active"
	case errors.Is(err, domain.ErrInsufficientResource):
		return "Insufficient balance"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "posting conflicted with a concurrent operation, retry"
	default:
		return "failed to post transaction"
	}
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:             account.ID,
		OwnerID:        account.OwnerID,
		AccountNumber:  account.AccountNumber,
		AccountType:    string(account.AccountType),
		Balance:        account.Balance.StringFixed(2),
		MinimumBalance: account.MinimumBalance.StringFixed(2),
		InterestRate:   account.InterestRate.StringFixed(2),
		Status:         string(account.Status),
		CreatedAt:      account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      account.UpdatedAt.Format(time.RFC3339),
	}
}

func mapEntryToResponse(entry domain.LedgerEntry) models.LedgerEntryResponse {
	return models.LedgerEntryResponse{
		ID:            entry.ID,
		AccountID:     entry.AccountID,
		Type:          string(entry.EntryType),
		Amount:        entry.Amount.StringFixed(2),
		BalanceBefore: entry.BalanceBefore.StringFixed(2),
		BalanceAfter:  entry.BalanceAfter.StringFixed(2),
		Narration:     entry.Narration,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
}

func parseOrZero(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}

func generateAccountNumber() string {
	id := uuid.New()
	return fmt.Sprintf("%010d", binary.BigEndian.Uint64(id[:8])%10_000_000_000)
}
