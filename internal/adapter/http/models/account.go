package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type OpenAccountRequest struct {
	OwnerID        string `json:"ownerId"`
	AccountType    string `json:"accountType"`
	MinimumBalance string `json:"minimumBalance,omitempty"`
	InterestRate   string `json:"interestRate,omitempty"`
	InitialDeposit string `json:"initialDeposit,omitempty"`
}

func (r OpenAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.OwnerID) == "" {
		errs = append(errs, "ownerId is required")
	}

	accountType := strings.ToUpper(strings.TrimSpace(r.AccountType))
	switch accountType {
	case "SAVINGS", "CURRENT", "FIXED_DEPOSIT", "RECURRING_DEPOSIT", "LOAN", "DEMAT":
	case "":
		errs = append(errs, "accountType is required")
	default:
		errs = append(errs, "accountType must be one of SAVINGS, CURRENT, FIXED_DEPOSIT, RECURRING_DEPOSIT, LOAN, DEMAT")
	}

	if err := validateOptionalNonNegative(r.MinimumBalance, "minimumBalance"); err != "" {
		errs = append(errs, err)
	}
	if err := validateOptionalNonNegative(r.InterestRate, "interestRate"); err != "" {
		errs = append(errs, err)
	}
	if err := validateOptionalNonNegative(r.InitialDeposit, "initialDeposit"); err != "" {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	ID             string `json:"id"`
	OwnerID        string `json:"ownerId"`
	AccountNumber  string `json:"accountNumber"`
	AccountType    string `json:"accountType"`
	Balance        string `json:"balance"`
	MinimumBalance string `json:"minimumBalance"`
	InterestRate   string `json:"interestRate"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type ApplyTransactionRequest struct {
	AccountID string `json:"accountId"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Narration string `json:"narration,omitempty"`
}

func (r ApplyTransactionRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}

	entryType := strings.ToUpper(strings.TrimSpace(r.Type))
	if entryType != "CREDIT" && entryType != "DEBIT" {
		errs = append(errs, "type must be CREDIT or DEBIT")
	}

	if err := validatePositiveAmount(r.Amount, "amount"); err != "" {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferRequest struct {
	FromAccountID string `json:"fromAccountId"`
	ToAccountID   string `json:"toAccountId"`
	Amount        string `json:"amount"`
	Narration     string `json:"narration,omitempty"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	from := strings.TrimSpace(r.FromAccountID)
	to := strings.TrimSpace(r.ToAccountID)
	if from == "" {
		errs = append(errs, "fromAccountId is required")
	}
	if to == "" {
		errs = append(errs, "toAccountId is required")
	}
	if from != "" && from == to {
		errs = append(errs, "fromAccountId and toAccountId cannot be the same")
	}

	if err := validatePositiveAmount(r.Amount, "amount"); err != "" {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LedgerEntryResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	BalanceBefore string `json:"balanceBefore"`
	BalanceAfter  string `json:"balanceAfter"`
	Narration     string `json:"narration,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

type ApplyTransactionResponse struct {
	Entry      LedgerEntryResponse `json:"entry"`
	NewBalance string              `json:"newBalance"`
}

type TransferResponse struct {
	Debit              LedgerEntryResponse `json:"debit"`
	Credit             LedgerEntryResponse `json:"credit"`
	SourceBalance      string              `json:"sourceBalance"`
	DestinationBalance string              `json:"destinationBalance"`
}

type AccountHistoryResponse struct {
	AccountID string                `json:"accountId"`
	Entries   []LedgerEntryResponse `json:"entries"`
}

func validatePositiveAmount(raw, field string) string {
	amount := strings.TrimSpace(raw)
	if amount == "" {
		return field + " is required"
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return field + " must be numeric"
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return field + " must be greater than zero"
	}
	return ""
}

func validateOptionalNonNegative(raw, field string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return field + " must be numeric"
	}
	if parsed.IsNegative() {
		return field + " cannot be negative"
	}
	return ""
}
