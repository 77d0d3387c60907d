package models

import (
	"errors"
	"strings"
	"time"
)

type IssueLoanRequest struct {
	BorrowerID   string `json:"borrowerId"`
	Principal    string `json:"principal"`
	RatePercent  string `json:"ratePercent"`
	TenureMonths int    `json:"tenureMonths"`
}

func (r IssueLoanRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.BorrowerID) == "" {
		errs = append(errs, "borrowerId is required")
	}
	if err := validatePositiveAmount(r.Principal, "principal"); err != "" {
		errs = append(errs, err)
	}
	if err := validateOptionalNonNegative(r.RatePercent, "ratePercent"); err != "" {
		errs = append(errs, err)
	}
	if r.TenureMonths <= 0 {
		errs = append(errs, "tenureMonths must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoanResponse struct {
	ID                string `json:"id"`
	BorrowerID        string `json:"borrowerId"`
	PrincipalAmount   string `json:"principalAmount"`
	InterestRate      string `json:"interestRate"`
	TenureMonths      int    `json:"tenureMonths"`
	OutstandingAmount string `json:"outstandingAmount"`
	Status            string `json:"status"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

type ApplyRepaymentRequest struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate,omitempty"`
}

func (r ApplyRepaymentRequest) Validate() error {
	var errs []string

	if err := validatePositiveAmount(r.Amount, "amount"); err != "" {
		errs = append(errs, err)
	}
	if date := strings.TrimSpace(r.PaymentDate); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			errs = append(errs, "paymentDate must be in YYYY-MM-DD format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ApplyRepaymentResponse struct {
	RepaymentID       string `json:"repaymentId"`
	LoanID            string `json:"loanId"`
	Amount            string `json:"amount"`
	PaymentDate       string `json:"paymentDate"`
	OutstandingAmount string `json:"outstandingAmount"`
	Status            string `json:"status"`
}
