package models

import (
	"errors"
	"strings"
	"time"
)

type BookDepositRequest struct {
	HolderID     string `json:"holderId"`
	Product      string `json:"product"`
	Amount       string `json:"amount"`
	RatePercent  string `json:"ratePercent"`
	TenureMonths int    `json:"tenureMonths"`
	StartDate    string `json:"startDate"`
}

func (r BookDepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.HolderID) == "" {
		errs = append(errs, "holderId is required")
	}

	product := strings.ToUpper(strings.TrimSpace(r.Product))
	if product != "FIXED" && product != "RECURRING" {
		errs = append(errs, "product must be FIXED or RECURRING")
	}

	if err := validatePositiveAmount(r.Amount, "amount"); err != "" {
		errs = append(errs, err)
	}
	if err := validateOptionalNonNegative(r.RatePercent, "ratePercent"); err != "" {
		errs = append(errs, err)
	}
	if r.TenureMonths <= 0 {
		errs = append(errs, "tenureMonths must be greater than zero")
	}
	if date := strings.TrimSpace(r.StartDate); date == "" {
		errs = append(errs, "startDate is required")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		errs = append(errs, "startDate must be in YYYY-MM-DD format")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type DepositResponse struct {
	ID               string `json:"id"`
	HolderID         string `json:"holderId"`
	Product          string `json:"product"`
	Amount           string `json:"amount"`
	InterestRate     string `json:"interestRate"`
	TenureMonths     int    `json:"tenureMonths"`
	StartDate        string `json:"startDate"`
	MaturityDate     string `json:"maturityDate"`
	MaturityAmount   string `json:"maturityAmount"`
	InstallmentsPaid int    `json:"installmentsPaid"`
	Status           string `json:"status"`
}

type CloseDepositRequest struct {
	PenaltyRate string `json:"penaltyRate,omitempty"`
}

func (r CloseDepositRequest) Validate() error {
	if err := validateOptionalNonNegative(r.PenaltyRate, "penaltyRate"); err != "" {
		return errors.New(err)
	}
	return nil
}

type DepositPenaltyResponse struct {
	DepositID          string `json:"depositId"`
	MissedInstallments int    `json:"missedInstallments"`
	Penalty            string `json:"penalty"`
}

type MaturitySweepResponse struct {
	Matured int `json:"matured"`
}
