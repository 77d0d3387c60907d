package models

import (
	"errors"
	"strings"
	"time"
)

type DeclareDividendRequest struct {
	Year        int    `json:"year"`
	Type        string `json:"type"`
	RatePercent string `json:"ratePercent"`
	RecordDate  string `json:"recordDate"`
	PaymentDate string `json:"paymentDate"`
}

func (r DeclareDividendRequest) Validate() error {
	var errs []string

	if r.Year < 1900 {
		errs = append(errs, "year is required")
	}

	dividendType := strings.ToUpper(strings.TrimSpace(r.Type))
	switch dividendType {
	case "ANNUAL", "INTERIM", "BONUS", "SPECIAL":
	case "":
		errs = append(errs, "type is required")
	default:
		errs = append(errs, "type must be one of ANNUAL, INTERIM, BONUS, SPECIAL")
	}

	if err := validatePositiveAmount(r.RatePercent, "ratePercent"); err != "" {
		errs = append(errs, err)
	}

	recordDate, recordErr := parseDateField(r.RecordDate, "recordDate", &errs)
	paymentDate, paymentErr := parseDateField(r.PaymentDate, "paymentDate", &errs)
	if recordErr == nil && paymentErr == nil && paymentDate.Before(recordDate) {
		errs = append(errs, "paymentDate cannot be before recordDate")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type DividendResponse struct {
	ID           string `json:"id"`
	Year         int    `json:"year"`
	Type         string `json:"type"`
	RatePercent  string `json:"ratePercent"`
	RecordDate   string `json:"recordDate"`
	PaymentDate  string `json:"paymentDate"`
	Status       string `json:"status"`
	TotalAmount  string `json:"totalAmount"`
	CancelReason string `json:"cancelReason,omitempty"`
}

type CancelDividendRequest struct {
	Reason string `json:"reason"`
}

func (r CancelDividendRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return errors.New("reason is required")
	}
	return nil
}

type DistributionResponse struct {
	MemberID       string `json:"memberId"`
	NumberOfShares int64  `json:"numberOfShares"`
	PayoutAmount   string `json:"payoutAmount"`
	PaymentStatus  string `json:"paymentStatus"`
}

type DistributeDividendResponse struct {
	DividendID  string                 `json:"dividendId"`
	Status      string                 `json:"status"`
	Recipients  int                    `json:"recipients"`
	TotalAmount string                 `json:"totalAmount"`
	Payouts     []DistributionResponse `json:"payouts"`
}

func parseDateField(raw, field string, errs *[]string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		*errs = append(*errs, field+" is required")
		return time.Time{}, errors.New(field + " is required")
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		*errs = append(*errs, field+" must be in YYYY-MM-DD format")
		return time.Time{}, err
	}
	return parsed, nil
}
