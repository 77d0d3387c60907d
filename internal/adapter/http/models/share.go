package models

import (
	"errors"
	"strings"
)

type AllocateSharesRequest struct {
	MemberID       string `json:"memberId"`
	ShareType      string `json:"shareType"`
	NumberOfShares int64  `json:"numberOfShares"`
	ShareValue     string `json:"shareValue"`
}

func (r AllocateSharesRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.MemberID) == "" {
		errs = append(errs, "memberId is required")
	}
	if strings.TrimSpace(r.ShareType) == "" {
		errs = append(errs, "shareType is required")
	}
	if r.NumberOfShares <= 0 {
		errs = append(errs, "numberOfShares must be greater than zero")
	}
	if err := validatePositiveAmount(r.ShareValue, "shareValue"); err != "" {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ShareHoldingResponse struct {
	ID             string `json:"id"`
	MemberID       string `json:"memberId"`
	ShareType      string `json:"shareType"`
	NumberOfShares int64  `json:"numberOfShares"`
	ShareValue     string `json:"shareValue"`
	TotalAmount    string `json:"totalAmount"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
}

type TransferSharesRequest struct {
	FromMemberID   string `json:"fromMemberId"`
	ToMemberID     string `json:"toMemberId"`
	NumberOfShares int64  `json:"numberOfShares"`
	Price          string `json:"price"`
}

func (r TransferSharesRequest) Validate() error {
	var errs []string

	from := strings.TrimSpace(r.FromMemberID)
	to := strings.TrimSpace(r.ToMemberID)
	if from == "" {
		errs = append(errs, "fromMemberId is required")
	}
	if to == "" {
		errs = append(errs, "toMemberId is required")
	}
	if from != "" && from == to {
		errs = append(errs, "fromMemberId and toMemberId cannot be the same")
	}
	if r.NumberOfShares <= 0 {
		errs = append(errs, "numberOfShares must be greater than zero")
	}
	if err := validatePositiveAmount(r.Price, "price"); err != "" {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferSharesResponse struct {
	FromMemberID   string `json:"fromMemberId"`
	ToMemberID     string `json:"toMemberId"`
	NumberOfShares int64  `json:"numberOfShares"`
	Price          string `json:"price"`
	FromBalance    int64  `json:"fromBalance"`
	ToBalance      int64  `json:"toBalance"`
}

type SharePositionResponse struct {
	MemberID string `json:"memberId"`
	Shares   int64  `json:"shares"`
}
