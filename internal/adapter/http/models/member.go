package models

import (
	"errors"
	"strings"
)

type CreateMemberRequest struct {
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName,omitempty"`
	LastName       string `json:"lastName"`
	PhoneNumber    string `json:"phoneNumber"`
	TransactionPin string `json:"transactionPin"`
}

func (r CreateMemberRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "firstName is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, "lastName is required")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		errs = append(errs, "phoneNumber is required")
	}
	if pin := strings.TrimSpace(r.TransactionPin); len(pin) < 4 {
		errs = append(errs, "transactionPin must be at least 4 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type CreateMemberResponse struct {
	ID           string `json:"id"`
	MemberNumber string `json:"memberNumber"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

type GetMemberResponse struct {
	ID           string  `json:"id"`
	MemberNumber string  `json:"memberNumber"`
	FirstName    string  `json:"firstName"`
	MiddleName   *string `json:"middleName,omitempty"`
	LastName     string  `json:"lastName"`
	PhoneNumber  string  `json:"phoneNumber"`
	Status       string  `json:"status"`
	JoinedAt     string  `json:"joinedAt"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}
