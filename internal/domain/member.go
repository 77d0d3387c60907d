package domain

import "time"

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusInactive  MemberStatus = "INACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
)

type Member struct {
	ID                 string
	MemberNumber       string
	FirstName          string
	MiddleName         *string
	LastName           string
	PhoneNumber        string
	Status             MemberStatus
	TransactionPinHash string
	JoinedAt           time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
