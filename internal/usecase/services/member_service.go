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
	"golang.org/x/crypto/bcrypt"
)

type MemberService struct {
	memberRepo repo_interfaces.MemberRepository
}

func NewMemberService(memberRepo repo_interfaces.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

func (s *MemberService) CreateMember(ctx context.Context, req models.CreateMemberRequest) (commons.Response[models.CreateMemberResponse], error) {
	logger.Info("member service create member request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("member service create member validation failed", err, nil)
		return commons.ErrorResponse[models.CreateMemberResponse]("validation failed", err.Error()), err
	}

	hashedPin, err := hashTransactionPin(strings.TrimSpace(req.TransactionPin))
	if err != nil {
		logger.Error("member service create member hash pin failed", err, nil)
		return commons.ErrorResponse[models.CreateMemberResponse]("failed to create member", "failed to hash transaction pin"), err
	}

	var middleName *string
	if trimmed := strings.TrimSpace(req.MiddleName); trimmed != "" {
		middleName = &trimmed
	}

	member := domain.Member{
		MemberNumber:       generateMemberNumber(),
		FirstName:          strings.TrimSpace(req.FirstName),
		MiddleName:         middleName,
		LastName:           strings.TrimSpace(req.LastName),
		PhoneNumber:        strings.TrimSpace(req.PhoneNumber),
		Status:             domain.MemberStatusActive,
		TransactionPinHash: hashedPin,
		JoinedAt:           time.Now().UTC(),
	}

	created, err := s.memberRepo.Create(ctx, member)
	if err != nil {
		logger.Error("member service create member repository failed", err, logger.Fields{
			"memberNumber": member.MemberNumber,
		})
		if errors.Is(err, domain.ErrDuplicateResource) {
			return commons.ErrorResponse[models.CreateMemberResponse]("member number already in use", err.Error()), err
		}
		return commons.ErrorResponse[models.CreateMemberResponse]("failed to create member", "Unable to create member right now"), err
	}

	response := models.CreateMemberResponse{
		ID:           created.ID,
		MemberNumber: created.MemberNumber,
		FirstName:    created.FirstName,
		LastName:     created.LastName,
		Status:       string(created.Status),
		CreatedAt:    created.CreatedAt.Format(time.RFC3339),
	}

	logger.Info("member service create member success", logger.Fields{
		"memberId":     response.ID,
		"memberNumber": response.MemberNumber,
	})

	return commons.SuccessResponse("member created successfully", response), nil
}

func (s *MemberService) GetMember(ctx context.Context, id string) (commons.Response[models.GetMemberResponse], error) {
	if strings.TrimSpace(id) == "" {
		return commons.ErrorResponse[models.GetMemberResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.GetMemberResponse]("Member not found"), err
		}
		logger.Error("member service get member failed", err, logger.Fields{
			"memberId": id,
		})
		return commons.ErrorResponse[models.GetMemberResponse]("failed to get member", "Unable to fetch member right now"), err
	}

	response := models.GetMemberResponse{
		ID:           member.ID,
		MemberNumber: member.MemberNumber,
		FirstName:    member.FirstName,
		MiddleName:   member.MiddleName,
		LastName:     member.LastName,
		PhoneNumber:  member.PhoneNumber,
		Status:       string(member.Status),
		JoinedAt:     member.JoinedAt.Format("2006-01-02"),
		CreatedAt:    member.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    member.UpdatedAt.Format(time.RFC3339),
	}

	return commons.SuccessResponse("member fetched successfully", response), nil
}

func generateMemberNumber() string {
	id := uuid.New()
	return fmt.Sprintf("%010d", binary.BigEndian.Uint64(id[:8])%10_000_000_000)
}

func hashTransactionPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash transaction pin: %w", err)
	}
	return string(hashed), nil
}
