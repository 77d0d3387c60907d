package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/coop-banking-core/internal/commons"
	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/shopspring/decimal"
)

// ShareService maintains the member share registry. Positions are always
// the signed sum of the transaction ledger, so the registry total only
// changes through allocations and redemptions, never through transfers.
type ShareService struct {
	shareRepo  repo_interfaces.ShareRepository
	memberRepo repo_interfaces.MemberRepository
}

func NewShareService(shareRepo repo_interfaces.ShareRepository, memberRepo repo_interfaces.MemberRepository) *ShareService {
	return &ShareService{shareRepo: shareRepo, memberRepo: memberRepo}
}

func (s *ShareService) AllocateShares(ctx context.Context, req models.AllocateSharesRequest) (commons.Response[models.ShareHoldingResponse], error) {
	logger.Info("share service allocate request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("share service allocate validation failed", err, nil)
		return commons.ErrorResponse[models.ShareHoldingResponse]("validation failed", err.Error()), err
	}

	memberID := strings.TrimSpace(req.MemberID)
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.ShareHoldingResponse]("Member not found"), err
		}
		return commons.ErrorResponse[models.ShareHoldingResponse]("failed to allocate shares", "Unable to allocate shares right now"), err
	}
	if member.Status != domain.MemberStatusActive {
		err := fmt.Errorf("member %s is %s: %w", memberID, member.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.ShareHoldingResponse]("member is not active", err.Error()), err
	}

	shareValue := parseOrZero(req.ShareValue)
	total := shareValue.Mul(decimal.NewFromInt(req.NumberOfShares))
	now := time.Now().UTC()

	holding := domain.ShareHolding{
		MemberID:       memberID,
		ShareType:      strings.ToUpper(strings.TrimSpace(req.ShareType)),
		NumberOfShares: req.NumberOfShares,
		ShareValue:     shareValue,
		TotalAmount:    total,
		Status:         domain.ShareHoldingStatusActive,
	}
	txn := domain.ShareTransaction{
		MemberID:        memberID,
		TransactionType: domain.ShareTransactionPurchase,
		NumberOfShares:  req.NumberOfShares,
		Amount:          total,
		TransactionDate: now,
	}

	created, err := s.shareRepo.Allocate(ctx, holding, txn)
	if err != nil {
		logger.Error("share service allocate repository failed", err, logger.Fields{
			"memberId": memberID,
		})
		return commons.ErrorResponse[models.ShareHoldingResponse]("failed to allocate shares", "Unable to allocate shares right now"), err
	}

	logger.Info("share service allocate success", logger.Fields{
		"holdingId": created.ID,
		"memberId":  created.MemberID,
		"shares":    created.NumberOfShares,
	})

	return commons.SuccessResponse("shares allocated successfully", mapHoldingToResponse(created)), nil
}

// TransferShares moves shares between members as a debit/credit pair. The
// source position is rechecked inside the repository transaction, so a
// transfer can never push a member's position negative.
func (s *ShareService) TransferShares(ctx context.Context, req models.TransferSharesRequest) (commons.Response[models.TransferSharesResponse], error) {
	logger.Info("share service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("share service transfer validation failed", err, nil)
		return commons.ErrorResponse[models.TransferSharesResponse]("validation failed", err.Error()), err
	}

	fromID := strings.TrimSpace(req.FromMemberID)
	toID := strings.TrimSpace(req.ToMemberID)
	price := parseOrZero(req.Price)
	amount := price.Mul(decimal.NewFromInt(req.NumberOfShares))
	now := time.Now().UTC()

	debit := domain.ShareTransaction{
		MemberID:        fromID,
		TransactionType: domain.ShareTransactionTransfer,
		NumberOfShares:  -req.NumberOfShares,
		Amount:          amount.Neg(),
		TransactionDate: now,
	}
	credit := domain.ShareTransaction{
		MemberID:        toID,
		TransactionType: domain.ShareTransactionTransfer,
		NumberOfShares:  req.NumberOfShares,
		Amount:          amount,
		TransactionDate: now,
	}

	if err := s.shareRepo.Transfer(ctx, debit, credit); err != nil {
		return commons.ErrorResponse[models.TransferSharesResponse](shareTransferFailureMessage(err), err.Error()), err
	}

	fromBalance, err := s.shareRepo.BalanceForMember(ctx, fromID)
	if err != nil {
		logger.Error("share service transfer balance lookup failed", err, logger.Fields{
			"memberId": fromID,
		})
		return commons.ErrorResponse[models.TransferSharesResponse]("failed to transfer shares", "Unable to fetch updated balances"), err
	}
	toBalance, err := s.shareRepo.BalanceForMember(ctx, toID)
	if err != nil {
		logger.Error("share service transfer balance lookup failed", err, logger.Fields{
			"memberId": toID,
		})
		return commons.ErrorResponse[models.TransferSharesResponse]("failed to transfer shares", "Unable to fetch updated balances"), err
	}

	response := models.TransferSharesResponse{
		FromMemberID:   fromID,
		ToMemberID:     toID,
		NumberOfShares: req.NumberOfShares,
		Price:          price.StringFixed(2),
		FromBalance:    fromBalance,
		ToBalance:      toBalance,
	}

	logger.Info("share service transfer success", logger.Fields{
		"fromMemberId": fromID,
		"toMemberId":   toID,
		"shares":       req.NumberOfShares,
	})

	return commons.SuccessResponse("shares transferred successfully", response), nil
}

func (s *ShareService) GetPosition(ctx context.Context, memberID string) (commons.Response[models.SharePositionResponse], error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return commons.ErrorResponse[models.SharePositionResponse]("validation failed", "memberId is required"), fmt.Errorf("memberId is required")
	}

	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.SharePositionResponse]("Member not found"), err
		}
		return commons.ErrorResponse[models.SharePositionResponse]("failed to get position", "Unable to fetch position right now"), err
	}

	shares, err := s.shareRepo.BalanceForMember(ctx, memberID)
	if err != nil {
		logger.Error("share service position lookup failed", err, logger.Fields{
			"memberId": memberID,
		})
		return commons.ErrorResponse[models.SharePositionResponse]("failed to get position", "Unable to fetch position right now"), err
	}

	response := models.SharePositionResponse{MemberID: memberID, Shares: shares}
	return commons.SuccessResponse("position fetched successfully", response), nil
}

func shareTransferFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Member not found"
	case errors.Is(err, domain.ErrInvalidState):
		return "member is not active"
	case errors.Is(err, domain.ErrInsufficientResource):
		return "insufficient shares to transfer"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "transfer conflicted with a concurrent operation, retry"
	default:
		return "failed to transfer shares"
	}
}

func mapHoldingToResponse(holding domain.ShareHolding) models.ShareHoldingResponse {
	return models.ShareHoldingResponse{
		ID:             holding.ID,
		MemberID:       holding.MemberID,
		ShareType:      holding.ShareType,
		NumberOfShares: holding.NumberOfShares,
		ShareValue:     holding.ShareValue.StringFixed(2),
		TotalAmount:    holding.TotalAmount.StringFixed(2),
		Status:         string(holding.Status),
		CreatedAt:      holding.CreatedAt.Format(time.RFC3339),
	}
}
