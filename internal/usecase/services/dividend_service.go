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

// DividendService walks dividends through DECLARED -> APPROVED -> PAID.
// Payouts are computed from the share registry positions as of the record
// date; the distribution batch is written exactly once per dividend.
type DividendService struct {
	dividendRepo repo_interfaces.DividendRepository
	shareRepo    repo_interfaces.ShareRepository
}

func NewDividendService(dividendRepo repo_interfaces.DividendRepository, shareRepo repo_interfaces.ShareRepository) *DividendService {
	return &DividendService{dividendRepo: dividendRepo, shareRepo: shareRepo}
}

func (s *DividendService) DeclareDividend(ctx context.Context, req models.DeclareDividendRequest) (commons.Response[models.DividendResponse], error) {
	logger.Info("dividend service declare request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("dividend service declare validation failed", err, nil)
		return commons.ErrorResponse[models.DividendResponse]("validation failed", err.Error()), err
	}

	recordDate, _ := time.Parse("2006-01-02", strings.TrimSpace(req.RecordDate))
	paymentDate, _ := time.Parse("2006-01-02", strings.TrimSpace(req.PaymentDate))

	dividend := domain.Dividend{
		Year:         req.Year,
		DividendType: domain.DividendType(strings.ToUpper(strings.TrimSpace(req.Type))),
		RatePercent:  parseOrZero(req.RatePercent),
		RecordDate:   recordDate,
		PaymentDate:  paymentDate,
		Status:       domain.DividendStatusDeclared,
		TotalAmount:  decimal.Zero,
	}

	created, err := s.dividendRepo.Create(ctx, dividend)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateResource) {
			return commons.ErrorResponse[models.DividendResponse]("dividend already declared for this year and type", err.Error()), err
		}
		logger.Error("dividend service declare repository failed", err, logger.Fields{
			"year": req.Year,
			"type": req.Type,
		})
		return commons.ErrorResponse[models.DividendResponse]("failed to declare dividend", "Unable to declare dividend right now"), err
	}

	logger.Info("dividend service declare success", logger.Fields{
		"dividendId": created.ID,
		"year":       created.Year,
		"type":       created.DividendType,
	})

	return commons.SuccessResponse("dividend declared successfully", mapDividendToResponse(created)), nil
}

func (s *DividendService) GetDividend(ctx context.Context, id string) (commons.Response[models.DividendResponse], error) {
	if strings.TrimSpace(id) == "" {
		return commons.ErrorResponse[models.DividendResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	dividend, err := s.dividendRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DividendResponse]("Dividend not found"), err
		}
		return commons.ErrorResponse[models.DividendResponse]("failed to get dividend", "Unable to fetch dividend right now"), err
	}

	return commons.SuccessResponse("dividend fetched successfully", mapDividendToResponse(dividend)), nil
}

func (s *DividendService) ApproveDividend(ctx context.Context, id string) (commons.Response[models.DividendResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return commons.ErrorResponse[models.DividendResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	approved, err := s.dividendRepo.Approve(ctx, id)
	if err != nil {
		return commons.ErrorResponse[models.DividendResponse](dividendTransitionFailureMessage(err, "only declared dividends can be approved"), err.Error()), err
	}

	logger.Info("dividend service approve success", logger.Fields{
		"dividendId": approved.ID,
	})

	return commons.SuccessResponse("dividend approved successfully", mapDividendToResponse(approved)), nil
}

func (s *DividendService) CancelDividend(ctx context.Context, id string, req models.CancelDividendRequest) (commons.Response[models.DividendResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return commons.ErrorResponse[models.DividendResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}
	if err := req.Validate(); err != nil {
		logger.Error("dividend service cancel validation failed", err, nil)
		return commons.ErrorResponse[models.DividendResponse]("validation failed", err.Error()), err
	}

	cancelled, err := s.dividendRepo.Cancel(ctx, id, strings.TrimSpace(req.Reason))
	if err != nil {
		return commons.ErrorResponse[models.DividendResponse](dividendTransitionFailureMessage(err, "paid dividends cannot be cancelled"), err.Error()), err
	}

	logger.Info("dividend service cancel success", logger.Fields{
		"dividendId": cancelled.ID,
	})

	return commons.SuccessResponse("dividend cancelled successfully", mapDividendToResponse(cancelled)), nil
}

// DistributeDividend computes a payout of shares * par value * rate/100 for
// every shareholder with a positive position as of the record date, then
// hands the batch to the repository, which writes it under the
// APPROVED -> PAID transition. Repeating the call cannot produce a second
// batch.
func (s *DividendService) DistributeDividend(ctx context.Context, id string) (commons.Response[models.DistributeDividendResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return commons.ErrorResponse[models.DistributeDividendResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	dividend, err := s.dividendRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DistributeDividendResponse]("Dividend not found"), err
		}
		return commons.ErrorResponse[models.DistributeDividendResponse]("failed to distribute dividend", "Unable to distribute dividend right now"), err
	}
	if dividend.Status != domain.DividendStatusApproved {
		err := fmt.Errorf("dividend %s is %s: %w", id, dividend.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.DistributeDividendResponse]("only approved dividends can be distributed", err.Error()), err
	}

	positions, err := s.shareRepo.PositionsAsOf(ctx, dividend.RecordDate)
	if err != nil {
		logger.Error("dividend service positions lookup failed", err, logger.Fields{
			"dividendId": id,
		})
		return commons.ErrorResponse[models.DistributeDividendResponse]("failed to distribute dividend", "Unable to read shareholder positions"), err
	}

	rows := make([]domain.DividendDistribution, 0, len(positions))
	total := decimal.Zero
	for _, position := range positions {
		payout := position.ShareValue.
			Mul(decimal.NewFromInt(position.Shares)).
			Mul(dividend.RatePercent).
			Div(decimal.NewFromInt(100)).
			Round(2)
		rows = append(rows, domain.DividendDistribution{
			DividendID:     id,
			MemberID:       position.MemberID,
			NumberOfShares: position.Shares,
			PayoutAmount:   payout,
			PaymentStatus:  domain.DistributionPaymentPaid,
		})
		total = total.Add(payout)
	}

	paid, err := s.dividendRepo.Distribute(ctx, id, rows, total)
	if err != nil {
		return commons.ErrorResponse[models.DistributeDividendResponse](dividendTransitionFailureMessage(err, "only approved dividends can be distributed"), err.Error()), err
	}

	response := models.DistributeDividendResponse{
		DividendID:  paid.ID,
		Status:      string(paid.Status),
		Recipients:  len(rows),
		TotalAmount: paid.TotalAmount.StringFixed(2),
		Payouts:     make([]models.DistributionResponse, 0, len(rows)),
	}
	for _, row := range rows {
		response.Payouts = append(response.Payouts, models.DistributionResponse{
			MemberID:       row.MemberID,
			NumberOfShares: row.NumberOfShares,
			PayoutAmount:   row.PayoutAmount.StringFixed(2),
			PaymentStatus:  string(domain.DistributionPaymentPaid),
		})
	}

	logger.Info("dividend service distribute success", logger.Fields{
		"dividendId":  paid.ID,
		"recipients":  response.Recipients,
		"totalAmount": response.TotalAmount,
	})

	return commons.SuccessResponse("dividend distributed successfully", response), nil
}

func (s *DividendService) ListDistributions(ctx context.Context, dividendID string) (commons.Response[[]models.DistributionResponse], error) {
	dividendID = strings.TrimSpace(dividendID)
	if dividendID == "" {
		return commons.ErrorResponse[[]models.DistributionResponse]("validation failed", "dividendId is required"), fmt.Errorf("dividendId is required")
	}

	if _, err := s.dividendRepo.GetByID(ctx, dividendID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[[]models.DistributionResponse]("Dividend not found"), err
		}
		return commons.ErrorResponse[[]models.DistributionResponse]("failed to list distributions", "Unable to fetch distributions right now"), err
	}

	distributions, err := s.dividendRepo.ListDistributions(ctx, dividendID)
	if err != nil {
		logger.Error("dividend service list distributions failed", err, logger.Fields{
			"dividendId": dividendID,
		})
		return commons.ErrorResponse[[]models.DistributionResponse]("failed to list distributions", "Unable to fetch distributions right now"), err
	}

	response := make([]models.DistributionResponse, 0, len(distributions))
	for _, row := range distributions {
		response = append(response, models.DistributionResponse{
			MemberID:       row.MemberID,
			NumberOfShares: row.NumberOfShares,
			PayoutAmount:   row.PayoutAmount.StringFixed(2),
			PaymentStatus:  string(row.PaymentStatus),
		})
	}

	return commons.SuccessResponse("distributions fetched successfully", response), nil
}

func dividendTransitionFailureMessage(err error, invalidStateMessage string) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Dividend not found"
	case errors.Is(err, domain.ErrInvalidState):
		return invalidStateMessage
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "dividend update conflicted with a concurrent operation, retry"
	default:
		return "failed to update dividend"
	}
}

func mapDividendToResponse(dividend domain.Dividend) models.DividendResponse {
	response := models.DividendResponse{
		ID:          dividend.ID,
		Year:        dividend.Year,
		Type:        string(dividend.DividendType),
		RatePercent: dividend.RatePercent.StringFixed(2),
		RecordDate:  dividend.RecordDate.Format("2006-01-02"),
		PaymentDate: dividend.PaymentDate.Format("2006-01-02"),
		Status:      string(dividend.Status),
		TotalAmount: dividend.TotalAmount.StringFixed(2),
	}
	if dividend.CancelReason != nil {
		response.CancelReason = *dividend.CancelReason
	}
	return response
}
