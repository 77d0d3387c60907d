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

// LoanService enforces the one-open-loan rule at issue time and delegates
// repayment accounting to the loan repository's atomic apply.
type LoanService struct {
	loanRepo   repo_interfaces.LoanRepository
	memberRepo repo_interfaces.MemberRepository
}

func NewLoanService(loanRepo repo_interfaces.LoanRepository, memberRepo repo_interfaces.MemberRepository) *LoanService {
	return &LoanService{loanRepo: loanRepo, memberRepo: memberRepo}
}

func (s *LoanService) IssueLoan(ctx context.Context, req models.IssueLoanRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service issue loan request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("loan service issue loan validation failed", err, nil)
		return commons.ErrorResponse[models.LoanResponse]("validation failed", err.Error()), err
	}

	borrowerID := strings.TrimSpace(req.BorrowerID)
	borrower, err := s.memberRepo.GetByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.LoanResponse]("Borrower not found"), err
		}
		return commons.ErrorResponse[models.LoanResponse]("failed to issue loan", "Unable to issue loan right now"), err
	}
	if borrower.Status != domain.MemberStatusActive {
		err := fmt.Errorf("member %s is %s: %w", borrowerID, borrower.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.LoanResponse]("borrower is not an active member", err.Error()), err
	}

	hasOpen, err := s.loanRepo.HasOpenLoanForBorrower(ctx, borrowerID)
	if err != nil {
		logger.Error("loan service open loan lookup failed", err, logger.Fields{
			"borrowerId": borrowerID,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to issue loan", "Unable to issue loan right now"), err
	}
	if hasOpen {
		err := fmt.Errorf("borrower %s already holds an open loan: %w", borrowerID, domain.ErrInvalidState)
		return commons.ErrorResponse[models.LoanResponse]("borrower already has an open loan", err.Error()), err
	}

	principal := parseOrZero(req.Principal)
	loan := domain.Loan{
		BorrowerID:        borrowerID,
		PrincipalAmount:   principal,
		InterestRate:      parseOrZero(req.RatePercent),
		TenureMonths:      req.TenureMonths,
		OutstandingAmount: principal,
		Status:            domain.LoanStatusActive,
	}

	created, err := s.loanRepo.Create(ctx, loan)
	if err != nil {
		logger.Error("loan service issue loan repository failed", err, logger.Fields{
			"borrowerId": borrowerID,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to issue loan", "Unable to issue loan right now"), err
	}

	logger.Info("loan service issue loan success", logger.Fields{
		"loanId":     created.ID,
		"borrowerId": created.BorrowerID,
		"principal":  created.PrincipalAmount.StringFixed(2),
	})

	return commons.SuccessResponse("loan issued successfully", mapLoanToResponse(created)), nil
}

func (s *LoanService) GetLoan(ctx context.Context, id string) (commons.Response[models.LoanResponse], error) {
	if strings.TrimSpace(id) == "" {
		return commons.ErrorResponse[models.LoanResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.LoanResponse]("Loan not found"), err
		}
		return commons.ErrorResponse[models.LoanResponse]("failed to get loan", "Unable to fetch loan right now"), err
	}

	return commons.SuccessResponse("loan fetched successfully", mapLoanToResponse(loan)), nil
}

// ApplyRepayment reduces the outstanding amount. A repayment that exceeds
// the outstanding is rejected whole; one that zeroes it closes the loan.
func (s *LoanService) ApplyRepayment(ctx context.Context, loanID string, req models.ApplyRepaymentRequest) (commons.Response[models.ApplyRepaymentResponse], error) {
	logger.Info("loan service apply repayment request", logger.Fields{
		"loanId":  loanID,
		"payload": logger.SanitizePayload(req),
	})

	if strings.TrimSpace(loanID) == "" {
		return commons.ErrorResponse[models.ApplyRepaymentResponse]("validation failed", "loanId is required"), fmt.Errorf("loanId is required")
	}
	if err := req.Validate(); err != nil {
		logger.Error("loan service apply repayment validation failed", err, nil)
		return commons.ErrorResponse[models.ApplyRepaymentResponse]("validation failed", err.Error()), err
	}

	amount, _ := decimal.NewFromString(strings.TrimSpace(req.Amount))
	paymentDate := time.Now().UTC()
	if raw := strings.TrimSpace(req.PaymentDate); raw != "" {
		paymentDate, _ = time.Parse("2006-01-02", raw)
	}

	loan, repayment, err := s.loanRepo.ApplyRepayment(ctx, strings.TrimSpace(loanID), amount, paymentDate)
	if err != nil {
		return commons.ErrorResponse[models.ApplyRepaymentResponse](repaymentFailureMessage(err), err.Error()), err
	}

	response := models.ApplyRepaymentResponse{
		RepaymentID:       repayment.ID,
		LoanID:            loan.ID,
		Amount:            repayment.Amount.StringFixed(2),
		PaymentDate:       repayment.PaymentDate.Format("2006-01-02"),
		OutstandingAmount: loan.OutstandingAmount.StringFixed(2),
		Status:            string(loan.Status),
	}

	logger.Info("loan service apply repayment success", logger.Fields{
		"loanId":      loan.ID,
		"repaymentId": repayment.ID,
		"outstanding": response.OutstandingAmount,
		"status":      response.Status,
	})

	return commons.SuccessResponse("repayment applied successfully", response), nil
}

func (s *LoanService) ListRepayments(ctx context.Context, loanID string) (commons.Response[[]models.ApplyRepaymentResponse], error) {
	loanID = strings.TrimSpace(loanID)
	if loanID == "" {
		return commons.ErrorResponse[[]models.ApplyRepaymentResponse]("validation failed", "loanId is required"), fmt.Errorf("loanId is required")
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[[]models.ApplyRepaymentResponse]("Loan not found"), err
		}
		return commons.ErrorResponse[[]models.ApplyRepaymentResponse]("failed to list repayments", "Unable to fetch repayments right now"), err
	}

	repayments, err := s.loanRepo.ListRepayments(ctx, loanID)
	if err != nil {
		logger.Error("loan service list repayments failed", err, logger.Fields{
			"loanId": loanID,
		})
		return commons.ErrorResponse[[]models.ApplyRepaymentResponse]("failed to list repayments", "Unable to fetch repayments right now"), err
	}

	response := make([]models.ApplyRepaymentResponse, 0, len(repayments))
	for _, repayment := range repayments {
		response = append(response, models.ApplyRepaymentResponse{
			RepaymentID: repayment.ID,
			LoanID:      repayment.LoanID,
			Amount:      repayment.Amount.StringFixed(2),
			PaymentDate: repayment.PaymentDate.Format("2006-01-02"),
			Status:      string(loan.Status),
		})
	}

	return commons.SuccessResponse("repayments fetched successfully", response), nil
}

func repaymentFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Loan not found"
	case errors.Is(err, domain.ErrInvalidState):
		return "loan is not accepting repayments"
	case errors.Is(err, domain.ErrInsufficientResource):
		return "repayment exceeds outstanding amount"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "repayment conflicted with a concurrent operation, retry"
	default:
		return "failed to apply repayment"
	}
}

func mapLoanToResponse(loan domain.Loan) models.LoanResponse {
	return models.LoanResponse{
		ID:                loan.ID,
		BorrowerID:        loan.BorrowerID,
		PrincipalAmount:   loan.PrincipalAmount.StringFixed(2),
		InterestRate:      loan.InterestRate.StringFixed(2),
		TenureMonths:      loan.TenureMonths,
		OutstandingAmount: loan.OutstandingAmount.StringFixed(2),
		Status:            string(loan.Status),
		CreatedAt:         loan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         loan.UpdatedAt.Format(time.RFC3339),
	}
}
