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
	"github.com/api-sage/coop-banking-core/internal/fincalc"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/shopspring/decimal"
)

// DepositService books fixed and recurring term deposits and drives their
// lifecycle. Maturity amounts are locked in at booking time; premature
// closures recompute the payout with the product's own penalty model.
type DepositService struct {
	depositRepo              repo_interfaces.DepositRepository
	memberRepo               repo_interfaces.MemberRepository
	recurringClosurePercent  decimal.Decimal
	missedInstallmentPercent decimal.Decimal
}

func NewDepositService(
	depositRepo repo_interfaces.DepositRepository,
	memberRepo repo_interfaces.MemberRepository,
	recurringClosurePercent decimal.Decimal,
	missedInstallmentPercent decimal.Decimal,
) *DepositService {
	return &DepositService{
		depositRepo:              depositRepo,
		memberRepo:               memberRepo,
		recurringClosurePercent:  recurringClosurePercent,
		missedInstallmentPercent: missedInstallmentPercent,
	}
}

func (s *DepositService) BookDeposit(ctx context.Context, req models.BookDepositRequest) (commons.Response[models.DepositResponse], error) {
	logger.Info("deposit service book deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("deposit service book deposit validation failed", err, nil)
		return commons.ErrorResponse[models.DepositResponse]("validation failed", err.Error()), err
	}

	holderID := strings.TrimSpace(req.HolderID)
	holder, err := s.memberRepo.GetByID(ctx, holderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DepositResponse]("Holder not found"), err
		}
		return commons.ErrorResponse[models.DepositResponse]("failed to book deposit", "Unable to book deposit right now"), err
	}
	if holder.Status != domain.MemberStatusActive {
		err := fmt.Errorf("member %s is %s: %w", holderID, holder.Status, domain.ErrInvalidState)
		return commons.ErrorResponse[models.DepositResponse]("holder is not an active member", err.Error()), err
	}

	product := domain.DepositProduct(strings.ToUpper(strings.TrimSpace(req.Product)))
	amount := parseOrZero(req.Amount)
	rate := parseOrZero(req.RatePercent)
	startDate, _ := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))

	var maturityAmount decimal.Decimal
	switch product {
	case domain.DepositProductFixed:
		maturityAmount, err = fincalc.QuarterlyCompoundMaturity(amount, rate, req.TenureMonths)
	case domain.DepositProductRecurring:
		maturityAmount, err = fincalc.RecurringMaturity(amount, rate, req.TenureMonths)
	}
	if err != nil {
		logger.Error("deposit service maturity calculation failed", err, logger.Fields{
			"holderId": holderID,
			"product":  product,
		})
		return commons.ErrorResponse[models.DepositResponse]("failed to book deposit", err.Error()), err
	}

	deposit := domain.TermDeposit{
		HolderID:       holderID,
		Product:        product,
		Amount:         amount,
		InterestRate:   rate,
		TenureMonths:   req.TenureMonths,
		StartDate:      startDate,
		MaturityDate:   fincalc.AddMonths(startDate, req.TenureMonths),
		MaturityAmount: maturityAmount,
		Status:         domain.DepositStatusActive,
	}

	created, err := s.depositRepo.Create(ctx, deposit)
	if err != nil {
		logger.Error("deposit service book deposit repository failed", err, logger.Fields{
			"holderId": holderID,
		})
		return commons.ErrorResponse[models.DepositResponse]("failed to book deposit", "Unable to book deposit right now"), err
	}

	logger.Info("deposit service book deposit success", logger.Fields{
		"depositId":      created.ID,
		"holderId":       created.HolderID,
		"product":        created.Product,
		"maturityAmount": created.MaturityAmount.StringFixed(2),
	})

	return commons.SuccessResponse("deposit booked successfully", mapDepositToResponse(created)), nil
}

func (s *DepositService) GetDeposit(ctx context.Context, id string) (commons.Response[models.DepositResponse], error) {
	if strings.TrimSpace(id) == "" {
		return commons.ErrorResponse[models.DepositResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DepositResponse]("Deposit not found"), err
		}
		return commons.ErrorResponse[models.DepositResponse]("failed to get deposit", "Unable to fetch deposit right now"), err
	}

	return commons.SuccessResponse("deposit fetched successfully", mapDepositToResponse(deposit)), nil
}

// Mature moves an ACTIVE deposit whose maturity date has arrived to MATURED.
// The payout stays at the amount locked in when the deposit was booked.
func (s *DepositService) Mature(ctx context.Context, id string) (commons.Response[models.DepositResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return commons.ErrorResponse[models.DepositResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DepositResponse]("Deposit not found"), err
		}
		return commons.ErrorResponse[models.DepositResponse]("failed to mature deposit", "Unable to mature deposit right now"), err
	}
	if time.Now().UTC().Before(deposit.MaturityDate) {
		err := fmt.Errorf("deposit %s matures on %s: %w", id, deposit.MaturityDate.Format("2006-01-02"), domain.ErrInvalidState)
		return commons.ErrorResponse[models.DepositResponse]("deposit has not reached maturity", err.Error()), err
	}

	matured, err := s.depositRepo.MarkMatured(ctx, id)
	if err != nil {
		return commons.ErrorResponse[models.DepositResponse](depositTransitionFailureMessage(err), err.Error()), err
	}

	logger.Info("deposit service mature success", logger.Fields{
		"depositId":      matured.ID,
		"maturityAmount": matured.MaturityAmount.StringFixed(2),
	})

	return commons.SuccessResponse("deposit matured successfully", mapDepositToResponse(matured)), nil
}

// ClosePrematurely ends an ACTIVE deposit before its maturity date. Fixed
// deposits are recomputed at a penalised rate over the elapsed months;
// recurring deposits pay back contributions less a flat closure charge.
func (s *DepositService) ClosePrematurely(ctx context.Context, id string, req models.CloseDepositRequest) (commons.Response[models.DepositResponse], error) {
	logger.Info("deposit service premature close request", logger.Fields{
		"depositId": id,
		"payload":   logger.SanitizePayload(req),
	})

	id = strings.TrimSpace(id)
	if id == "" {
		return commons.ErrorResponse[models.DepositResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}
	if err := req.Validate(); err != nil {
		logger.Error("deposit service premature close validation failed", err, nil)
		return commons.ErrorResponse[models.DepositResponse]("validation failed", err.Error()), err
	}

	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DepositResponse]("Deposit not found"), err
		}
		return commons.ErrorResponse[models.DepositResponse]("failed to close deposit", "Unable to close deposit right now"), err
	}

	now := time.Now().UTC()
	var payout decimal.Decimal
	switch deposit.Product {
	case domain.DepositProductFixed:
		// A deposit past its maturity date that the sweep has not yet
		// transitioned still closes here; elapsed months are clamped to the
		// tenure and the payout capped at the booked maturity amount so an
		// early exit never pays more than holding to term.
		elapsed := fincalc.ElapsedWholeMonths(deposit.StartDate, now)
		if elapsed > deposit.TenureMonths {
			elapsed = deposit.TenureMonths
		}
		payout, err = fincalc.PrematureFixedPayout(deposit.Amount, deposit.InterestRate, parseOrZero(req.PenaltyRate), elapsed)
		if err != nil {
			logger.Error("deposit service premature payout calculation failed", err, logger.Fields{
				"depositId": id,
			})
			return commons.ErrorResponse[models.DepositResponse]("failed to close deposit", err.Error()), err
		}
		if payout.GreaterThan(deposit.MaturityAmount) {
			payout = deposit.MaturityAmount
		}
	case domain.DepositProductRecurring:
		contributed := deposit.Amount.Mul(decimal.NewFromInt(int64(deposit.InstallmentsPaid)))
		charge := fincalc.RecurringClosureCharge(deposit.Amount, deposit.TenureMonths, s.recurringClosurePercent)
		payout = contributed.Sub(charge)
		if payout.IsNegative() {
			payout = decimal.Zero
		}
		payout = payout.Round(2)
	}

	closed, err := s.depositRepo.ClosePrematurely(ctx, id, payout)
	if err != nil {
		return commons.ErrorResponse[models.DepositResponse](depositTransitionFailureMessage(err), err.Error()), err
	}

	logger.Info("deposit service premature close success", logger.Fields{
		"depositId": closed.ID,
		"product":   closed.Product,
		"payout":    closed.MaturityAmount.StringFixed(2),
	})

	return commons.SuccessResponse("deposit closed successfully", mapDepositToResponse(closed)), nil
}

// RecordInstallment registers one received installment on an ACTIVE
// recurring deposit.
func (s *DepositService) RecordInstallment(ctx context.Context, id string) (commons.Response[models.DepositResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return commons.ErrorResponse[models.DepositResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DepositResponse]("Deposit not found"), err
		}
		return commons.ErrorResponse[models.DepositResponse]("failed to record installment", "Unable to record installment right now"), err
	}
	if deposit.Product != domain.DepositProductRecurring {
		err := fmt.Errorf("deposit %s is a %s product: %w", id, deposit.Product, domain.ErrInvalidState)
		return commons.ErrorResponse[models.DepositResponse]("installments apply to recurring deposits only", err.Error()), err
	}
	if deposit.InstallmentsPaid >= deposit.TenureMonths {
		err := fmt.Errorf("deposit %s already has all %d installments: %w", id, deposit.TenureMonths, domain.ErrInvalidState)
		return commons.ErrorResponse[models.DepositResponse]("all installments already recorded", err.Error()), err
	}

	updated, err := s.depositRepo.RecordInstallment(ctx, id)
	if err != nil {
		return commons.ErrorResponse[models.DepositResponse](depositTransitionFailureMessage(err), err.Error()), err
	}

	logger.Info("deposit service record installment success", logger.Fields{
		"depositId":        updated.ID,
		"installmentsPaid": updated.InstallmentsPaid,
	})

	return commons.SuccessResponse("installment recorded successfully", mapDepositToResponse(updated)), nil
}

// MissedInstallmentPenalty reports the penalty accrued on a recurring
// deposit whose holder has fallen behind the monthly schedule.
func (s *DepositService) MissedInstallmentPenalty(ctx context.Context, id string) (commons.Response[models.DepositPenaltyResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return commons.ErrorResponse[models.DepositPenaltyResponse]("validation failed", "id is required"), fmt.Errorf("id is required")
	}

	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.DepositPenaltyResponse]("Deposit not found"), err
		}
		return commons.ErrorResponse[models.DepositPenaltyResponse]("failed to compute penalty", "Unable to compute penalty right now"), err
	}
	if deposit.Product != domain.DepositProductRecurring {
		err := fmt.Errorf("deposit %s is a %s product: %w", id, deposit.Product, domain.ErrInvalidState)
		return commons.ErrorResponse[models.DepositPenaltyResponse]("penalties apply to recurring deposits only", err.Error()), err
	}

	elapsed := fincalc.ElapsedWholeMonths(deposit.StartDate, time.Now().UTC())
	due := elapsed + 1
	if due > deposit.TenureMonths {
		due = deposit.TenureMonths
	}
	missed := due - deposit.InstallmentsPaid
	if missed < 0 {
		missed = 0
	}
	penalty := fincalc.MissedInstallmentPenalty(deposit.Amount, missed, s.missedInstallmentPercent)

	response := models.DepositPenaltyResponse{
		DepositID:          deposit.ID,
		MissedInstallments: missed,
		Penalty:            penalty.StringFixed(2),
	}

	return commons.SuccessResponse("penalty computed successfully", response), nil
}

// MatureDueDeposits sweeps all ACTIVE deposits whose maturity date has
// passed and marks them MATURED. Deposits that left ACTIVE between the list
// and the transition are skipped, so the sweep can run concurrently with
// manual maturing.
func (s *DepositService) MatureDueDeposits(ctx context.Context) (commons.Response[models.MaturitySweepResponse], error) {
	now := time.Now().UTC()
	due, err := s.depositRepo.ListDueActive(ctx, now)
	if err != nil {
		logger.Error("deposit service maturity sweep listing failed", err, nil)
		return commons.ErrorResponse[models.MaturitySweepResponse]("failed to run maturity sweep", "Unable to run maturity sweep right now"), err
	}

	matured := 0
	for _, deposit := range due {
		if _, err := s.depositRepo.MarkMatured(ctx, deposit.ID); err != nil {
			if errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrNotFound) {
				continue
			}
			logger.Error("deposit service maturity sweep transition failed", err, logger.Fields{
				"depositId": deposit.ID,
			})
			continue
		}
		matured++
	}

	logger.Info("deposit service maturity sweep completed", logger.Fields{
		"due":     len(due),
		"matured": matured,
	})

	return commons.SuccessResponse("maturity sweep completed", models.MaturitySweepResponse{Matured: matured}), nil
}

func depositTransitionFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Deposit not found"
	case errors.Is(err, domain.ErrInvalidState):
		return "deposit is not active"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "deposit update conflicted with a concurrent operation, retry"
	default:
		return "failed to update deposit"
	}
}

func mapDepositToResponse(deposit domain.TermDeposit) models.DepositResponse {
	return models.DepositResponse{
		ID:               deposit.ID,
		HolderID:         deposit.HolderID,
		Product:          string(deposit.Product),
		Amount:           deposit.Amount.StringFixed(2),
		InterestRate:     deposit.InterestRate.StringFixed(2),
		TenureMonths:     deposit.TenureMonths,
		StartDate:        deposit.StartDate.Format("2006-01-02"),
		MaturityDate:     deposit.MaturityDate.Format("2006-01-02"),
		MaturityAmount:   deposit.MaturityAmount.StringFixed(2),
		InstallmentsPaid: deposit.InstallmentsPaid,
		Status:           string(deposit.Status),
	}
}
