package service_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/commons"
)

type LoanService interface {
	IssueLoan(ctx context.Context, req models.IssueLoanRequest) (commons.Response[models.LoanResponse], error)
	GetLoan(ctx context.Context, id string) (commons.Response[models.LoanResponse], error)
	ApplyRepayment(ctx context.Context, loanID string, req models.ApplyRepaymentRequest) (commons.Response[models.ApplyRepaymentResponse], error)
	ListRepayments(ctx context.Context, loanID string) (commons.Response[[]models.ApplyRepaymentResponse], error)
}
