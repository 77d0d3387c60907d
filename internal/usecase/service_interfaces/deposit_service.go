package service_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/commons"
)

type DepositService interface {
	BookDeposit(ctx context.Context, req models.BookDepositRequest) (commons.Response[models.DepositResponse], error)
	GetDeposit(ctx context.Context, id string) (commons.Response[models.DepositResponse], error)
	Mature(ctx context.Context, id string) (commons.Response[models.DepositResponse], error)
	ClosePrematurely(ctx context.Context, id string, req models.CloseDepositRequest) (commons.Response[models.DepositResponse], error)
	RecordInstallment(ctx context.Context, id string) (commons.Response[models.DepositResponse], error)
	MissedInstallmentPenalty(ctx context.Context, id string) (commons.Response[models.DepositPenaltyResponse], error)
	MatureDueDeposits(ctx context.Context) (commons.Response[models.MaturitySweepResponse], error)
}
