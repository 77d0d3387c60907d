package service_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/commons"
)

type DividendService interface {
	DeclareDividend(ctx context.Context, req models.DeclareDividendRequest) (commons.Response[models.DividendResponse], error)
	GetDividend(ctx context.Context, id string) (commons.Response[models.DividendResponse], error)
	ApproveDividend(ctx context.Context, id string) (commons.Response[models.DividendResponse], error)
	CancelDividend(ctx context.Context, id string, req models.CancelDividendRequest) (commons.Response[models.DividendResponse], error)
	DistributeDividend(ctx context.Context, id string) (commons.Response[models.DistributeDividendResponse], error)
	ListDistributions(ctx context.Context, dividendID string) (commons.Response[[]models.DistributionResponse], error)
}
