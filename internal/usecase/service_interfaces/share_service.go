package service_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/commons"
)

type ShareService interface {
	AllocateShares(ctx context.Context, req models.AllocateSharesRequest) (commons.Response[models.ShareHoldingResponse], error)
	TransferShares(ctx context.Context, req models.TransferSharesRequest) (commons.Response[models.TransferSharesResponse], error)
	GetPosition(ctx context.Context, memberID string) (commons.Response[models.SharePositionResponse], error)
}
