package service_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/commons"
)

type LedgerService interface {
	OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error)
	ApplyTransaction(ctx context.Context, req models.ApplyTransactionRequest) (commons.Response[models.ApplyTransactionResponse], error)
	Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
	GetHistory(ctx context.Context, accountID string) (commons.Response[models.AccountHistoryResponse], error)
}
