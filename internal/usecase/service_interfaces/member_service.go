package service_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/commons"
)

type MemberService interface {
	CreateMember(ctx context.Context, req models.CreateMemberRequest) (commons.Response[models.CreateMemberResponse], error)
	GetMember(ctx context.Context, id string) (commons.Response[models.GetMemberResponse], error)
}
