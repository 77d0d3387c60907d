package repo_interfaces

import (
	"context"

	"github.com/api-sage/coop-banking-core/internal/domain"
)

type MemberRepository interface {
	Create(ctx context.Context, member domain.Member) (domain.Member, error)
	GetByID(ctx context.Context, id string) (domain.Member, error)
}
