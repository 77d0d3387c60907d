package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/coop-banking-core/internal/domain"
)

type MemberRepository struct {
	store *Store
}

func NewMemberRepository(store *Store) *MemberRepository {
	return &MemberRepository{store: store}
}

func (r *MemberRepository) Create(_ context.Context, member domain.Member) (domain.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.members {
		if existing.MemberNumber == member.MemberNumber {
			return domain.Member{}, fmt.Errorf("member number %s: %w", member.MemberNumber, domain.ErrDuplicateResource)
		}
	}

	member.ID = newID()
	member.CreatedAt = now()
	member.UpdatedAt = member.CreatedAt
	r.store.members[member.ID] = member
	return member, nil
}

func (r *MemberRepository) GetByID(_ context.Context, id string) (domain.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	member, ok := r.store.members[id]
	if !ok {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
	}
	return member, nil
}
