package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
)

type ShareRepository struct {
	store *Store
}

func NewShareRepository(store *Store) *ShareRepository {
	return &ShareRepository{store: store}
}

func (r *ShareRepository) Allocate(_ context.Context, holding domain.ShareHolding, txn domain.ShareTransaction) (domain.ShareHolding, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	holding.ID = newID()
	holding.CreatedAt = now()
	holding.UpdatedAt = holding.CreatedAt
	r.store.holdings[holding.MemberID] = append(r.store.holdings[holding.MemberID], holding)

	txn.ID = newID()
	txn.CreatedAt = holding.CreatedAt
	r.store.shareTxns[txn.MemberID] = append(r.store.shareTxns[txn.MemberID], txn)

	return holding, nil
}

func (r *ShareRepository) Transfer(_ context.Context, debit domain.ShareTransaction, credit domain.ShareTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, memberID := range []string{debit.MemberID, credit.MemberID} {
		member, ok := r.store.members[memberID]
		if !ok {
			return fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
		}
		if member.Status != domain.MemberStatusActive {
			return fmt.Errorf("member %s is %s: %w", memberID, member.Status, domain.ErrInvalidState)
		}
	}

	available := r.balanceLocked(debit.MemberID)
	if available < -debit.NumberOfShares {
		return fmt.Errorf("member %s holds %d shares, cannot transfer %d: %w",
			debit.MemberID, available, -debit.NumberOfShares, domain.ErrInsufficientResource)
	}

	created := now()
	debit.ID = newID()
	debit.CreatedAt = created
	credit.ID = newID()
	credit.CreatedAt = created
	r.store.shareTxns[debit.MemberID] = append(r.store.shareTxns[debit.MemberID], debit)
	r.store.shareTxns[credit.MemberID] = append(r.store.shareTxns[credit.MemberID], credit)

	return nil
}

func (r *ShareRepository) BalanceForMember(_ context.Context, memberID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.balanceLocked(memberID), nil
}

func (r *ShareRepository) ListTransactions(_ context.Context, memberID string) ([]domain.ShareTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	txns := r.store.shareTxns[memberID]
	out := make([]domain.ShareTransaction, len(txns))
	copy(out, txns)
	return out, nil
}

func (r *ShareRepository) PositionsAsOf(_ context.Context, recordDate time.Time) ([]domain.ShareholderPosition, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var positions []domain.ShareholderPosition
	for memberID, txns := range r.store.shareTxns {
		member, ok := r.store.members[memberID]
		if !ok || member.Status != domain.MemberStatusActive {
			continue
		}

		var shares int64
		for _, txn := range txns {
			if txn.TransactionDate.After(recordDate) {
				continue
			}
			shares += txn.NumberOfShares
		}
		if shares <= 0 {
			continue
		}

		holdings := r.store.holdings[memberID]
		if len(holdings) == 0 {
			continue
		}
		positions = append(positions, domain.ShareholderPosition{
			MemberID:   memberID,
			Shares:     shares,
			ShareValue: holdings[len(holdings)-1].ShareValue,
		})
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].MemberID < positions[j].MemberID })
	return positions, nil
}

func (r *ShareRepository) balanceLocked(memberID string) int64 {
	var balance int64
	for _, txn := range r.store.shareTxns[memberID] {
		balance += txn.NumberOfShares
	}
	return balance
}
