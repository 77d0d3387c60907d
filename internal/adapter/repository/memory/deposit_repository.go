package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

type DepositRepository struct {
	store *Store
}

func NewDepositRepository(store *Store) *DepositRepository {
	return &DepositRepository{store: store}
}

func (r *DepositRepository) Create(_ context.Context, deposit domain.TermDeposit) (domain.TermDeposit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deposit.ID = newID()
	deposit.CreatedAt = now()
	deposit.UpdatedAt = deposit.CreatedAt
	r.store.deposits[deposit.ID] = deposit
	return deposit, nil
}

func (r *DepositRepository) GetByID(_ context.Context, id string) (domain.TermDeposit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.getLocked(id)
}

func (r *DepositRepository) MarkMatured(_ context.Context, id string) (domain.TermDeposit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deposit, err := r.activeLocked(id)
	if err != nil {
		return domain.TermDeposit{}, err
	}

	deposit.Status = domain.DepositStatusMatured
	deposit.UpdatedAt = now()
	r.store.deposits[deposit.ID] = deposit
	return deposit, nil
}

func (r *DepositRepository) ClosePrematurely(_ context.Context, id string, payout decimal.Decimal) (domain.TermDeposit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deposit, err := r.activeLocked(id)
	if err != nil {
		return domain.TermDeposit{}, err
	}

	deposit.Status = domain.DepositStatusPrematureClosed
	deposit.MaturityAmount = payout
	deposit.UpdatedAt = now()
	r.store.deposits[deposit.ID] = deposit
	return deposit, nil
}

func (r *DepositRepository) RecordInstallment(_ context.Context, id string) (domain.TermDeposit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deposit, err := r.activeLocked(id)
	if err != nil {
		return domain.TermDeposit{}, err
	}
	if deposit.Product != domain.DepositProductRecurring {
		return domain.TermDeposit{}, fmt.Errorf("term deposit %s is not a recurring deposit: %w", id, domain.ErrInvalidState)
	}
	if deposit.InstallmentsPaid >= deposit.TenureMonths {
		return domain.TermDeposit{}, fmt.Errorf("term deposit %s already received all %d installments: %w",
			id, deposit.TenureMonths, domain.ErrInvalidState)
	}

	deposit.InstallmentsPaid++
	deposit.UpdatedAt = now()
	r.store.deposits[deposit.ID] = deposit
	return deposit, nil
}

func (r *DepositRepository) ListDueActive(_ context.Context, asOf time.Time) ([]domain.TermDeposit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var due []domain.TermDeposit
	for _, deposit := range r.store.deposits {
		if deposit.Status == domain.DepositStatusActive && !deposit.MaturityDate.After(asOf) {
			due = append(due, deposit)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].MaturityDate.Before(due[j].MaturityDate) })
	return due, nil
}

func (r *DepositRepository) getLocked(id string) (domain.TermDeposit, error) {
	deposit, ok := r.store.deposits[id]
	if !ok {
		return domain.TermDeposit{}, fmt.Errorf("term deposit %s: %w", id, domain.ErrNotFound)
	}
	return deposit, nil
}

func (r *DepositRepository) activeLocked(id string) (domain.TermDeposit, error) {
	deposit, err := r.getLocked(id)
	if err != nil {
		return domain.TermDeposit{}, err
	}
	if deposit.Status != domain.DepositStatusActive {
		return domain.TermDeposit{}, fmt.Errorf("term deposit %s is %s: %w", id, deposit.Status, domain.ErrInvalidState)
	}
	return deposit, nil
}
