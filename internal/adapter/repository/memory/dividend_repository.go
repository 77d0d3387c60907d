package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/shopspring/decimal"
)

type DividendRepository struct {
	store *Store
}

func NewDividendRepository(store *Store) *DividendRepository {
	return &DividendRepository{store: store}
}

func (r *DividendRepository) Create(_ context.Context, dividend domain.Dividend) (domain.Dividend, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.dividends {
		if existing.Year == dividend.Year &&
			existing.DividendType == dividend.DividendType &&
			existing.Status != domain.DividendStatusCancelled {
			return domain.Dividend{}, fmt.Errorf("dividend for %d %s already declared: %w",
				dividend.Year, dividend.DividendType, domain.ErrDuplicateResource)
		}
	}

	dividend.ID = newID()
	dividend.CreatedAt = now()
	dividend.UpdatedAt = dividend.CreatedAt
	r.store.dividends[dividend.ID] = dividend
	return dividend, nil
}

func (r *DividendRepository) GetByID(_ context.Context, id string) (domain.Dividend, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.getLocked(id)
}

func (r *DividendRepository) Approve(_ context.Context, id string) (domain.Dividend, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	dividend, err := r.getLocked(id)
	if err != nil {
		return domain.Dividend{}, err
	}
	if dividend.Status != domain.DividendStatusDeclared {
		return domain.Dividend{}, fmt.Errorf("dividend %s is %s: %w", id, dividend.Status, domain.ErrInvalidState)
	}

	dividend.Status = domain.DividendStatusApproved
	dividend.UpdatedAt = now()
	r.store.dividends[dividend.ID] = dividend
	return dividend, nil
}

func (r *DividendRepository) Cancel(_ context.Context, id string, reason string) (domain.Dividend, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	dividend, err := r.getLocked(id)
	if err != nil {
		return domain.Dividend{}, err
	}
	if dividend.Status == domain.DividendStatusPaid {
		return domain.Dividend{}, fmt.Errorf("dividend %s is %s: %w", id, dividend.Status, domain.ErrInvalidState)
	}

	dividend.Status = domain.DividendStatusCancelled
	dividend.CancelReason = &reason
	dividend.UpdatedAt = now()
	r.store.dividends[dividend.ID] = dividend
	return dividend, nil
}

func (r *DividendRepository) Distribute(_ context.Context, id string, distributions []domain.DividendDistribution, total decimal.Decimal) (domain.Dividend, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	dividend, err := r.getLocked(id)
	if err != nil {
		return domain.Dividend{}, err
	}
	if dividend.Status != domain.DividendStatusApproved {
		return domain.Dividend{}, fmt.Errorf("dividend %s is %s: %w", id, dividend.Status, domain.ErrInvalidState)
	}

	created := now()
	rows := make([]domain.DividendDistribution, 0, len(distributions))
	for _, distribution := range distributions {
		distribution.ID = newID()
		distribution.DividendID = id
		distribution.CreatedAt = created
		rows = append(rows, distribution)
	}
	r.store.distributions[id] = rows

	dividend.Status = domain.DividendStatusPaid
	dividend.TotalAmount = total
	dividend.UpdatedAt = created
	r.store.dividends[dividend.ID] = dividend
	return dividend, nil
}

func (r *DividendRepository) ListDistributions(_ context.Context, dividendID string) ([]domain.DividendDistribution, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	distributions := r.store.distributions[dividendID]
	out := make([]domain.DividendDistribution, len(distributions))
	copy(out, distributions)
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (r *DividendRepository) getLocked(id string) (domain.Dividend, error) {
	dividend, ok := r.store.dividends[id]
	if !ok {
		return domain.Dividend{}, fmt.Errorf("dividend %s: %w", id, domain.ErrNotFound)
	}
	return dividend, nil
}
