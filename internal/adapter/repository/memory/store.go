// Package memory provides mutex-serialized implementations of the
// repository interfaces with the same atomicity guarantees as the postgres
// adapter. The service test suite runs against it.
package memory

import (
	"sync"
	"time"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/google/uuid"
)

// Store owns all state behind a single mutex, so every repository operation
// is atomic and serialized, including the multi-row ones.
type Store struct {
	mu sync.Mutex

	members       map[string]domain.Member
	accounts      map[string]domain.Account
	entries       map[string][]domain.LedgerEntry
	loans         map[string]domain.Loan
	repayments    map[string][]domain.Repayment
	deposits      map[string]domain.TermDeposit
	holdings      map[string][]domain.ShareHolding
	shareTxns     map[string][]domain.ShareTransaction
	dividends     map[string]domain.Dividend
	distributions map[string][]domain.DividendDistribution
}

func NewStore() *Store {
	return &Store{
		members:       make(map[string]domain.Member),
		accounts:      make(map[string]domain.Account),
		entries:       make(map[string][]domain.LedgerEntry),
		loans:         make(map[string]domain.Loan),
		repayments:    make(map[string][]domain.Repayment),
		deposits:      make(map[string]domain.TermDeposit),
		holdings:      make(map[string][]domain.ShareHolding),
		shareTxns:     make(map[string][]domain.ShareTransaction),
		dividends:     make(map[string]domain.Dividend),
		distributions: make(map[string][]domain.DividendDistribution),
	}
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}
