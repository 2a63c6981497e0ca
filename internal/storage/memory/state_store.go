package memory

import (
	"context"
	"sync"

	"github.com/sheikh-saqib/donation-ledger/internal/interfaces"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// StateStore keeps the latest contract snapshot in memory. Useful for
// tests and for running without a database; state does not survive the
// process.
type StateStore struct {
	mu       sync.Mutex
	snapshot models.ContractSnapshot
	saved    bool
}

// NewStateStore creates an empty in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// Save replaces the held snapshot.
func (s *StateStore) Save(ctx context.Context, snapshot models.ContractSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	s.saved = true
	return nil
}

// Load returns the held snapshot, found=false before the first Save.
func (s *StateStore) Load(ctx context.Context) (models.ContractSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return models.ContractSnapshot{}, false, nil
	}
	return s.snapshot, true, nil
}

// Compile-time check: ensure StateStore implements the store interface
var _ interfaces.StateStore = (*StateStore)(nil)
