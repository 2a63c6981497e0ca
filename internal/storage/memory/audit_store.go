package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	"github.com/sheikh-saqib/donation-ledger/internal/interfaces"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// AuditStore is an in-memory implementation of interfaces.AuditStore.
// Records live in an append-only slice, so a record's id doubles as its
// slice index. Secondary indices by principal and by action keep the
// filtered queries from scanning the whole trail.
type AuditStore struct {
	mu      sync.Mutex
	records []models.AuditRecord

	byPrincipal map[models.Principal][]uint64 // principal -> record ids, ascending
	byAction    map[models.Action][]uint64    // action -> record ids, ascending
}

// NewAuditStore creates an empty in-memory audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{
		records:     make([]models.AuditRecord, 0),
		byPrincipal: make(map[models.Principal][]uint64),
		byAction:    make(map[models.Action][]uint64),
	}
}

// Append stores a record and indexes it. The store trusts the trail's
// id assignment: ids arrive dense and ascending.
func (s *AuditStore) Append(ctx context.Context, record models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)

	s.byPrincipal[record.Actor] = append(s.byPrincipal[record.Actor], record.ID)
	if !record.Target.Zero() && record.Target != record.Actor {
		s.byPrincipal[record.Target] = append(s.byPrincipal[record.Target], record.ID)
	}
	s.byAction[record.Action] = append(s.byAction[record.Action], record.ID)
	return nil
}

// Get returns the record with the given id, found=false past the end.
func (s *AuditStore) Get(id uint64) (models.AuditRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id >= uint64(len(s.records)) {
		return models.AuditRecord{}, false, nil
	}
	return s.records[id], true, nil
}

// GetAll returns a copy of the full trail in insertion order.
func (s *AuditStore) GetAll() ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.AuditRecord, len(s.records))
	copy(copied, s.records)
	return copied, nil
}

// GetByPrincipal returns every record where p acted or was acted upon,
// in insertion order, via the principal index.
func (s *AuditStore) GetByPrincipal(p models.Principal) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byPrincipal[p]
	result := make([]models.AuditRecord, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.records[id])
	}
	return result, nil
}

// GetByAction returns every record of one kind, in insertion order.
func (s *AuditStore) GetByAction(action models.Action) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byAction[action]
	result := make([]models.AuditRecord, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.records[id])
	}
	return result, nil
}

// GetLatest returns the last min(n, count) records in chronological order.
func (s *AuditStore) GetLatest(n int) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.records) {
		n = len(s.records)
	}
	copied := make([]models.AuditRecord, n)
	copy(copied, s.records[len(s.records)-n:])
	return copied, nil
}

// Count returns the number of stored records.
func (s *AuditStore) Count() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.records)), nil
}

// Compile-time check: ensure AuditStore implements the store interface
var _ interfaces.AuditStore = (*AuditStore)(nil)
