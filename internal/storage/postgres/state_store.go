package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/sheikh-saqib/donation-ledger/internal/interfaces"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// StateStore persists the latest contract snapshot as a single JSONB
// row, upserted after every successful mutation. The snapshot is a
// convenience for restarts; the audit trail stays the authoritative
// history.
type StateStore struct {
	db *sql.DB
}

// NewStateStore wraps an open database handle.
func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{
		db: db,
	}
}

// EnsureSchema creates the snapshot table if missing.
func (s *StateStore) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS contract_state (
		id         INT PRIMARY KEY CHECK (id = 1),
		snapshot   JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create state schema")
	}
	return nil
}

// Save upserts the single snapshot row.
func (s *StateStore) Save(ctx context.Context, snapshot models.ContractSnapshot) error {
	const query = `INSERT INTO contract_state (id, snapshot, updated_at)
	VALUES (1, $1, $2)
	ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if _, err := s.db.ExecContext(ctx, query, payload, snapshot.UpdatedAt); err != nil {
		return errors.Wrap(err, "upsert snapshot")
	}
	return nil
}

// Load reads the snapshot row, found=false on a fresh database.
func (s *StateStore) Load(ctx context.Context) (models.ContractSnapshot, bool, error) {
	const query = `SELECT snapshot FROM contract_state WHERE id = 1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.ContractSnapshot{}, false, nil
	}
	if err != nil {
		return models.ContractSnapshot{}, false, errors.Wrap(err, "read snapshot")
	}

	var snapshot models.ContractSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return models.ContractSnapshot{}, false, errors.Wrap(err, "decode snapshot")
	}
	return snapshot, true, nil
}

// Compile-time check: ensure StateStore implements the store interface
var _ interfaces.StateStore = (*StateStore)(nil)
