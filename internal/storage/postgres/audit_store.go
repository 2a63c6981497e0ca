package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/sheikh-saqib/donation-ledger/internal/interfaces"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
)

// AuditStore is the durable implementation of interfaces.AuditStore.
// The audit_records table is insert-only: nothing in this store ever
// issues an UPDATE or DELETE against it, which is what keeps the trail
// tamper-evident. Filtered queries lean on indexed columns instead of
// scanning the whole trail.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore wraps an open database handle.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{
		db: db,
	}
}

// EnsureSchema creates the audit table and its indices if missing.
func (s *AuditStore) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS audit_records (
		id         BIGINT PRIMARY KEY,
		action     TEXT        NOT NULL,
		actor      TEXT        NOT NULL,
		target     TEXT        NOT NULL DEFAULT '',
		amount     NUMERIC     NOT NULL,
		note       TEXT        NOT NULL DEFAULT '',
		ts         TIMESTAMPTZ NOT NULL,
		seq        BIGINT      NOT NULL
	);
	CREATE INDEX IF NOT EXISTS audit_records_actor_idx  ON audit_records (actor);
	CREATE INDEX IF NOT EXISTS audit_records_target_idx ON audit_records (target);
	CREATE INDEX IF NOT EXISTS audit_records_action_idx ON audit_records (action);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create audit schema")
	}
	return nil
}

// Append inserts one record. Insert only; never update or delete.
func (s *AuditStore) Append(ctx context.Context, record models.AuditRecord) error {
	const query = `INSERT INTO audit_records (id, action, actor, target, amount, note, ts, seq)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := s.db.ExecContext(ctx, query,
		int64(record.ID), string(record.Action), string(record.Actor), string(record.Target),
		record.Amount, record.Note, record.Timestamp, int64(record.Seq))
	return errors.Wrap(err, "insert audit record")
}

// Get returns the record with the given id.
func (s *AuditStore) Get(id uint64) (models.AuditRecord, bool, error) {
	const query = `SELECT id, action, actor, target, amount, note, ts, seq
	FROM audit_records WHERE id = $1`

	record, err := scanRecord(s.db.QueryRow(query, int64(id)))
	if err == sql.ErrNoRows {
		return models.AuditRecord{}, false, nil
	}
	if err != nil {
		return models.AuditRecord{}, false, err
	}
	return record, true, nil
}

// GetAll returns the full trail ordered by id.
func (s *AuditStore) GetAll() ([]models.AuditRecord, error) {
	const query = `SELECT id, action, actor, target, amount, note, ts, seq
	FROM audit_records ORDER BY id`

	return s.queryRecords(query)
}

// GetByPrincipal returns records where p acted or was acted upon.
func (s *AuditStore) GetByPrincipal(p models.Principal) ([]models.AuditRecord, error) {
	const query = `SELECT id, action, actor, target, amount, note, ts, seq
	FROM audit_records WHERE actor = $1 OR target = $1 ORDER BY id`

	return s.queryRecords(query, string(p))
}

// GetByAction returns records of one action kind.
func (s *AuditStore) GetByAction(action models.Action) ([]models.AuditRecord, error) {
	const query = `SELECT id, action, actor, target, amount, note, ts, seq
	FROM audit_records WHERE action = $1 ORDER BY id`

	return s.queryRecords(query, string(action))
}

// GetLatest returns the last n records in chronological order. The
// subquery selects the tail by descending id, the outer order restores
// chronology.
func (s *AuditStore) GetLatest(n int) ([]models.AuditRecord, error) {
	const query = `SELECT id, action, actor, target, amount, note, ts, seq FROM (
		SELECT id, action, actor, target, amount, note, ts, seq
		FROM audit_records ORDER BY id DESC LIMIT $1
	) tail ORDER BY id`

	return s.queryRecords(query, n)
}

// Count returns the number of stored records.
func (s *AuditStore) Count() (uint64, error) {
	const query = `SELECT COUNT(*) FROM audit_records`

	var count int64
	if err := s.db.QueryRow(query).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count audit records")
	}
	return uint64(count), nil
}

func (s *AuditStore) queryRecords(query string, args ...any) ([]models.AuditRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query audit records")
	}
	defer rows.Close()

	var records []models.AuditRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate audit records")
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.AuditRecord, error) {
	var (
		record  models.AuditRecord
		id, seq int64
		action  string
		actor   string
		target  string
	)
	err := row.Scan(&id, &action, &actor, &target, &record.Amount, &record.Note, &record.Timestamp, &seq)
	if err == sql.ErrNoRows {
		return models.AuditRecord{}, err
	}
	if err != nil {
		return models.AuditRecord{}, errors.Wrap(err, "scan audit record")
	}
	record.ID = uint64(id)
	record.Seq = uint64(seq)
	record.Action = models.Action(action)
	record.Actor = models.Principal(actor)
	record.Target = models.Principal(target)
	return record, nil
}

// Compile-time check: ensure AuditStore implements the store interface
var _ interfaces.AuditStore = (*AuditStore)(nil)
