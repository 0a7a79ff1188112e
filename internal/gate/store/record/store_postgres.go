package recordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"guardiangate/internal/gate"
	"guardiangate/pkg/platform/sentinel"
)

// Schema for the backing table:
//
//	CREATE TABLE consent_records (
//	    id             UUID PRIMARY KEY,
//	    account_id     TEXT NOT NULL UNIQUE,
//	    consent_ok     BOOLEAN NOT NULL,
//	    consent_at     TIMESTAMPTZ NOT NULL,
//	    guardian_email TEXT NOT NULL DEFAULT '',
//	    minor_name     TEXT NOT NULL DEFAULT '',
//	    minor_dob      TEXT NOT NULL DEFAULT '',
//	    consent_ip     TEXT NOT NULL DEFAULT ''
//	);
const uniqueViolation = "23505"

// PostgresStore persists consent records in PostgreSQL. The UNIQUE constraint
// on account_id enforces the at-most-once invariant at the database level.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed record store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record gate.ConsentRecord) error {
	query := `
		INSERT INTO consent_records (id, account_id, consent_ok, consent_at, guardian_email, minor_name, minor_dob, consent_ip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.AccountID, record.ConsentOK, record.ConsentAt,
		record.GuardianEmail, record.MinorName, record.MinorDOB, record.ConsentIP,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("consent record already exists for account %s: %w", record.AccountID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save consent record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByAccount(ctx context.Context, accountID string) (gate.ConsentRecord, error) {
	query := `
		SELECT id, account_id, consent_ok, consent_at, guardian_email, minor_name, minor_dob, consent_ip
		FROM consent_records
		WHERE account_id = $1
	`
	var record gate.ConsentRecord
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&record.ID, &record.AccountID, &record.ConsentOK, &record.ConsentAt,
		&record.GuardianEmail, &record.MinorName, &record.MinorDOB, &record.ConsentIP,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return gate.ConsentRecord{}, fmt.Errorf("consent record not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return gate.ConsentRecord{}, fmt.Errorf("find consent record: %w", err)
	}
	return record, nil
}
