package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Registers the pgx driver with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
)

const schema = `
CREATE TABLE IF NOT EXISTS stage_job_records (
	id           BIGSERIAL PRIMARY KEY,
	run_id       TEXT        NOT NULL,
	project_root TEXT        NOT NULL,
	project      TEXT        NOT NULL,
	entry        TEXT        NOT NULL,
	interpreter  TEXT        NOT NULL,
	verdict      TEXT        NOT NULL,
	record       JSONB       NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS stage_job_records_entry_idx
	ON stage_job_records (project_root, entry, created_at DESC);
`

const insertRecord = `
INSERT INTO stage_job_records (run_id, project_root, project, entry, interpreter, verdict, record)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectLatest = `
SELECT record FROM stage_job_records
WHERE project_root = $1 AND entry = $2
ORDER BY created_at DESC, id DESC
LIMIT 1`

// Store implements ports.JobStore on a PostgreSQL table. Every Put appends a row,
// so the table keeps the history of all runs.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open connects to the database, verifies the connection and creates the table if needed.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to ping database")
	}

	store := &Store{db: db, queryTimeout: cfg.QueryTimeout}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return zerr.Wrap(err, "failed to create job record table")
	}
	return nil
}

// Get retrieves the latest record of an entry under the project root.
func (s *Store) Get(root, entry string) (*domain.JobRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	var raw []byte
	err := s.db.QueryRowContext(ctx, selectLatest, root, entry).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "entry", entry)
	}

	var rec domain.JobRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreUnmarshalFailed, err), "entry", entry)
	}
	return &rec, nil
}

// Put appends the record.
func (s *Store) Put(root string, rec domain.JobRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(domain.ErrStoreMarshalFailed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, insertRecord,
		rec.RunID, root, rec.Project, rec.Entry, rec.Interpreter, string(rec.Verdict), raw)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "entry", rec.Entry)
	}
	return nil
}

// Close releases the connection pool. Closing a nil Store is a no-op.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// OpenFromEnv opens the store configured by the STAGE_DATABASE_* variables.
// It returns nil when no database is configured, and also when the configuration is
// invalid or the database is unreachable; those cases are logged as warnings so
// records are still kept in the local store.
func OpenFromEnv(ctx context.Context, log ports.Logger) *Store {
	cfg, err := ConfigFromEnv()
	if err == nil && !cfg.Enabled() {
		return nil
	}

	var store *Store
	if err == nil {
		store, err = Open(ctx, cfg)
	}
	if err != nil {
		log.Warn(fmt.Sprintf("postgres job store disabled: %v", err))
		return nil
	}
	return store
}
