package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
	"github.com/kirillkom/nlp-text-server/internal/infrastructure/resilience"
)

const (
	operationRecord = "postgres.record_processed"
	schemaLockKey   = int64(2026101401)
)

// RequestJournal appends one row per processed request.
type RequestJournal struct {
	db       *sql.DB
	executor *resilience.Executor
}

func NewRequestJournal(db *sql.DB, executor *resilience.Executor) *RequestJournal {
	return &RequestJournal{db: db, executor: executor}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (j *RequestJournal) EnsureSchema(ctx context.Context) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent server startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS processed_requests (
	id TEXT PRIMARY KEY,
	client_id INTEGER NOT NULL,
	remote_addr TEXT NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL,
	word_count INTEGER NOT NULL DEFAULT 0,
	topic TEXT,
	summary_length INTEGER NOT NULL DEFAULT 0,
	processing_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
	reply_delivered BOOLEAN NOT NULL,
	enqueued_at TIMESTAMPTZ,
	completed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_processed_requests_kind ON processed_requests(kind);
CREATE INDEX IF NOT EXISTS idx_processed_requests_completed_at ON processed_requests(completed_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Record inserts rec. A duplicate ID is ignored so retried inserts stay idempotent.
func (j *RequestJournal) Record(ctx context.Context, rec domain.ProcessedRecord) error {
	const query = `
INSERT INTO processed_requests (
	id, client_id, remote_addr, kind, status, word_count, topic,
	summary_length, processing_seconds, reply_delivered, enqueued_at, completed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO NOTHING
`
	call := func(ctx context.Context) error {
		_, err := j.db.ExecContext(ctx, query,
			rec.ID,
			rec.ClientID,
			rec.RemoteAddr,
			rec.Kind,
			rec.Status,
			rec.WordCount,
			nullableString(rec.Topic),
			rec.SummaryLength,
			rec.ProcessingSeconds,
			rec.ReplyDelivered,
			nullableTime(rec.EnqueuedAt),
			rec.CompletedAt.UTC(),
		)
		if err != nil {
			if isTransient(err) {
				return domain.WrapError(domain.ErrTemporary, operationRecord, err)
			}
			return fmt.Errorf("insert processed request: %w", err)
		}
		return nil
	}

	if j.executor == nil {
		return call(ctx)
	}
	return j.executor.Execute(ctx, operationRecord, call, resilience.ClassifyTemporary)
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	return pgconn.Timeout(err) || pgconn.SafeToRetry(err)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
