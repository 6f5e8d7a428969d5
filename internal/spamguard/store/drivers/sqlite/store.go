package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database at dsn. Write transactions take the database
// lock at BEGIN unless dsn sets _txlock itself, so a read-then-write
// transaction waits on busy_timeout rather than failing mid-way.
func NewStore(dsn string) (*Store, error) {
	if !strings.Contains(dsn, "_txlock=") {
		dsn = withParam(dsn, "_txlock=immediate")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func withParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapBusy(err)
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return mapBusy(tx.Commit())
}

func (s *Store) Identities() store.Identities         { return &identitiesRepo{q: s.q} }
func (s *Store) OneTimeCodes() store.OneTimeCodes     { return &oneTimeCodesRepo{q: s.q} }
func (s *Store) SecurityEvents() store.SecurityEvents { return &securityEventsRepo{q: s.q} }
func (s *Store) Predictions() store.Predictions       { return &predictionsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns unique and primary key violations into
// store.ErrAlreadyExists.
func mapConstraint(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return mapBusy(err)
}

// mapBusy wraps a lock timeout in store.ErrConflict. The primary code is
// compared so extended codes like SQLITE_BUSY_SNAPSHOT match too.
func mapBusy(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", store.ErrConflict, err)
		}
	}
	return err
}

// Timestamps are stored as unix milliseconds so range predicates compare
// integers rather than formatted strings.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func mapOptionalTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func mapNullTimePtr(n sql.NullInt64) *time.Time {
	if n.Valid {
		val := fromMillis(n.Int64)
		return &val
	}
	return nil
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func mapIdentity(row gen.Identity) domain.Identity {
	return domain.Identity{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		CreatedAt:    fromMillis(row.CreatedAt),
		LastLogin:    mapNullTimePtr(row.LastLogin),
	}
}

func mapOneTimeCode(row gen.OneTimeCode) domain.OneTimeCode {
	return domain.OneTimeCode{
		ID:        row.ID,
		Identity:  row.Identity,
		Purpose:   domain.Purpose(row.Purpose),
		CodeHash:  row.CodeHash,
		CreatedAt: fromMillis(row.CreatedAt),
		ExpiresAt: fromMillis(row.ExpiresAt),
		Verified:  row.Verified != 0,
		Attempts:  int(row.Attempts),
		Origin:    row.Origin,
	}
}

func mapSecurityEvent(row gen.SecurityEvent) domain.SecurityEvent {
	return domain.SecurityEvent{
		Seq:       row.Seq,
		ID:        row.ID,
		Type:      row.EventType,
		Details:   row.Details,
		Origin:    row.Origin,
		Identity:  mapNullStringPtr(row.Identity),
		Severity:  domain.Severity(row.Severity),
		Timestamp: fromMillis(row.Timestamp),
		PrevHash:  row.PrevHash,
		ChainHash: row.ChainHash,
	}
}

func mapPredictionLog(row gen.PredictionLog) domain.PredictionLog {
	return domain.PredictionLog{
		ID:              row.ID,
		Identity:        row.Identity,
		Excerpt:         row.Excerpt,
		Result:          row.Result,
		Confidence:      row.Confidence,
		ConfidenceLevel: row.ConfidenceLevel,
		Origin:          row.Origin,
		Timestamp:       fromMillis(row.Timestamp),
	}
}
