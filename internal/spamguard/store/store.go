package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a write that lost a race for the database lock.
	ErrConflict = errors.New("store: write conflict")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// transaction scoped store cannot start another transaction.
type Store interface {
	Identities() Identities
	OneTimeCodes() OneTimeCodes
	SecurityEvents() SecurityEvents
	Predictions() Predictions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// GetIdentityByID is used when resolving a session token subject.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail looks up by the normalised email.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	// CreateIdentity inserts a new identity. Returns ErrAlreadyExists when
	// the email is taken.
	CreateIdentity(ctx context.Context, i domain.Identity) error

	// UpdateLastLogin stamps a successful login.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// UpdatePasswordHash replaces the stored hash, used to upgrade legacy hashes.
	UpdatePasswordHash(ctx context.Context, id string, hash string) error

	// CountByRole returns how many identities carry role.
	CountByRole(ctx context.Context, role string) (int, error)
}

type OneTimeCodes interface {
	// CreateCode inserts a code. At most one unverified code may exist per
	// (identity, purpose); a second one returns ErrAlreadyExists.
	CreateCode(ctx context.Context, c domain.OneTimeCode) error

	// DeleteCodes removes every code for the pair, live or not.
	DeleteCodes(ctx context.Context, identity string, purpose domain.Purpose) error

	// GetLiveCode returns the unverified code for the pair that expires
	// after now and has fewer than maxAttempts wrong submissions.
	GetLiveCode(ctx context.Context, identity string, purpose domain.Purpose, now time.Time, maxAttempts int) (domain.OneTimeCode, error)

	// IncrementAttempts bumps the attempt counter and returns the new value
	// in a single statement.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// MarkVerified flips verified from 0 to 1. Returns false when the code
	// was already verified or no longer exists.
	MarkVerified(ctx context.Context, id string) (bool, error)

	// DeleteCode removes a single code.
	DeleteCode(ctx context.Context, id string) error

	// DeleteStaleCodes removes codes that expired before now or were verified.
	DeleteStaleCodes(ctx context.Context, now time.Time) (int64, error)
}

type SecurityEvents interface {
	// AppendEvent inserts an event and returns its sequence number.
	AppendEvent(ctx context.Context, e domain.SecurityEvent) (int64, error)

	// LastEvent returns the event with the highest sequence number.
	LastEvent(ctx context.Context) (domain.SecurityEvent, error)

	// ListEvents returns events matching f, newest first.
	ListEvents(ctx context.Context, f domain.EventFilter, p domain.Page) ([]domain.SecurityEvent, error)

	// CountEvents returns the number of events matching f.
	CountEvents(ctx context.Context, f domain.EventFilter) (int, error)

	// WalkEvents calls fn for every event in sequence order until fn
	// returns an error.
	WalkEvents(ctx context.Context, fn func(domain.SecurityEvent) error) error
}

type Predictions interface {
	CreatePrediction(ctx context.Context, p domain.PredictionLog) error

	// ListPredictions returns prediction logs newest first.
	ListPredictions(ctx context.Context, p domain.Page) ([]domain.PredictionLog, error)

	CountPredictions(ctx context.Context) (int, error)

	// DeletePredictionsBefore prunes logs older than t.
	DeletePredictionsBefore(ctx context.Context, t time.Time) (int64, error)
}
