package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a transaction can hand out the same repos scoped to it.
type Store interface {
	Users() Users
	Sessions() Sessions
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

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

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is the login lookup. Usernames are matched exactly.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a seed identity. A taken id or username yields
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.SessionRecord) error

	GetSession(ctx context.Context, id string) (domain.SessionRecord, error)

	// DeleteSession removes a session. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context, id string) error

	// ListSessions returns every stored session, most recently seen first.
	ListSessions(ctx context.Context) ([]domain.SessionRecord, error)

	// TouchSession bumps last_seen_at. Returns ErrNotFound for unknown ids.
	TouchSession(ctx context.Context, id string, at time.Time) error

	// DeleteSessionsCreatedBefore is TTL housekeeping.
	DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SigningKeys interface {
	// CreateSigningKey stores a new signing key with encrypted private key material.
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// ListAllSigningKeys returns all signing keys, retired ones included,
	// newest first.
	ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// RetireSigningKey stops a key from signing and schedules its expiry.
	// Retired keys keep verifying until expiresAt.
	RetireSigningKey(ctx context.Context, kid string, retiredAt, expiresAt time.Time) error

	// DeleteExpiredSigningKeys removes retired keys whose expiry has passed.
	DeleteExpiredSigningKeys(ctx context.Context, now time.Time) (int64, error)
}
