package domain

import "time"

// SigningKey is a session token signing key, sealed at rest with
// AES-256-GCM. RetiredAt is nil while the key signs; ExpiresAt is set when
// it is retired.
type SigningKey struct {
	ID                  string // ULID
	Kid                 string // key identifier in JWKS, e.g. "expenseflow-abc123"
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time
	ExpiresAt           *time.Time
}

// IsActive returns true if the key is still used for signing.
func (k *SigningKey) IsActive() bool {
	return k.RetiredAt == nil
}

// IsExpired returns true once a retired key is past its grace period.
func (k *SigningKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}
