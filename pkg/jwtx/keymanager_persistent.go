package jwtx

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/expenseflow/pkg/cryptox"
)

// SigningKeyRecord is a signing key as persisted by a KeyStore. It mirrors
// the store's domain type so jwtx doesn't import it.
type SigningKeyRecord struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time // nil while the key is used for signing
	ExpiresAt           *time.Time // set on retirement, nil while active
}

// Active reports whether the record may still sign tokens.
func (r SigningKeyRecord) Active() bool { return r.RetiredAt == nil }

// Expired reports whether the record is past its verification grace period.
func (r SigningKeyRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// KeyStore is the minimal persistence needed by a persistent KeyManager.
type KeyStore interface {
	// ListAllSigningKeys returns every stored key, retired ones included.
	ListAllSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error

	// RetireSigningKey stops a key from signing and schedules its expiry.
	RetireSigningKey(ctx context.Context, kid string, retiredAt, expiresAt time.Time) error
}

// PersistentKeyManagerOptions configures a KeyManager with persistent key storage.
type PersistentKeyManagerOptions struct {
	Store KeyStore

	// Cipher seals private keys before they reach the store.
	Cipher *cryptox.KeyCipher

	Issuer   string
	Audience []string

	// NumKeys is the target number of active keys; missing ones are generated.
	NumKeys int

	// GracePeriod is how long retired keys keep verifying tokens.
	GracePeriod time.Duration
}

// NewPersistentKeyManager loads stored keys, generating new ones until
// NumKeys active keys exist. Retired keys that haven't expired are loaded
// for verification only.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("jwtx: Store is required for persistent key manager")
	}
	if opts.Cipher == nil {
		return nil, fmt.Errorf("jwtx: Cipher is required for persistent key manager")
	}
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}

	records, err := opts.Store.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load keys from database: %w", err)
	}

	keyset := NewKeySet()
	km := &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
		numKeys:  clampNumKeys(opts.NumKeys),
		store:    opts.Store,
		cipher:   opts.Cipher,
		grace:    opts.GracePeriod,
	}

	now := time.Now().UTC()
	for _, rec := range records {
		if rec.Expired(now) {
			continue
		}
		if rec.Algorithm != AlgorithmEdDSA {
			return nil, fmt.Errorf("jwtx: key %s uses unsupported algorithm %q", rec.Kid, rec.Algorithm)
		}

		pemData, err := km.cipher.Open(rec.PrivateKeyEncrypted)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to decrypt key %s: %w", rec.Kid, err)
		}

		signer, err := NewSignerEdDSA(rec.Kid, pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to create signer for key %s: %w", rec.Kid, err)
		}

		if !rec.Active() {
			if err := keyset.AddSigner(signer); err != nil {
				return nil, fmt.Errorf("jwtx: failed to add key %s to keyset: %w", rec.Kid, err)
			}
			continue
		}
		if err := km.activate(signer); err != nil {
			return nil, err
		}
	}

	for km.NumSigners() < km.numKeys {
		signer, err := km.newSigner(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate new key: %w", err)
		}
		if err := km.activate(signer); err != nil {
			return nil, err
		}
	}

	return km, nil
}
