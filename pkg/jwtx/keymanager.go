package jwtx

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aussiebroadwan/expenseflow/pkg/cryptox"
	"github.com/aussiebroadwan/expenseflow/pkg/idx"
)

const AlgorithmEdDSA = "EdDSA"

const (
	DefaultNumKeys     = 1
	MaxNumKeys         = 10
	DefaultGracePeriod = 30 * 24 * time.Hour
)

var ErrNoSigner = errors.New("jwtx: no active signing key")

// KeyManager owns the signing keys of an instance and the KeySet used to
// verify and publish them. Signing picks randomly among the active keys.
//
// In ephemeral mode keys only live in memory and every token dies with the
// process. In persistent mode keys are sealed into a KeyStore so sessions
// survive restarts.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
	numKeys int

	store  KeyStore
	cipher *cryptox.KeyCipher
	grace  time.Duration
}

// KeyManagerOptions configures an ephemeral KeyManager.
type KeyManagerOptions struct {
	// Issuer is the issuer claim (iss) that will be validated in tokens.
	Issuer string

	// Audience values (aud) to validate. Empty means no audience check.
	Audience []string

	// NumKeys is clamped to [1, MaxNumKeys]; zero means DefaultNumKeys.
	NumKeys int
}

// NewEphemeralKeyManager creates a KeyManager with freshly generated keys
// that are never written anywhere.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	keyset := NewKeySet()
	km := &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
		numKeys:  clampNumKeys(opts.NumKeys),
	}

	for i := range km.numKeys {
		signer, err := km.newSigner(context.Background(), time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}
		if err := km.activate(signer); err != nil {
			return nil, err
		}
	}

	return km, nil
}

func clampNumKeys(n int) int {
	if n <= 0 {
		return DefaultNumKeys
	}
	return min(n, MaxNumKeys)
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string { return AlgorithmEdDSA }

// Persistent reports whether keys are backed by a KeyStore.
func (km *KeyManager) Persistent() bool { return km.store != nil }

// IsReady returns true if the KeyManager has keys to sign and verify with.
func (km *KeyManager) IsReady() bool {
	return km.NumSigners() > 0 && km.KeySet.IsReady()
}

// GetSigner returns a randomly selected active signer, or nil if none.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// ActiveKIDs lists the key IDs currently used for signing.
func (km *KeyManager) ActiveKIDs() []string {
	km.mu.RLock()
	defer km.mu.RUnlock()

	kids := make([]string, len(km.signers))
	for i, s := range km.signers {
		kids[i] = s.KID()
	}
	return kids
}

// Sign signs claims with one of the active keys.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	signer := km.GetSigner()
	if signer == nil {
		return "", ErrNoSigner
	}
	return signer.Sign(claims)
}

// Verify checks a token against every key in the KeySet, including retired
// keys still inside their grace period.
func (km *KeyManager) Verify(token string) (Claims, error) {
	return km.Verifier.Verify(token)
}

// Rotate replaces every active signing key with a freshly generated one.
// Retired keys stay in the KeySet so tokens they signed keep verifying;
// in persistent mode they expire after the grace period.
func (km *KeyManager) Rotate(ctx context.Context) ([]string, error) {
	now := time.Now().UTC()

	km.mu.RLock()
	n := km.numKeys
	old := make([]Signer, len(km.signers))
	copy(old, km.signers)
	km.mu.RUnlock()

	fresh := make([]Signer, 0, n)
	for range n {
		signer, err := km.newSigner(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("jwtx: rotate: %w", err)
		}
		if err := km.KeySet.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: rotate: %w", err)
		}
		fresh = append(fresh, signer)
	}

	if km.store != nil {
		expires := now.Add(km.grace)
		for _, s := range old {
			if err := km.store.RetireSigningKey(ctx, s.KID(), now, expires); err != nil {
				return nil, fmt.Errorf("jwtx: retire key %s: %w", s.KID(), err)
			}
		}
	}

	km.mu.Lock()
	km.signers = fresh
	km.mu.Unlock()

	kids := make([]string, len(fresh))
	for i, s := range fresh {
		kids[i] = s.KID()
	}
	return kids, nil
}

// activate makes signer available for both signing and verification.
func (km *KeyManager) activate(signer Signer) error {
	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: failed to add signer to keyset: %w", err)
	}

	km.mu.Lock()
	km.signers = append(km.signers, signer)
	km.mu.Unlock()
	return nil
}

// newSigner generates a key and, in persistent mode, seals and stores it.
func (km *KeyManager) newSigner(ctx context.Context, now time.Time) (Signer, error) {
	kid, err := generateRandomKeyID()
	if err != nil {
		return nil, err
	}

	pemData, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}

	signer, err := NewSignerEdDSA(kid, pemData)
	if err != nil {
		return nil, err
	}

	if km.store == nil {
		return signer, nil
	}

	sealed, err := km.cipher.Seal(pemData)
	if err != nil {
		return nil, fmt.Errorf("encrypt key: %w", err)
	}

	err = km.store.CreateSigningKey(ctx, SigningKeyRecord{
		ID:                  idx.NewAt(now).String(),
		Kid:                 kid,
		Algorithm:           AlgorithmEdDSA,
		PrivateKeyEncrypted: sealed,
		CreatedAt:           now,
	})
	if err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}

	return signer, nil
}

// generateRandomKeyID returns "expenseflow-{128 bit token}".
func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("failed to generate random key ID: %w", err)
	}
	return "expenseflow-" + token, nil
}
