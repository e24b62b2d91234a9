package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

// KeyRotationService replaces the active session signing keys at runtime.
//
// In ephemeral mode retired keys keep verifying until restart. In
// persistent mode they are marked retired in the store and verify until
// the grace period passes.
type KeyRotationService struct {
	KeyManager *jwtx.KeyManager
}

// RotateKeysResponse lists the key IDs now used for signing.
type RotateKeysResponse struct {
	Kids       []string `json:"kids"`
	Persistent bool     `json:"persistent"`
}

func (s *KeyRotationService) RotateKeys(ctx context.Context) (RotateKeysResponse, error) {
	if s.KeyManager == nil {
		return RotateKeysResponse{}, fmt.Errorf("KeyManager is required")
	}

	previous := s.KeyManager.ActiveKIDs()
	kids, err := s.KeyManager.Rotate(ctx)
	if err != nil {
		return RotateKeysResponse{}, err
	}

	slogx.FromContext(ctx).Info("rotated signing keys",
		slog.Any("retired", previous),
		slog.Any("active", kids),
	)
	return RotateKeysResponse{Kids: kids, Persistent: s.KeyManager.Persistent()}, nil
}
