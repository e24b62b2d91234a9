package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
	"github.com/aussiebroadwan/expenseflow/pkg/cryptox"
	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
)

// InitSessionKeys creates the KeyManager that signs session tokens.
//
// Storage modes:
//   - "persistent": keys are sealed with the master key and stored in the
//     database, so sessions survive restarts.
//   - "ephemeral": keys live in memory only and every restart logs all
//     users out.
func InitSessionKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.KeyManager, error) {
	switch cfg.KeyStorageMode {
	case KeyStoragePersistent:
		cipher, err := masterKeyCipher(cfg, logger)
		if err != nil {
			return nil, err
		}

		logger.Info("initializing persistent key manager",
			"num_keys", cfg.NumKeys,
			"grace_period", cfg.KeyGracePeriod,
		)

		km, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			Store:       store.NewKeyStoreAdapter(db),
			Cipher:      cipher,
			Issuer:      cfg.Issuer,
			NumKeys:     cfg.NumKeys,
			GracePeriod: cfg.KeyGracePeriod,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}

		logger.Info("persistent signing keys loaded/generated",
			"algorithm", km.Algorithm(),
			"num_keys", km.NumSigners(),
			"issuer", cfg.Issuer,
		)
		return km, nil

	default:
		km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
			Issuer:  cfg.Issuer,
			NumKeys: cfg.NumKeys,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"algorithm", km.Algorithm(),
			"num_keys", km.NumSigners(),
			"issuer", cfg.Issuer,
		)
		logger.Warn("ephemeral key mode: sessions do not survive a restart")
		return km, nil
	}
}

func masterKeyCipher(cfg Config, logger *slog.Logger) (*cryptox.KeyCipher, error) {
	material := []byte(cfg.MasterKey)
	if len(material) == 0 {
		var err error
		material, err = cryptox.LoadOrCreateMasterKey(cfg.MasterKeyFile)
		if err != nil {
			return nil, err
		}
		logger.Info("master key loaded", "path", cfg.MasterKeyFile)
	}

	cipher, err := cryptox.NewKeyCipher(material)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	return cipher, nil
}
