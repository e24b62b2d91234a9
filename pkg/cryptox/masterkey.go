package cryptox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreateMasterKey reads the master key stored at path, generating and
// persisting a new one with 0600 permissions on first start.
func LoadOrCreateMasterKey(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("cryptox: create master key dir: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		key := strings.TrimSpace(string(data))
		if key == "" {
			return nil, fmt.Errorf("cryptox: master key file %s is empty", path)
		}
		return []byte(key), nil

	case errors.Is(err, os.ErrNotExist):
		key, err := GenerateToken(TokenSize256)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(key), 0600); err != nil {
			return nil, fmt.Errorf("cryptox: write master key: %w", err)
		}
		return []byte(key), nil

	default:
		return nil, fmt.Errorf("cryptox: read master key: %w", err)
	}
}
