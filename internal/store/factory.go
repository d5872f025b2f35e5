package store

import (
	"fmt"

	"paywall-go/internal/config"
	"paywall-go/internal/paywall"
)

// NewStoreFromConfig creates a ContentStore based on the provided
// configuration, wrapping it with age sealing when requested.
func NewStoreFromConfig(cfg config.StoreConfig, keys config.KeysConfig) (paywall.ContentStore, error) {
	var inner paywall.ContentStore

	switch cfg.Type {
	case "memory":
		inner = NewMemoryStore(cfg.Name)
	case "filesystem":
		fs, err := NewFileStore(cfg.Name, cfg.RootDir)
		if err != nil {
			return nil, fmt.Errorf("creating filesystem store: %w", err)
		}
		inner = fs
	case "s3":
		s3s, err := NewS3Store(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating s3 store: %w", err)
		}
		inner = s3s
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}

	if cfg.Sealed {
		return NewSealedStore(inner, keys), nil
	}
	return inner, nil
}
