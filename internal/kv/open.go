package kv

import (
	"context"
	"fmt"

	"pixelforge/internal/config"
)

// Open returns the store selected by cfg.KVBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.KVBackend {
	case config.BackendFile:
		return NewFile(cfg.KVFilePath)
	case config.BackendSQLite:
		return NewSQLite(cfg.SQLitePath)
	case config.BackendRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown kv backend: %s", cfg.KVBackend)
	}
}

// OpenCredentials returns the store for the credential. With the kv backend it is
// the shared store itself.
func OpenCredentials(cfg *config.Config, shared Store) (Store, error) {
	switch cfg.CredentialBackend {
	case config.CredentialKV, "":
		return shared, nil
	case config.CredentialKeyring:
		return NewKeyring(KeyringConfig{
			Service:  cfg.KeyringService,
			Dir:      cfg.KeyringDir,
			Password: cfg.KeyringPassword,
		})
	default:
		return nil, fmt.Errorf("unknown credential backend: %s", cfg.CredentialBackend)
	}
}
