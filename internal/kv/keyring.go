package kv

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

// Keyring keeps secrets in the OS keychain, falling back to an encrypted file directory.
type Keyring struct {
	ring keyring.Keyring
}

// KeyringConfig selects where secrets live. An empty Password leaves the
// encrypted-file backend to prompt, which only works interactively.
type KeyringConfig struct {
	Service  string
	Dir      string
	Password string
	Backends []keyring.BackendType
}

func NewKeyring(cfg KeyringConfig) (*Keyring, error) {
	kc := keyring.Config{
		ServiceName:     cfg.Service,
		AllowedBackends: cfg.Backends,
		FileDir:         cfg.Dir,
	}
	if cfg.Password != "" {
		kc.FilePasswordFunc = keyring.FixedStringPrompt(cfg.Password)
	}
	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return &Keyring{ring: ring}, nil
}

func (k *Keyring) Get(key string) (string, bool, error) {
	item, err := k.ring.Get(key)
	if isMissing(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keyring get %s: %w", key, err)
	}
	return string(item.Data), true, nil
}

func (k *Keyring) Set(key, value string) error {
	err := k.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "PixelForge " + key,
	})
	if err != nil {
		return fmt.Errorf("keyring set %s: %w", key, err)
	}
	return nil
}

func (k *Keyring) Remove(key string) error {
	if err := k.ring.Remove(key); err != nil && !isMissing(err) {
		return fmt.Errorf("keyring remove %s: %w", key, err)
	}
	return nil
}

func isMissing(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist)
}
