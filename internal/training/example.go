// Package training holds the curated input/expected-reply pairs the assistant
// answers from verbatim, their persistence and the matching rule.
package training

import (
	"fmt"

	"github.com/bytedance/sonic"

	"pixelforge/internal/kv"
)

// Example is a user-curated (input, expected reply) pair.
type Example struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	Category       string `json:"category,omitempty"`
}

// Repository persists the whole ordered example set under a single key.
type Repository struct {
	store kv.Store
	key   string
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store, key: kv.KeyTrainingExamples}
}

// Load returns the persisted set; a missing key yields an empty slice.
func (r *Repository) Load() ([]Example, error) {
	raw, ok, err := r.store.Get(r.key)
	if err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}
	if !ok || raw == "" {
		return []Example{}, nil
	}
	var out []Example
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		return nil, fmt.Errorf("decode examples: %w", err)
	}
	if out == nil {
		out = []Example{}
	}
	return out, nil
}

// Save replaces the persisted set.
func (r *Repository) Save(examples []Example) error {
	if examples == nil {
		examples = []Example{}
	}
	raw, err := sonic.MarshalString(examples)
	if err != nil {
		return fmt.Errorf("encode examples: %w", err)
	}
	if err := r.store.Set(r.key, raw); err != nil {
		return fmt.Errorf("save examples: %w", err)
	}
	return nil
}

// Clear removes the persisted entry.
func (r *Repository) Clear() error {
	if err := r.store.Remove(r.key); err != nil {
		return fmt.Errorf("clear examples: %w", err)
	}
	return nil
}
