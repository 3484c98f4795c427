// Package kv provides the string-keyed store that holds the assistant credential,
// the training examples and the widget flags. Every backend satisfies Store.
package kv

// Keys shared with the website front end.
const (
	KeyCredential       = "pixelforge_ai_key"
	KeyTrainingExamples = "pixelforge_training_examples"
	KeySeenPrompt       = "has_seen_ai_prompt"
)

// Store is a minimal get/set/remove key-value adapter.
// Get reports ok=false for a missing key. Remove of a missing key is not an error.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Closer is implemented by backends holding external resources.
type Closer interface {
	Close() error
}

// Close releases s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
