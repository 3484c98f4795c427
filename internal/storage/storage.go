package storage

import "time"

// Event is a single resolved exchange between a visitor and the assistant.
// Events are appended in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id"`
	Channel           string    `json:"channel"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	Intent            string    `json:"intent,omitempty"`
	Confidence        float64   `json:"confidence"`
	Source            string    `json:"source"`
	Rule              string    `json:"rule,omitempty"`
	Outcome           string    `json:"outcome,omitempty"`
}

// Channels an event can come from.
const (
	ChannelWeb      = "web"
	ChannelTelegram = "telegram"
	ChannelCLI      = "cli"
)

// Recorder abstracts persistence of interaction events.
// LoadInteractions should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}

// Nop discards events.
type Nop struct{}

func (Nop) AppendInteraction(Event) error      { return nil }
func (Nop) LoadInteractions() ([]Event, error) { return nil, nil }
