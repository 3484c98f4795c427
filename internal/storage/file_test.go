package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "interactions.jsonl")
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), SessionID: "s1", Channel: ChannelWeb, UserMessage: "hi", AssistantResponse: "hello", Confidence: 0.7, Source: "fallback"}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), SessionID: "s2", Channel: ChannelTelegram, UserMessage: "price?", AssistantResponse: "₹299", Intent: "pricing_inquiry", Confidence: 0.9, Source: "fallback"}
	require.NoError(t, rec.AppendInteraction(ev1))
	require.NoError(t, rec.AppendInteraction(ev2))

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, "s2", events[1].SessionID)
	assert.Equal(t, "pricing_inquiry", events[1].Intent)
	assert.True(t, ev2.Timestamp.Equal(events[1].Timestamp))

	// ensure file exists and non-empty
	st, err := os.Stat(p)
	require.NoError(t, err)
	assert.NotZero(t, st.Size())
}

func TestFileRecorder_SkipsCorruptLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "log.jsonl")
	require.NoError(t, os.WriteFile(p, []byte("{broken\n\n"), 0o644))

	rec, err := NewFileRecorder(p)
	require.NoError(t, err)
	require.NoError(t, rec.AppendInteraction(Event{SessionID: "ok"}))

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].SessionID)
}
