// Package chat ties a resolver to conversation history and the interaction log.
// The web API, the Telegram bot and the CLI all talk through a Service.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pixelforge/internal/assistant"
	"pixelforge/internal/history"
	"pixelforge/internal/storage"
)

var ErrEmptyMessage = errors.New("message must not be empty")

// Resolver is the subset of assistant.Resolver the chat flow needs.
type Resolver interface {
	ResolveDetailed(ctx context.Context, text string) assistant.Resolution
}

type Service struct {
	resolver Resolver
	history  *history.Manager
	recorder storage.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(resolver Resolver, hist *history.Manager, rec storage.Recorder, logger *zap.Logger) *Service {
	if rec == nil {
		rec = storage.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver: resolver,
		history:  hist,
		recorder: rec,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Exchange is one user message and the assistant's answer.
type Exchange struct {
	SessionID  string               `json:"sessionId"`
	Question   history.Message      `json:"question"`
	Answer     history.Message      `json:"answer"`
	Reply      assistant.Reply      `json:"reply"`
	Resolution assistant.Resolution `json:"-"`
}

// Ask resolves text within a session. An empty sessionID starts a new session.
func (s *Service) Ask(ctx context.Context, channel, sessionID, text string) (Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Exchange{}, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	question := s.history.AppendUser(sessionID, text)
	res := s.resolver.ResolveDetailed(ctx, text)
	answer := s.history.AppendAssistant(sessionID, res.Reply.Text)

	ev := storage.Event{
		Timestamp:         s.now(),
		SessionID:         sessionID,
		Channel:           channel,
		UserMessage:       text,
		AssistantResponse: res.Reply.Text,
		Intent:            res.Reply.Metadata.Intent(),
		Confidence:        res.Reply.Confidence,
		Source:            string(res.Strategy),
		Rule:              res.Rule,
	}
	if res.Attempted {
		ev.Outcome = res.Outcome.Kind.String()
	}
	if err := s.recorder.AppendInteraction(ev); err != nil {
		s.logger.Warn("failed to record interaction", zap.Error(err))
	}

	s.logger.Info("chat exchange",
		zap.String("channel", channel),
		zap.String("session", sessionID),
		zap.String("strategy", string(res.Strategy)),
		zap.String("intent", ev.Intent),
		zap.Float64("confidence", res.Reply.Confidence))

	return Exchange{
		SessionID:  sessionID,
		Question:   question,
		Answer:     answer,
		Reply:      res.Reply,
		Resolution: res,
	}, nil
}

func (s *Service) History(sessionID string) []history.Message {
	return s.history.Get(sessionID)
}

func (s *Service) Reset(sessionID string) {
	s.history.Reset(sessionID)
}
