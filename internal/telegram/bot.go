// Package telegram exposes the sales assistant as a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pixelforge/internal/chat"
	"pixelforge/internal/storage"
	"pixelforge/internal/training"
)

const resetCmd = "reset_ctx"

// Admin is the resolver surface driven by admin commands.
type Admin interface {
	Configure(credential string) bool
	IsConfigured() bool
	AddExample(ex training.Example) error
	ListExamples() []training.Example
	ClearExamples() error
}

// ReportFunc renders the daily interaction report for day.
type ReportFunc func(ctx context.Context, day time.Time) (string, error)

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	chat        *chat.Service
	admin       Admin
	report      ReportFunc
	adminUserID int64
	logger      *zap.Logger
	now         func() time.Time
}

type Option func(*Bot)

// WithAdmin enables admin commands for userID.
func WithAdmin(userID int64) Option {
	return func(b *Bot) { b.adminUserID = userID }
}

func WithReport(fn ReportFunc) Option {
	return func(b *Bot) { b.report = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Bot) { b.logger = l }
}

// New connects to the Bot API. apiEndpoint is a format string taking the token and
// the method name; empty means the public Telegram endpoint.
func New(botToken, apiEndpoint string, chatSvc *chat.Service, admin Admin, opts ...Option) (*Bot, error) {
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(botToken, apiEndpoint)
	if err != nil {
		return nil, err
	}
	b := newBot(api, chatSvc, admin, opts...)
	b.api = api
	b.logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))
	return b, nil
}

func newBot(s sender, chatSvc *chat.Service, admin Admin, opts ...Option) *Bot {
	b := &Bot{
		s:      s,
		chat:   chatSvc,
		admin:  admin,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("telegram bot is not connected")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func sessionID(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Text == "" {
		b.sendMessage(msg.Chat.ID, "I can only read text messages for now.")
		return
	}
	var username string
	if msg.From != nil {
		username = msg.From.UserName
	}
	b.logger.Debug("incoming message",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("username", username))

	ex, err := b.chat.Ask(ctx, storage.ChannelTelegram, sessionID(msg.Chat.ID), msg.Text)
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyMessage) {
			b.logger.Error("chat failed", zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, formatReply(ex))
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Start over", resetCmd),
		),
	)
	if _, err := b.s.Send(out); err != nil {
		b.logger.Error("failed to send message", zap.Error(err))
	}
}

func formatReply(ex chat.Exchange) string {
	text := ex.Reply.Text
	if m := ex.Reply.Metadata; m != nil && m.EstimatedPrice != "" {
		text += "\n\nEstimated price: " + m.EstimatedPrice
	}
	return text
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Data != resetCmd || cb.Message == nil {
		return
	}
	b.chat.Reset(sessionID(cb.Message.Chat.ID))
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
	b.sendMessage(cb.Message.Chat.ID, "Conversation cleared. How can I help?")
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Error(err))
	}
}
