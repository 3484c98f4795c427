// Package app wires configuration into the running components shared by the
// binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pixelforge/internal/analytics"
	"pixelforge/internal/assistant"
	"pixelforge/internal/chat"
	"pixelforge/internal/config"
	"pixelforge/internal/history"
	"pixelforge/internal/httpapi"
	"pixelforge/internal/knowledge"
	"pixelforge/internal/kv"
	"pixelforge/internal/llm"
	"pixelforge/internal/scheduler"
	"pixelforge/internal/storage"
	"pixelforge/internal/telegram"
)

const historyLimit = 50

type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       kv.Store
	Credentials kv.Store
	Catalog     *knowledge.Catalog
	Resolver    *assistant.Resolver
	Recorder    storage.Recorder
	Chat        *chat.Service
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := kv.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, Store: store}

	a.Credentials, err = kv.OpenCredentials(cfg, store)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	a.Catalog = knowledge.Default()
	if cfg.KnowledgePath != "" {
		if a.Catalog, err = knowledge.Load(cfg.KnowledgePath); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	gen, err := llm.NewGenerator(cfg, nil)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init inference provider: %w", err)
	}

	a.Resolver = assistant.New(store, gen,
		assistant.WithCredentialStore(a.Credentials),
		assistant.WithCatalog(a.Catalog),
		assistant.WithLogger(logger.Named("assistant")))

	a.Recorder = storage.Nop{}
	if cfg.InteractionLogPath != "" {
		rec, err := storage.NewFileRecorder(cfg.InteractionLogPath)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Recorder = rec
	}

	a.Chat = chat.NewService(a.Resolver, history.NewManager(historyLimit), a.Recorder, logger.Named("chat"))

	logger.Info("app initialized",
		zap.String("kv_backend", string(cfg.KVBackend)),
		zap.String("credential_backend", string(cfg.CredentialBackend)),
		zap.String("provider", string(cfg.InferenceProvider)),
		zap.Bool("configured", a.Resolver.IsConfigured()))
	return a, nil
}

// Report renders the interaction summary for day.
func (a *App) Report(_ context.Context, day time.Time) (string, error) {
	events, err := a.Recorder.LoadInteractions()
	if err != nil {
		return "", fmt.Errorf("load interactions: %w", err)
	}
	return analytics.AnalyzeDailyLogs(events, day.UTC()).GenerateReportSummary(), nil
}

// DailyReport logs today's summary. It is the scheduler job.
func (a *App) DailyReport(ctx context.Context) error {
	summary, err := a.Report(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	a.Logger.Info("daily report", zap.String("summary", summary))
	return nil
}

func (a *App) HTTPHandler() http.Handler {
	h := httpapi.NewHandler(a.Chat, a.Resolver, a.Store, a.Logger.Named("http"))
	return h.Router(httpapi.Options{
		AllowedOrigins: a.Config.AllowedOrigins,
		AdminToken:     a.Config.AdminToken,
	})
}

func (a *App) Scheduler() *scheduler.Scheduler {
	s := scheduler.New(a.Config.ReportSchedule, a.Logger.Named("scheduler"))
	s.SetReportFunction(a.DailyReport)
	return s
}

var ErrNoTelegramToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

func (a *App) TelegramBot() (*telegram.Bot, error) {
	if a.Config.TelegramBotToken == "" {
		return nil, ErrNoTelegramToken
	}
	return telegram.New(a.Config.TelegramBotToken, a.Config.TelegramAPIEndpoint, a.Chat, a.Resolver,
		telegram.WithAdmin(a.Config.AdminUserID),
		telegram.WithReport(a.Report),
		telegram.WithLogger(a.Logger.Named("telegram")))
}

func (a *App) Close() error {
	var errs []error
	if a.Credentials != nil && a.Credentials != a.Store {
		errs = append(errs, kv.Close(a.Credentials))
	}
	if a.Store != nil {
		errs = append(errs, kv.Close(a.Store))
	}
	return errors.Join(errs...)
}
