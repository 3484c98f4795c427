package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pixelforge/internal/app"
	"pixelforge/internal/telegram"
)

var noTelegram bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the Telegram bot and the report scheduler",
	Long: `Starts the website API on HTTP_ADDR. When TELEGRAM_BOT_TOKEN is set the
Telegram bot runs alongside it. The daily report runs on REPORT_SCHEDULE.
Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return withApp(ctx, func(a *app.App) error { return serve(ctx, a) })
	},
}

func init() {
	serveCmd.Flags().BoolVar(&noTelegram, "no-telegram", false, "do not start the Telegram bot")
}

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, a *app.App) error {
	var bot *telegram.Bot
	if !noTelegram {
		var err error
		bot, err = a.TelegramBot()
		switch {
		case errors.Is(err, app.ErrNoTelegramToken):
			logger.Info("telegram bot disabled")
		case err != nil:
			return err
		}
	}

	sched := a.Scheduler()
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           a.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if bot != nil {
		g.Go(func() error { return bot.Start(ctx) })
	}

	return g.Wait()
}
