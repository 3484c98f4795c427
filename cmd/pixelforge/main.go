// Command pixelforge runs the PixelForge sales assistant: the website API, the
// optional Telegram bot and the admin tooling.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pixelforge/internal/app"
	"pixelforge/internal/config"
	"pixelforge/internal/logging"
)

var (
	envFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pixelforge",
	Short: "PixelForge sales assistant",
	Long: `PixelForge answers website visitors' questions about services, pricing,
timelines and contact details. It uses a remote text-generation model when a
credential is configured and falls back to built-in answers otherwise.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env") {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		var err error
		if cfg, err = config.New(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load")

	examplesCmd.AddCommand(examplesAddCmd, examplesListCmd, examplesClearCmd)
	rootCmd.AddCommand(serveCmd, askCmd, configureCmd, examplesCmd, reportCmd)
}

// withApp builds the application for one command and closes it afterwards.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close app", zap.Error(err))
		}
	}()
	return fn(a)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
