package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pixelforge/internal/app"
	"pixelforge/internal/storage"
	"pixelforge/internal/training"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the assistant a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			ex, err := a.Chat.Ask(cmd.Context(), storage.ChannelCLI, "", strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ex.Reply.Text)
			if m := ex.Reply.Metadata; m != nil {
				fmt.Fprintf(out, "\n[%s, confidence %.2f, via %s", m.DetectedIntent, ex.Reply.Confidence, ex.Resolution.Strategy)
				if m.EstimatedPrice != "" {
					fmt.Fprintf(out, ", estimate %s", m.EstimatedPrice)
				}
				fmt.Fprintln(out, "]")
			}
			return nil
		})
	},
}

var configureCmd = &cobra.Command{
	Use:   "configure <credential>",
	Short: "Store the AI credential",
	Long: `Persists the credential used for remote generation. "demo" and "test"
enable the built-in assistant without calling a remote model.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			if !a.Resolver.Configure(strings.TrimSpace(args[0])) {
				return fmt.Errorf("failed to store credential")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Assistant configured.")
			return nil
		})
	},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Manage training examples",
}

var exampleCategory string

var examplesAddCmd = &cobra.Command{
	Use:   "add <input> <expected-output>",
	Short: "Add a training example",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := training.Example{
			Input:          strings.TrimSpace(args[0]),
			ExpectedOutput: strings.TrimSpace(args[1]),
			Category:       strings.TrimSpace(exampleCategory),
		}
		if ex.Input == "" || ex.ExpectedOutput == "" {
			return fmt.Errorf("input and expected output must not be empty")
		}
		return withApp(cmd.Context(), func(a *app.App) error {
			if err := a.Resolver.AddExample(ex); err != nil {
				return fmt.Errorf("save example: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example added (%d total).\n", len(a.Resolver.ListExamples()))
			return nil
		})
	},
}

var examplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List training examples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			examples := a.Resolver.ListExamples()
			out := cmd.OutOrStdout()
			if len(examples) == 0 {
				fmt.Fprintln(out, "No training examples.")
				return nil
			}
			for i, ex := range examples {
				fmt.Fprintf(out, "%d. %s => %s", i+1, ex.Input, ex.ExpectedOutput)
				if ex.Category != "" {
					fmt.Fprintf(out, " [%s]", ex.Category)
				}
				fmt.Fprintln(out)
			}
			return nil
		})
	},
}

var examplesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all training examples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			if err := a.Resolver.ClearExamples(); err != nil {
				return fmt.Errorf("clear examples: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Training examples cleared.")
			return nil
		})
	},
}

var reportDate string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the interaction report for a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now().UTC()
		if reportDate != "" {
			d, err := time.Parse(time.DateOnly, reportDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", reportDate)
			}
			day = d
		}
		return withApp(cmd.Context(), func(a *app.App) error {
			summary, err := a.Report(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), summary)
			return nil
		})
	},
}

func init() {
	examplesAddCmd.Flags().StringVar(&exampleCategory, "category", "", "optional example category")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "day to report (YYYY-MM-DD), defaults to today UTC")
}
