package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pixelforge/internal/training"
)

const helpText = `Hi! I am the PixelForge assistant. Ask me about websites, pricing, timelines or how to reach us.

Admin commands:
/key <credential> - set the AI credential ("demo" for the built-in assistant)
/train <question> => <answer> [| category] - add a training example
/examples - list training examples
/clear_examples - remove all training examples
/report [YYYY-MM-DD] - interaction report for a day`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.chat.Reset(sessionID(msg.Chat.ID))
		b.sendMessage(msg.Chat.ID, helpText)
		return
	case "key", "train", "examples", "clear_examples", "report":
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Try /help.")
		return
	}

	// admin-only commands
	if b.adminUserID == 0 || msg.From == nil || msg.From.ID != b.adminUserID {
		b.sendMessage(msg.Chat.ID, "This command is available to the administrator only.")
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "key":
		if args == "" {
			b.sendMessage(msg.Chat.ID, "Usage: /key <credential>")
			return
		}
		if !b.admin.Configure(args) {
			b.sendMessage(msg.Chat.ID, "Failed to save the credential.")
			return
		}
		b.sendMessage(msg.Chat.ID, "Credential saved. The assistant is configured.")
	case "train":
		ex, ok := parseExample(args)
		if !ok {
			b.sendMessage(msg.Chat.ID, trainUsage)
			return
		}
		if err := b.admin.AddExample(ex); err != nil {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Example kept for this session but not saved: %v", err))
			return
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Example added (%d total).", len(b.admin.ListExamples())))
	case "examples":
		b.sendMessage(msg.Chat.ID, formatExamples(b.admin.ListExamples()))
	case "clear_examples":
		if err := b.admin.ClearExamples(); err != nil {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Failed to clear examples: %v", err))
			return
		}
		b.sendMessage(msg.Chat.ID, "All training examples removed.")
	case "report":
		b.handleReportCommand(ctx, msg.Chat.ID, args)
	}
}

func (b *Bot) handleReportCommand(ctx context.Context, chatID int64, args string) {
	if b.report == nil {
		b.sendMessage(chatID, "Reports are not enabled.")
		return
	}
	day := b.now()
	if args != "" {
		d, err := time.Parse(time.DateOnly, args)
		if err != nil {
			b.sendMessage(chatID, "Usage: /report [YYYY-MM-DD]")
			return
		}
		day = d
	}
	summary, err := b.report(ctx, day)
	if err != nil {
		b.logger.Error("report generation failed", zap.Error(err))
		b.sendMessage(chatID, fmt.Sprintf("Failed to build the report: %v", err))
		return
	}
	b.sendMessage(chatID, summary)
}

const trainUsage = "Usage: /train <question> => <answer> [| category]"

// parseExample reads "<input> => <output> [| category]".
func parseExample(args string) (training.Example, bool) {
	input, rest, ok := strings.Cut(args, "=>")
	if !ok {
		return training.Example{}, false
	}
	output, category, _ := strings.Cut(rest, "|")
	ex := training.Example{
		Input:          strings.TrimSpace(input),
		ExpectedOutput: strings.TrimSpace(output),
		Category:       strings.TrimSpace(category),
	}
	if ex.Input == "" || ex.ExpectedOutput == "" {
		return training.Example{}, false
	}
	return ex, true
}

func formatExamples(examples []training.Example) string {
	if len(examples) == 0 {
		return "No training examples yet."
	}
	var bld strings.Builder
	bld.WriteString(fmt.Sprintf("Training examples (%d):\n", len(examples)))
	for i, ex := range examples {
		bld.WriteString(fmt.Sprintf("%d. %s => %s", i+1, ex.Input, ex.ExpectedOutput))
		if ex.Category != "" {
			bld.WriteString(" [" + ex.Category + "]")
		}
		bld.WriteString("\n")
	}
	return bld.String()
}
