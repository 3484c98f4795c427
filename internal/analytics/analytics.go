package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"pixelforge/internal/storage"
)

// DailyStats summarises one UTC day of assistant traffic.
type DailyStats struct {
	Date              string         `json:"date"`
	TotalMessages     int            `json:"total_messages"`
	UniqueSessions    int            `json:"unique_sessions"`
	RemoteReplies     int            `json:"remote_replies"`
	FallbackReplies   int            `json:"fallback_replies"`
	RemoteFailures    int            `json:"remote_failures"`
	AverageConfidence float64        `json:"average_confidence"`
	ByIntent          map[string]int `json:"by_intent"`
	BySource          map[string]int `json:"by_source"`
	ByChannel         map[string]int `json:"by_channel"`
}

const (
	sourceRemote   = "remote"
	sourceFallback = "fallback"
	outcomeOK      = "ok"
	noIntent       = "none"
)

// AnalyzeDailyLogs aggregates events whose timestamp falls on targetDate,
// skipping events without a user message.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:      startOfDay.Format("2006-01-02"),
		ByIntent:  make(map[string]int),
		BySource:  make(map[string]int),
		ByChannel: make(map[string]int),
	}

	sessions := make(map[string]struct{})
	var confidenceSum float64

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}

		stats.TotalMessages++
		sessions[event.SessionID] = struct{}{}
		confidenceSum += event.Confidence

		intent := event.Intent
		if intent == "" {
			intent = noIntent
		}
		stats.ByIntent[intent]++
		stats.BySource[event.Source]++
		stats.ByChannel[event.Channel]++

		switch event.Source {
		case sourceRemote:
			stats.RemoteReplies++
		case sourceFallback:
			stats.FallbackReplies++
		}
		if event.Outcome != "" && event.Outcome != outcomeOK {
			stats.RemoteFailures++
		}
	}

	stats.UniqueSessions = len(sessions)
	if stats.TotalMessages > 0 {
		stats.AverageConfidence = confidenceSum / float64(stats.TotalMessages)
	}
	return stats
}

// GenerateReportSummary renders a plain-text report.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PixelForge assistant usage for %s:\n\n", ds.Date)
	fmt.Fprintf(&b, "- Messages: %d\n", ds.TotalMessages)
	fmt.Fprintf(&b, "- Unique sessions: %d\n", ds.UniqueSessions)
	fmt.Fprintf(&b, "- Remote replies: %d\n", ds.RemoteReplies)
	fmt.Fprintf(&b, "- Fallback replies: %d\n", ds.FallbackReplies)
	fmt.Fprintf(&b, "- Remote failures: %d\n", ds.RemoteFailures)
	fmt.Fprintf(&b, "- Average confidence: %.2f\n", ds.AverageConfidence)

	writeCounts(&b, "Intents", ds.ByIntent)
	writeCounts(&b, "Channels", ds.ByChannel)
	return b.String()
}

func writeCounts(b *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// highest count first, then by name
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %d\n", k, counts[k])
	}
}

// ToJSON serialises the stats for detailed analysis.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
