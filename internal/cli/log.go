package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/isaac-sh/isaac/internal/logger"
	"github.com/isaac-sh/isaac/internal/tier"
)

var (
	logFilterStrategy string
	logFilterFailed   bool
	logLast           int
	logSummary        bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View the Isaac audit log with filtering and summary options.

Examples:
  isaac log                        # Show all entries
  isaac log --last 20              # Show last 20 entries
  isaac log --strategy tier        # Show only commands routed to the tier strategy
  isaac log --failed               # Show only failed or blocked commands
  isaac log --summary              # Show summary stats`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterStrategy, "strategy", "", "Filter by strategy name (tier, pipe, cd, config, ...)")
	logCmd.Flags().BoolVar(&logFilterFailed, "failed", false, "Show only failed entries")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	events, err := logger.ReadEvents(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No audit log entries found.")
		return nil
	}

	filtered := filterEvents(events, logFilterStrategy, logFilterFailed)

	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printSummary(out, events)
		return nil
	}

	printEvents(out, filtered)
	return nil
}

func filterEvents(events []logger.AuditEvent, strategy string, failedOnly bool) []logger.AuditEvent {
	if strategy == "" && !failedOnly {
		return events
	}

	var filtered []logger.AuditEvent
	for _, e := range events {
		if strategy != "" && !strings.EqualFold(e.Strategy, strategy) {
			continue
		}
		if failedOnly && e.Success {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func printEvents(w io.Writer, events []logger.AuditEvent) {
	for _, e := range events {
		ts := formatTimestamp(e.Timestamp)
		tierStr := ""
		if e.Tier != nil {
			tierStr = fmt.Sprintf(" [tier %s]", *e.Tier)
		}

		fmt.Fprintf(w, "%s %s %s%s\n", resultIcon(e), ts, e.Input, tierStr)
		fmt.Fprintf(w, "     Strategy: %s  Exit: %d  Took: %dms\n", e.Strategy, e.ExitCode, e.DurationMS)
		if e.Error != "" {
			fmt.Fprintf(w, "     Error: %s\n", e.Error)
		}
		fmt.Fprintln(w)
	}
}

func printSummary(w io.Writer, all []logger.AuditEvent) {
	byStrategy := map[string]int{}
	byTier := map[tier.Tier]int{}
	failed := 0
	var blocked []logger.AuditEvent

	for _, e := range all {
		byStrategy[e.Strategy]++
		if e.Tier != nil {
			byTier[*e.Tier]++
			if *e.Tier >= tier.Lockdown {
				blocked = append(blocked, e)
			}
		}
		if !e.Success {
			failed++
		}
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintln(w, "  Isaac Audit Summary")
	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintf(w, "  Total events:    %d\n", len(all))
	fmt.Fprintf(w, "  Failed:          %d\n", failed)

	strategies := make([]string, 0, len(byStrategy))
	for s := range byStrategy {
		strategies = append(strategies, s)
	}
	sort.Strings(strategies)
	fmt.Fprintln(w, "  By strategy:")
	for _, s := range strategies {
		fmt.Fprintf(w, "    %-18s %d\n", s, byStrategy[s])
	}

	fmt.Fprintln(w, "  By tier:")
	for _, t := range tier.All {
		fmt.Fprintf(w, "    %-4s %-13s %d\n", t, t.Name(), byTier[t])
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════")

	fmt.Fprintf(w, "  First event:     %s\n", formatTimestamp(all[0].Timestamp))
	fmt.Fprintf(w, "  Last event:      %s\n", formatTimestamp(all[len(all)-1].Timestamp))

	if len(blocked) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Blocked commands:")
		limit := len(blocked)
		if limit > 10 {
			limit = 10
		}
		for _, e := range blocked[len(blocked)-limit:] {
			fmt.Fprintf(w, "    %s %s\n", formatTimestamp(e.Timestamp), e.Input)
		}
	}

	fmt.Fprintln(w)
}

func resultIcon(e logger.AuditEvent) string {
	switch {
	case e.Tier != nil && *e.Tier >= tier.Lockdown:
		return "\xf0\x9f\x9b\x91" // stop sign
	case !e.Success:
		return "\xe2\x9d\x8c" // cross mark
	default:
		return "\xe2\x9c\x85" // check mark
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
