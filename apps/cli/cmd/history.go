package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/pet/packages/history"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded calls",
	Long: `Show the most recent calls recorded with --history (or the
"history" config key), newest first.

Examples:
  pet history --history sqlite:./pet.db
  pet history -n 50 -o json`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", getEnvInt("PET_HISTORY_LIMIT", 20), "Number of calls to show (env: PET_HISTORY_LIMIT)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.History == "" {
		return withExitCode(ExitConfigError, fmt.Errorf("no history database configured (use --history or the history config key)"))
	}

	store, err := history.Open(cmd.Context(), cfg.History)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return withExitCode(ExitLocalFailure, err)
	}

	out := cmd.OutOrStdout()

	if strings.EqualFold(cfg.Output, "json") {
		type jsonEntry struct {
			ID         string  `json:"id"`
			StartedAt  string  `json:"startedAt"`
			Method     string  `json:"method"`
			URL        string  `json:"url"`
			Status     int     `json:"status"`
			Remote     bool    `json:"remote"`
			Message    string  `json:"message"`
			BodyKind   string  `json:"bodyKind"`
			DurationMs float64 `json:"durationMs"`
		}
		list := make([]jsonEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, jsonEntry{
				ID:         e.ID,
				StartedAt:  e.StartedAt.Format(time.RFC3339),
				Method:     e.Method,
				URL:        e.URL,
				Status:     e.Status,
				Remote:     e.Remote,
				Message:    e.Message,
				BodyKind:   e.BodyKind,
				DurationMs: float64(e.Duration.Microseconds()) / 1000,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No calls recorded yet.")
		return nil
	}

	if cfg.GetNoColor() {
		color.NoColor = true
	}
	success := color.New(color.FgGreen).SprintFunc()
	failure := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, e := range entries {
		status := fmt.Sprintf("%d", e.Status)
		switch {
		case e.Status >= 200 && e.Status < 300:
			status = success(status)
		default:
			status = failure(status)
		}
		fmt.Fprintf(out, "%s  %-6s %s %s %s\n",
			dim(e.StartedAt.Local().Format("2006-01-02 15:04:05")),
			e.Method,
			status,
			e.URL,
			dim(fmt.Sprintf("(%dms)", e.Duration.Milliseconds())),
		)
	}
	return nil
}
