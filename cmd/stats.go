package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/store"
	"github.com/abhisek/quizreplay/internal/weakness"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		sessions, err := st.EventRepo().QuerySessionEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		weak, err := weakness.NewTracker(st.KV(), cfg.WeaknessKey).Load(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No quizzes recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSCORE\tGRADE\tTIME\tWEAK\tFILES")
		for _, s := range sessions {
			files := strings.Join(s.Files, ", ")
			if s.Retry {
				files += " (retry)"
			}
			fmt.Fprintf(w, "%s\t%d/%d %d%%\t%s\t%s\t+%d -%d\t%s\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				s.Correct, s.Total, s.Percentage,
				s.Grade,
				session.FormatDuration(time.Duration(s.DurationSecs)*time.Second),
				s.WeakAdded, s.WeakCleared,
				files,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d quiz(zes), average %d%%, %d weak question(s) pending\n",
			len(sessions), averagePercentage(sessions), weak.Len())
		return nil
	},
}

func averagePercentage(sessions []store.SessionEvent) int {
	var correct, total int
	for _, s := range sessions {
		correct += s.Correct
		total += s.Total
	}
	return session.Percentage(correct, total)
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
