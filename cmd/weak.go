package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizreplay/internal/weakness"
)

var weakCmd = &cobra.Command{
	Use:   "weak",
	Short: "Inspect the questions you missed",
}

var weakListCmd = &cobra.Command{
	Use:   "list",
	Short: "List weak questions in the order they were missed",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		set, err := weakness.NewTracker(st.KV(), cfg.WeaknessKey).Load(cmd.Context())
		if err != nil {
			return err
		}
		if set.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No weak questions.")
			return nil
		}
		for i, text := range set.Items() {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s\n", i+1, text)
		}
		return nil
	},
}

var weakClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all weak questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := weakness.NewTracker(st.KV(), cfg.WeaknessKey).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Weak questions cleared.")
		return nil
	},
}

func init() {
	weakCmd.AddCommand(weakListCmd)
	weakCmd.AddCommand(weakClearCmd)
}
