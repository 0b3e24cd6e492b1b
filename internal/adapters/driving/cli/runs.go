package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// newRunsCmd creates the runs command.
func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			defer eng.close()

			runs, err := eng.runs.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			for _, run := range runs {
				status := "ok"
				if run.Failed > 0 {
					status = fmt.Sprintf("%d failed", run.Failed)
				}
				fmt.Fprintf(out, "%s  %s  %d sources  %d writes  %s\n",
					run.RunID,
					run.StartedAt.Format(time.RFC3339),
					run.Pairs, run.Writes, status)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}
