package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// newSyncCmd creates the sync command.
func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [kind...]",
		Short: "Synchronize configured sources into the index",
		Long: `Sync runs one reconciliation pass per configured (kind, instance)
pair. With no arguments every active kind is synced; otherwise only
the named kinds. A failing pair never aborts its siblings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			defer eng.close()

			report, err := eng.syncer.Sync(cmd.Context(), args...)
			if err != nil {
				return err
			}

			printReport(cmd, report)
			if !report.AllDone() {
				return fmt.Errorf("%d of %d sources failed", report.FailedCount(), len(report.Outcomes))
			}
			return nil
		},
	}
}

// printReport writes one line per attempted pair plus a totals line.
func printReport(cmd *cobra.Command, report *domain.SyncReport) {
	out := cmd.OutOrStdout()
	for _, o := range report.Outcomes {
		if o.Failed() {
			fmt.Fprintf(out, "%-14s %-20s failed: %v\n", o.Kind, o.Instance, o.Err)
			continue
		}
		fmt.Fprintf(out, "%-14s %-20s +%d ~%d -%d\n", o.Kind, o.Instance, o.Added, o.Updated, o.Deleted)
	}
	fmt.Fprintf(out, "%d writes across %d sources in %s\n",
		report.TotalWrites(), len(report.Outcomes),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}
