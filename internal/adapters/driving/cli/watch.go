package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/logger"
)

// DefaultDebounce is the quiet period after a change before re-syncing.
const DefaultDebounce = 2 * time.Second

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync, then re-sync watchable sources when they change",
		Long: `Watch runs an initial full sync, then subscribes to change
notifications from every source whose connector supports watching
(the local filesystem kinds). Changes are debounced and trigger a
re-sync of the affected kind. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			eng, err := buildEngine()
			if err != nil {
				return err
			}
			defer eng.close()

			report, err := eng.syncer.Sync(ctx)
			if err != nil {
				return err
			}
			printReport(cmd, report)

			changed, watching, err := startWatchers(ctx, eng)
			if err != nil {
				return err
			}
			if watching == 0 {
				return fmt.Errorf("no configured source supports watching")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %d sources...\n", watching)

			return watchLoop(ctx, cmd, eng, changed, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "Quiet period before re-syncing after a change")
	return cmd
}

// startWatchers builds a connector per configured instance and starts
// a watch on each one that supports it. Every change is funnelled into
// the returned channel as the originating kind label.
func startWatchers(ctx context.Context, eng *engine) (<-chan string, int, error) {
	changed := make(chan string, 64)
	watching := 0

	for _, kind := range eng.provider.ActiveKinds() {
		reg, err := eng.registry.Lookup(kind)
		if err != nil {
			return nil, 0, err
		}
		for _, name := range eng.provider.InstancesForKind(kind) {
			instance, err := eng.provider.Instance(name)
			if err != nil {
				return nil, 0, err
			}
			connector, err := reg.Build(instance)
			if err != nil {
				return nil, 0, err
			}
			watcher, ok := connector.(driven.Watcher)
			if !ok {
				connector.Close()
				continue
			}

			paths, err := watcher.Watch(ctx)
			if err != nil {
				connector.Close()
				return nil, 0, fmt.Errorf("watch %s/%s: %w", kind, name, err)
			}
			watching++

			go func(kind string, connector driven.Connector) {
				defer connector.Close()
				for range paths {
					select {
					case changed <- kind:
					default:
						// A pending trigger already covers this kind.
					}
				}
			}(kind, connector)
		}
	}

	return changed, watching, nil
}

// watchLoop debounces change notifications and re-syncs the affected
// kinds after each quiet period.
func watchLoop(ctx context.Context, cmd *cobra.Command, eng *engine, changed <-chan string, debounce time.Duration) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case kind := <-changed:
			pending[kind] = true
			timer.Reset(debounce)

		case <-timer.C:
			kinds := make([]string, 0, len(pending))
			for kind := range pending {
				kinds = append(kinds, kind)
			}
			clear(pending)

			report, err := eng.syncer.Sync(ctx, kinds...)
			if err != nil {
				logger.Warn("Re-sync failed: %v", err)
				continue
			}
			printReport(cmd, report)
		}
	}
}
