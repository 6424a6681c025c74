package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bond-kaneko/go-calc-watcher/log"
	"github.com/bond-kaneko/go-calc-watcher/watcher"
)

type watchOptions struct {
	delay  time.Duration
	filter string
	poll   bool
	noBell bool
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	wopts := &watchOptions{}

	watchCmd := &cobra.Command{
		Use:   "watch [PATH]",
		Short: "Watch calc sheets and re-run them when they change",
		Long: `Watch monitors a calc sheet, or every sheet under a directory, and
re-runs the sheets that changed each time they are saved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			cfg, err := opts.loadConfig(cmd, target)
			if err != nil {
				return err
			}

			// Command line flags win over calc.toml
			flags := cmd.Flags()
			if flags.Changed("delay") {
				cfg.Debounce.Duration = wopts.delay
			}
			if flags.Changed("filter") {
				cfg.Filter = wopts.filter
			}
			if wopts.poll {
				cfg.Poll = true
			}
			if wopts.noBell {
				cfg.Bell = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sheetWatcher, err := watcher.NewSheetWatcher(target, watcher.Options{
				DebounceDelay: cfg.Debounce.Duration,
				FileFilter:    cfg.MatchFilter,
				Poll:          cfg.Poll,
				PollInterval:  cfg.PollInterval.Duration,
				Printer:       newPrinter(cfg),
				Bell:          cfg.Bell,
			})
			if err != nil {
				return fmt.Errorf("error creating sheet watcher: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Set up signal handling for graceful shutdown
			signalChan := make(chan os.Signal, 1)
			signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(signalChan)

			go func() {
				select {
				case <-signalChan:
					log.Info("Shutting down...")
					cancel()
				case <-ctx.Done():
				}
			}()

			return sheetWatcher.Watch(ctx)
		},
	}

	watchCmd.Flags().DurationVarP(&wopts.delay, "delay", "d", 500*time.Millisecond, "debounce delay for re-running sheets after changes")
	watchCmd.Flags().StringVarP(&wopts.filter, "filter", "f", "*.calc", `sheet file pattern (e.g. "*.calc")`)
	watchCmd.Flags().BoolVar(&wopts.poll, "poll", false, "poll for changes instead of using file system events")
	watchCmd.Flags().BoolVar(&wopts.noBell, "no-bell", false, "do not ring the terminal bell on failures")

	return watchCmd
}
