package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bond-kaneko/go-calc-watcher/filenotify"
	"github.com/bond-kaneko/go-calc-watcher/log"
)

// newEventsCmd prints raw file notifications, which helps when watch mode
// does not pick up saves on a particular file system
func newEventsCmd(opts *rootOptions) *cobra.Command {
	var poll bool

	eventsCmd := &cobra.Command{
		Use:    "events DIR",
		Short:  "Print raw file change events for a directory",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, args[0])
			if err != nil {
				return err
			}

			fw, err := filenotify.New(poll || cfg.Poll, cfg.PollInterval.Duration)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer fw.Close()

			if err := fw.Add(args[0]); err != nil {
				return fmt.Errorf("failed to add directory to watcher: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s. Press Ctrl+C to exit.\n", args[0])
			return printEvents(ctx, cmd, fw)
		},
	}

	eventsCmd.Flags().BoolVar(&poll, "poll", false, "use the polling watcher")
	return eventsCmd
}

func printEvents(ctx context.Context, cmd *cobra.Command, fw filenotify.FileWatcher) error {
	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events():
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "%-6s %s\n", opName(event.Op), event.Name)
		case err, ok := <-fw.Errors():
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

// opName returns the most significant operation of an event
func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "CREATE"
	case op.Has(fsnotify.Write):
		return "WRITE"
	case op.Has(fsnotify.Remove):
		return "REMOVE"
	case op.Has(fsnotify.Rename):
		return "RENAME"
	case op.Has(fsnotify.Chmod):
		return "CHMOD"
	}
	return op.String()
}
