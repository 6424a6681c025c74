package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bond-kaneko/go-calc-watcher/calculator"
	"github.com/bond-kaneko/go-calc-watcher/log"
	"github.com/bond-kaneko/go-calc-watcher/sheet"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run SHEET...",
		Short: "Run calc sheets once and print their reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, args[0])
			if err != nil {
				return err
			}
			printer := newPrinter(cfg)
			out := cmd.OutOrStdout()

			failed := 0
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}

				s, err := sheet.Load(path)
				if err != nil {
					printer.Error(cmd.ErrOrStderr(), err)
					failed++
					continue
				}

				// Every sheet starts from a fresh calculator
				report := s.Run(calculator.NewCalculator())
				printer.Report(out, report)
				if !report.OK() {
					logFailedLines(path, report)
					failed++
				}
			}

			if failed > 0 {
				return errFailed
			}
			return nil
		},
	}
}

// logFailedLines writes one debug record per failing line
func logFailedLines(path string, report *sheet.Report) {
	if !log.IsDebugEnabled() {
		return
	}
	for _, res := range report.Results {
		if res.Err != nil {
			log.Debug("line failed", "path", path, "line", res.Instruction.Line, "error", res.Err)
		}
	}
}
