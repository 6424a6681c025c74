package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bond-kaneko/go-calc-watcher/calculator"
	"github.com/bond-kaneko/go-calc-watcher/sheet"
)

const replHelp = `Commands:
  add N | sub N | mul N | div N   update the result
  calc EXPR | = EXPR | EXPR       evaluate an expression into the result
  clear                           reset the result to 0
  result                          print the current result
  help                            show this help
  quit | exit                     leave`

func newReplCmd(opts *rootOptions) *cobra.Command {
	var quiet bool

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive calculator reading sheet lines from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, ".")
			if err != nil {
				return err
			}
			printer := newPrinter(cfg)
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			calc := calculator.NewCalculator()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				if !quiet {
					fmt.Fprint(out, "> ")
				}
				if !scanner.Scan() {
					break
				}
				if ctx.Err() != nil {
					return nil
				}

				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "quit", "exit":
					return nil
				case "help", "?":
					fmt.Fprintln(out, replHelp)
					continue
				case "result":
					printer.Value(out, calc.Result())
					continue
				}

				res, ok, err := sheet.Exec(calc, line)
				switch {
				case err != nil:
					printer.Error(out, err)
				case !ok:
					// blank line or comment
				case res.Err != nil:
					printer.Error(out, res.Err)
				default:
					printer.Value(out, res.Value)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		},
	}

	replCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print a prompt")
	return replCmd
}
