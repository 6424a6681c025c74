package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bond-kaneko/go-calc-watcher/calculator"
)

func newEvalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPRESSION...",
		Short: "Evaluate one or more expressions",
		Long: `Evaluate each expression in order and print its value.

Expressions may contain numbers, + - * /, parentheses and whitespace.
Evaluation stops at the first expression that fails.
Expressions that start with '-' go after "--" so they are not read as flags.`,
		Example: `  calc eval "2 + 3 * 4"
  calc eval "(2 + 3) * 4" "10 / 4"
  calc eval -- "-3 + 1"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, ".")
			if err != nil {
				return err
			}
			printer := newPrinter(cfg)
			out := cmd.OutOrStdout()

			calc := calculator.NewCalculator()
			for _, expression := range args {
				value, err := calc.Calculate(expression)
				if err != nil {
					printer.Error(cmd.ErrOrStderr(), err)
					return errFailed
				}
				printer.Value(out, value)
			}
			return nil
		},
	}
}
