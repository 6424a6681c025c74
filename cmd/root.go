package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bond-kaneko/go-calc-watcher/config"
	"github.com/bond-kaneko/go-calc-watcher/log"
	"github.com/bond-kaneko/go-calc-watcher/render"
)

// errFailed is returned when some evaluation failed; details were already printed
var errFailed = errors.New("some calculations failed")

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	logLevel   string
	precision  int
	noColor    bool
}

// NewRootCmd builds the calc command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "calc",
		Short: "Arithmetic calculator with live calc sheets",
		Long: `calc evaluates arithmetic expressions (numbers, + - * /, parentheses)
and runs calc sheets: text files of accumulator commands and expressions.
In watch mode sheets are re-run every time they are saved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is the nearest calc.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: error, warn, info, debug")
	rootCmd.PersistentFlags().IntVarP(&opts.precision, "precision", "p", -1, "decimals to print (-1 for shortest)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newEvalCmd(opts),
		newRunCmd(opts),
		newWatchCmd(opts),
		newReplCmd(opts),
		newEventsCmd(opts),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the configuration for target and applies flag overrides
func (o *rootOptions) loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(target)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("precision") {
		cfg.Precision = o.precision
	}
	if o.noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := setupLogging(cmd, cfg); err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Debug("using config file", "path", cfg.Path)
	}

	return cfg, nil
}

func setupLogging(cmd *cobra.Command, cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetOutput(cmd.ErrOrStderr())
	return log.SetLevel(level)
}

func newPrinter(cfg *config.Config) *render.Printer {
	return render.NewPrinter(cfg.Precision, cfg.Color)
}
