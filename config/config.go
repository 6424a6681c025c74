package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bond-kaneko/go-calc-watcher/filenotify"
	"github.com/bond-kaneko/go-calc-watcher/log"
)

// FileName is the name of the configuration file searched for
const FileName = "calc.toml"

// Duration is a time.Duration written as a string in TOML, e.g. "500ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config represents the complete configuration for the calculator CLI
type Config struct {
	// Debounce is the delay between a change and re-running sheets
	Debounce Duration `toml:"debounce"`
	// Filter is the glob a file's base name must match to be treated as a sheet
	Filter string `toml:"filter"`
	// Poll forces the polling watcher
	Poll         bool     `toml:"poll"`
	PollInterval Duration `toml:"poll_interval"`
	// Precision is the number of decimals printed, -1 for shortest
	Precision int    `toml:"precision"`
	LogLevel  string `toml:"log_level"`
	// Bell rings the terminal bell when a watched sheet has failures
	Bell  bool `toml:"bell"`
	Color bool `toml:"color"`

	// Path is the file the configuration was read from, empty for defaults
	Path string `toml:"-"`
}

// Default returns the configuration used when no calc.toml exists
func Default() *Config {
	return &Config{
		Debounce:     Duration{500 * time.Millisecond},
		Filter:       "*.calc",
		PollInterval: Duration{filenotify.DefaultPollInterval},
		Precision:    -1,
		LogLevel:     string(log.LevelInfo),
		Bell:         true,
		Color:        true,
	}
}

// Load finds calc.toml starting at targetPath and walking up, and decodes it
// over the defaults. A missing file is not an error.
func Load(targetPath string) (*Config, error) {
	configPath, err := findConfigFile(targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile decodes a specific configuration file over the defaults
func LoadFile(path string) (*Config, error) {
	configData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	meta, err := toml.Decode(string(configData), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.Path = path
	return cfg, nil
}

// findConfigFile searches for calc.toml starting from the given path
func findConfigFile(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	// If startPath is a file, start from its directory
	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	currentDir := absPath
	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("%s not found: %w", FileName, os.ErrNotExist)
}

// Validate checks that all fields hold usable values
func (c *Config) Validate() error {
	var problems []string

	if c.Debounce.Duration < 0 {
		problems = append(problems, "debounce must not be negative")
	}
	if c.PollInterval.Duration <= 0 {
		problems = append(problems, "poll_interval must be positive")
	}
	if c.Filter == "" {
		problems = append(problems, "filter is required")
	} else if _, err := filepath.Match(c.Filter, ""); err != nil {
		problems = append(problems, fmt.Sprintf("invalid filter pattern %q", c.Filter))
	}
	if c.Precision < -1 || c.Precision > 17 {
		problems = append(problems, "precision must be between -1 and 17")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// MatchFilter reports whether path's base name matches the sheet filter
func (c *Config) MatchFilter(path string) bool {
	matched, err := filepath.Match(c.Filter, filepath.Base(path))
	return err == nil && matched
}
