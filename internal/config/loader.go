package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// An empty path yields the defaults; a named file that cannot be read is an error.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Overrides holds values supplied on the command line. Zero values leave
// the loaded configuration untouched.
type Overrides struct {
	InputPath      string
	SequenceColumn string
	LengthColumn   string
	MinLength      *int
	OutputDir      string
	FastaPath      string
	NoCharts       bool
	LogLevel       string
	LogFormat      string
}

// ApplyOverrides applies CLI overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.InputPath != "" {
		c.Input.Path = o.InputPath
	}
	if o.SequenceColumn != "" {
		c.Input.SequenceColumn = o.SequenceColumn
	}
	if o.LengthColumn != "" {
		c.Input.LengthColumn = o.LengthColumn
	}
	if o.MinLength != nil {
		c.Filter.MinLength = IntPtr(*o.MinLength)
	}
	if o.OutputDir != "" {
		c.Output.Dir = o.OutputDir
	}
	if o.FastaPath != "" {
		c.Output.FastaPath = o.FastaPath
	}
	if o.NoCharts {
		c.Output.Charts = false
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
}

// ParseMinLength parses the minimum-length argument. A non-integer value is a
// configuration error naming the argument.
func ParseMinLength(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ValidationError{
			Field:   "filter.min_length",
			Message: fmt.Sprintf("%q is not an integer", s),
		}
	}
	return n, nil
}
