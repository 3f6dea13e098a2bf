// Package config provides configuration structures and loading for seqqc.
package config

// Config represents the complete application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Filter  FilterConfig  `yaml:"filter" mapstructure:"filter"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// InputConfig describes the tab-delimited table to read.
type InputConfig struct {
	Path           string `yaml:"path" mapstructure:"path"`                       // file path, or "-" for stdin
	SequenceColumn string `yaml:"sequence_column" mapstructure:"sequence_column"` // column holding sequence strings
	LengthColumn   string `yaml:"length_column" mapstructure:"length_column"`     // column holding integer lengths
}

// FilterConfig represents the quality-control thresholds.
type FilterConfig struct {
	// MinLength is the inclusive lower bound for retention. It is a pointer so
	// that an unset threshold can be told apart from an explicit 0.
	MinLength *int `yaml:"min_length" mapstructure:"min_length"`
}

// OutputConfig represents where and what the run writes.
type OutputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	Charts    bool   `yaml:"charts" mapstructure:"charts"`
	DPI       int    `yaml:"dpi" mapstructure:"dpi"`
	FastaPath string `yaml:"fasta_path" mapstructure:"fasta_path"` // optional export of retained sequences
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    ".",
			Charts: true,
			DPI:    300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// MinLengthValue returns the configured minimum length, or 0 when unset.
func (c *Config) MinLengthValue() int {
	if c.Filter.MinLength == nil {
		return 0
	}
	return *c.Filter.MinLength
}

// IntPtr returns a pointer to v. Handy for building overrides.
func IntPtr(v int) *int {
	return &v
}
