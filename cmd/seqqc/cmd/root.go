package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/seqqc/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:   "seqqc",
	Short: "Nucleotide sequence quality control",
	Long: `A batch quality-control tool for tables of nucleotide sequences.

Each run reads a tab-delimited table, removes records in a fixed order and
writes reports describing what was removed and what was kept:
  - ambiguous_N: sequences containing an uppercase N
  - short_length: sequences shorter than the minimum length
  - duplicate: repeated sequences, first occurrence kept`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Output overrides
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "",
		"Override output directory for reports and charts")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	OutputDir string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		OutputDir: outputDir,
	}
}

// positionalArgs accepts either no arguments (everything from the config
// file) or all four: input, sequence column, length column, min length.
func positionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 4 {
		return fmt.Errorf("%s expects 0 or 4 arguments (<input> <sequence_column> <length_column> <min_length>), got %d",
			cmd.Name(), len(args))
	}
	return nil
}

// loadConfig loads the config file, layers the positional arguments and
// flags on top and validates the result.
func loadConfig(args []string, o config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 4 {
		minLength, err := config.ParseMinLength(args[3])
		if err != nil {
			return nil, err
		}
		o.InputPath = args[0]
		o.SequenceColumn = args[1]
		o.LengthColumn = args[2]
		o.MinLength = &minLength
	}

	flags := GetCLIOverrides()
	o.LogLevel = flags.LogLevel
	o.LogFormat = flags.LogFormat
	o.OutputDir = flags.OutputDir
	cfg.ApplyOverrides(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
