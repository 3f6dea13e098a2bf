package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/seqqc/internal/config"
	"github.com/dbsmedya/seqqc/internal/logger"
	"github.com/dbsmedya/seqqc/internal/runner"
)

var validateCmd = &cobra.Command{
	Use:   "validate [<input> <sequence_column> <length_column> <min_length>]",
	Short: "Validate configuration and input without writing reports",
	Long: `Validate resolves the configuration exactly as run does, then reads the
input table and applies the filters. Nothing is written.

Checks performed:
  - Configuration required fields and value ranges
  - Input readable and non-empty
  - Sequence and length columns present in the header
  - Every row has a sequence and an integer length

Example:
  seqqc validate reads.tsv sequence length 100
  seqqc validate --config qc.yaml`,
	Args: positionalArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args, config.Overrides{})
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	r, err := runner.New(cfg, log)
	if err != nil {
		return err
	}

	res, err := r.Check()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n=== Validation ===\n")
	fmt.Fprintf(w, "Input: %s\n", cfg.Input.Path)
	fmt.Fprintf(w, "Rows: %d\n", res.Original)
	fmt.Fprintf(w, "Would keep: %d\n", res.Kept.Len())
	fmt.Fprintf(w, "Would remove: %d\n", res.RemovedCount())
	fmt.Fprintf(w, "\nConfiguration is valid.\n")
	return nil
}
