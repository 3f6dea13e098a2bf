package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/seqqc/internal/config"
	"github.com/dbsmedya/seqqc/internal/logger"
	"github.com/dbsmedya/seqqc/internal/report"
	"github.com/dbsmedya/seqqc/internal/runner"
)

var (
	runFasta    string
	runNoCharts bool
)

var runCmd = &cobra.Command{
	Use:   "run [<input> <sequence_column> <length_column> <min_length>]",
	Short: "Run quality control on a sequence table",
	Long: `Run reads a tab-delimited table, applies the filters in order and writes
the reports into the output directory.

Steps:
  1. Remove sequences containing an uppercase N (ambiguous_N)
  2. Remove sequences shorter than min_length (short_length)
  3. Remove repeated sequences, keeping the first (duplicate)
  4. Write QC_removal_report.tsv and QC_metrics_report.csv
  5. Render the length, GC content and removal reason charts

Arguments may be omitted when the config file provides them. Compressed
inputs (.gz, .xz, .zst, .bz2) are read transparently and "-" reads stdin.

Example:
  seqqc run reads.tsv sequence length 100
  seqqc run reads.tsv.gz sequence length 100 -o results --fasta kept.fasta
  seqqc run --config qc.yaml`,
	Args: positionalArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFasta, "fasta", "",
		"Also export retained sequences as FASTA to this file in the output directory")
	runCmd.Flags().BoolVar(&runNoCharts, "no-charts", false,
		"Skip chart rendering")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args, config.Overrides{
		FastaPath: runFasta,
		NoCharts:  runNoCharts,
	})
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

	out, err := r.Execute()
	if err != nil {
		log.Errorw("QC run failed", "error", err)
		return err
	}

	report.PrintSummary(cmd.OutOrStdout(), out.Summary, out.Files)
	return nil
}
