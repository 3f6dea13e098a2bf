package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/seqqc/internal/chart"
	"github.com/dbsmedya/seqqc/internal/config"
	"github.com/dbsmedya/seqqc/internal/logger"
	"github.com/dbsmedya/seqqc/internal/report"
	"github.com/dbsmedya/seqqc/internal/table"
)

const scenarioA = "id\tsequence\tlength\n" +
	"r1\tACGT\t4\n" +
	"r2\tACGN\t4\n" +
	"r3\tAC\t2\n" +
	"r4\tACGT\t4\n"

func setup(t *testing.T, input string, minLength int) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "reads.tsv")
	require.NoError(t, os.WriteFile(path, []byte(input), 0644))

	cfg := config.DefaultConfig()
	cfg.Input = config.InputConfig{
		Path:           path,
		SequenceColumn: "sequence",
		LengthColumn:   "length",
	}
	cfg.Filter.MinLength = config.IntPtr(minLength)
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.Charts = false
	cfg.Output.DPI = 72
	require.NoError(t, cfg.Validate())
	return cfg
}

func newRunner(t *testing.T, cfg *config.Config) *Runner {
	t.Helper()
	r, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	return r
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNew(t *testing.T) {
	_, err := New(nil, logger.NewNop())
	assert.Error(t, err)

	cfg := config.DefaultConfig()
	_, err = New(cfg, logger.NewNop())
	assert.Error(t, err, "min_length must be set")

	cfg.Filter.MinLength = config.IntPtr(0)
	r, err := New(cfg, nil)
	require.NoError(t, err)
	_, err = uuid.Parse(r.RunID())
	assert.NoError(t, err, "run ID should be a UUID")
}

func TestExecuteScenarioA(t *testing.T) {
	cfg := setup(t, scenarioA, 3)

	out, err := newRunner(t, cfg).Execute()
	require.NoError(t, err)

	assert.Equal(t, 4, out.Result.Original)
	assert.Equal(t, 1, out.Result.Kept.Len())
	assert.Equal(t, []string{
		filepath.Join(cfg.Output.Dir, report.RemovalReportFile),
		filepath.Join(cfg.Output.Dir, report.MetricsReportFile),
	}, out.Files)

	assert.Equal(t,
		"sequence\tlength\treason_removed\n"+
			"ACGN\t4\tambiguous_N\n"+
			"AC\t2\tshort_length\n"+
			"ACGT\t4\tduplicate\n",
		readFile(t, out.Files[0]))

	metricsReport := readFile(t, out.Files[1])
	assert.True(t, strings.HasPrefix(metricsReport, "metric,value\nmin_length,4\n"))
	assert.Contains(t, metricsReport, "removed_rows,3\nfraction_rows,75\n")

	entries, err := os.ReadDir(cfg.Output.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "staging directory must not remain")
}

func TestExecuteWithCharts(t *testing.T) {
	cfg := setup(t, scenarioA, 3)
	cfg.Output.Charts = true

	out, err := newRunner(t, cfg).Execute()
	require.NoError(t, err)

	assert.Empty(t, out.Skipped)
	for _, name := range []string{chart.LengthHistogramFile, chart.GCHistogramFile, chart.RemovalPieFile} {
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, name))
	}
	assert.Len(t, out.Files, 5)
}

func TestExecuteSkipsPieWithoutRemovals(t *testing.T) {
	cfg := setup(t, "sequence\tlength\nACGT\t4\nGGCC\t4\n", 1)
	cfg.Output.Charts = true

	out, err := newRunner(t, cfg).Execute()
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, chart.RemovalPieFile))
	assert.FileExists(t, filepath.Join(cfg.Output.Dir, chart.GCHistogramFile))
	require.Len(t, out.Skipped, 1)
	assert.Contains(t, out.Skipped[0], chart.RemovalPieFile)
}

func TestExecuteSkipsHistogramsWhenNothingKept(t *testing.T) {
	cfg := setup(t, "sequence\tlength\nNNNN\t4\nAC\t2\n", 3)
	cfg.Output.Charts = true

	out, err := newRunner(t, cfg).Execute()
	require.NoError(t, err)

	assert.Equal(t, 0, out.Result.Kept.Len())
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, chart.LengthHistogramFile))
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, chart.GCHistogramFile))
	assert.FileExists(t, filepath.Join(cfg.Output.Dir, chart.RemovalPieFile))
	assert.Len(t, out.Skipped, 2)

	assert.Contains(t, readFile(t, filepath.Join(cfg.Output.Dir, report.MetricsReportFile)),
		"min_length,NaN\n")
}

func TestExecuteFasta(t *testing.T) {
	cfg := setup(t, scenarioA, 3)
	cfg.Output.FastaPath = "kept.fasta"

	out, err := newRunner(t, cfg).Execute()
	require.NoError(t, err)

	path := filepath.Join(cfg.Output.Dir, "kept.fasta")
	assert.Contains(t, out.Files, path)
	assert.Equal(t, ">seq_1\nACGT\n", readFile(t, path))
}

func TestExecuteLeavesNoOutputOnError(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "missing column",
			input: "seq\tlength\nACGT\t4\n",
			check: func(t *testing.T, err error) {
				var colErr *table.ColumnError
				assert.ErrorAs(t, err, &colErr)
			},
		},
		{
			name:  "bad length",
			input: "sequence\tlength\nACGT\tfour\n",
			check: func(t *testing.T, err error) {
				var dataErr *table.DataError
				assert.ErrorAs(t, err, &dataErr)
			},
		},
		{
			name:  "empty file",
			input: "",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, table.ErrEmptyHeader)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setup(t, tt.input, 3)

			out, err := newRunner(t, cfg).Execute()
			require.Error(t, err)
			assert.Nil(t, out)
			tt.check(t, err)

			assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, report.RemovalReportFile))
			assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, report.MetricsReportFile))
		})
	}
}

func TestExecuteOutputDirIsFile(t *testing.T) {
	cfg := setup(t, scenarioA, 3)
	require.NoError(t, os.WriteFile(cfg.Output.Dir, []byte("x"), 0644))

	_, err := newRunner(t, cfg).Execute()
	assert.Error(t, err)
}

func TestExecuteRemovesStaleCharts(t *testing.T) {
	cfg := setup(t, "sequence\tlength\nACGT\t4\nACGT\t4\nGG\t2\n", 3)
	cfg.Output.Charts = true

	out, err := newRunner(t, cfg).Execute()
	require.NoError(t, err)
	assert.Len(t, out.Files, 5)
	pie := filepath.Join(cfg.Output.Dir, chart.RemovalPieFile)
	require.FileExists(t, pie)

	// Second run into the same directory removes nothing, so the first
	// run's pie chart must not survive next to its reports.
	input := filepath.Join(t.TempDir(), "clean.tsv")
	require.NoError(t, os.WriteFile(input, []byte("sequence\tlength\nACGT\t4\n"), 0644))
	cfg.Input.Path = input

	out, err = newRunner(t, cfg).Execute()
	require.NoError(t, err)
	assert.Len(t, out.Files, 4)
	assert.NoFileExists(t, pie)

	// With charts off, none of the earlier charts remain.
	cfg.Output.Charts = false
	out, err = newRunner(t, cfg).Execute()
	require.NoError(t, err)
	assert.Len(t, out.Skipped, 3)
	entries, err := os.ReadDir(cfg.Output.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExecuteRejectsClashingFastaName(t *testing.T) {
	cfg := setup(t, scenarioA, 3)

	_, err := newRunner(t, cfg).Execute()
	require.NoError(t, err)
	metricsPath := filepath.Join(cfg.Output.Dir, report.MetricsReportFile)
	before := readFile(t, metricsPath)

	cfg.Output.FastaPath = report.MetricsReportFile
	out, err := newRunner(t, cfg).Execute()
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "already staged")

	assert.Equal(t, before, readFile(t, metricsPath), "previous report must be untouched")
	entries, err := os.ReadDir(cfg.Output.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no staging leftovers")
}

func TestCheckWritesNothing(t *testing.T) {
	cfg := setup(t, scenarioA, 3)

	res, err := newRunner(t, cfg).Check()
	require.NoError(t, err)
	assert.Equal(t, 3, res.RemovedCount())

	_, err = os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(err))
}
