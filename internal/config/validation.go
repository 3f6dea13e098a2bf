package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/seqqc/internal/chart"
	"github.com/dbsmedya/seqqc/internal/metrics"
	"github.com/dbsmedya/seqqc/internal/report"
)

// reservedOutputs are the fixed artifact names every run may write.
var reservedOutputs = []string{
	report.RemovalReportFile,
	report.MetricsReportFile,
	chart.LengthHistogramFile,
	chart.GCHistogramFile,
	chart.RemovalPieFile,
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateInput(); err != nil {
		errors = append(errors, err...)
	}

	if c.Filter.MinLength == nil {
		errors = append(errors, ValidationError{
			Field:   "filter.min_length",
			Message: "min_length is required",
		})
	}

	if err := c.validateOutput(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateInput() ValidationErrors {
	var errors ValidationErrors

	if c.Input.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "input.path",
			Message: "input path is required",
		})
	}

	if strings.TrimSpace(c.Input.SequenceColumn) == "" {
		errors = append(errors, ValidationError{
			Field:   "input.sequence_column",
			Message: "sequence_column is required",
		})
	}

	if strings.TrimSpace(c.Input.LengthColumn) == "" {
		errors = append(errors, ValidationError{
			Field:   "input.length_column",
			Message: "length_column is required",
		})
	} else if c.Input.LengthColumn == metrics.GCColumn {
		// Its statistics would collide with the derived GC column's.
		errors = append(errors, ValidationError{
			Field:   "input.length_column",
			Message: fmt.Sprintf("%q is reserved for the derived GC column", metrics.GCColumn),
		})
	}

	return errors
}

func (c *Config) validateOutput() ValidationErrors {
	var errors ValidationErrors

	if c.Output.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "output.dir",
			Message: "output directory is required",
		})
	}

	if c.Output.Charts && c.Output.DPI <= 0 {
		errors = append(errors, ValidationError{
			Field:   "output.dpi",
			Message: "dpi must be positive",
		})
	}

	// The FASTA export is staged next to the reports, so it must be a bare name.
	if c.Output.FastaPath != "" && filepath.Base(c.Output.FastaPath) != c.Output.FastaPath {
		errors = append(errors, ValidationError{
			Field:   "output.fasta_path",
			Message: fmt.Sprintf("%q must be a file name without a directory", c.Output.FastaPath),
		})
	}
	for _, name := range reservedOutputs {
		if c.Output.FastaPath == name {
			errors = append(errors, ValidationError{
				Field:   "output.fasta_path",
				Message: fmt.Sprintf("%q is the name of a report or chart", name),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
