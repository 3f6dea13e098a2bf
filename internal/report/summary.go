package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/seqqc/internal/metrics"
)

var (
	headerStyle  = color.New(color.FgCyan, color.OpBold)
	sectionStyle = color.New(color.FgYellow)
	removedStyle = color.New(color.FgRed)
)

// PrintSummary prints a human-readable digest of a run: row accounting,
// removals per reason, the metric table and the files written.
func PrintSummary(w io.Writer, s *metrics.Summary, files []string) {
	printHeader(w, "Sequence QC Summary")

	fmt.Fprintln(w)
	printSection(w, "Rows")
	printAligned(w, [][2]string{
		{"Input rows", fmt.Sprintf("%d", s.Original)},
		{"Retained rows", fmt.Sprintf("%d", s.Original-s.Removed)},
		{"Removed rows", removedStyle.Sprintf("%d (%.2f%%)", s.Removed, s.Fraction)},
	})

	if len(s.Reasons) > 0 {
		fmt.Fprintln(w)
		printSection(w, "Removed by reason")
		rows := make([][2]string, len(s.Reasons))
		for i, rc := range s.Reasons {
			rows[i] = [2]string{string(rc.Reason), fmt.Sprintf("%d", rc.Count)}
		}
		printAligned(w, rows)
	}

	fmt.Fprintln(w)
	printSection(w, "Metrics")
	entries := s.Entries()
	rows := make([][2]string, len(entries))
	for i, e := range entries {
		rows[i] = [2]string{e.Metric, FormatValue(e.Value)}
	}
	printAligned(w, rows)

	if len(files) > 0 {
		fmt.Fprintln(w)
		printSection(w, "Files")
		for _, f := range files {
			fmt.Fprintf(w, "  • %s\n", f)
		}
	}
}

// printHeader prints a formatted header
func printHeader(w io.Writer, title string) {
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "  %s\n", headerStyle.Sprint(title))
	fmt.Fprintln(w, strings.Repeat("=", width))
}

// printSection prints a section header
func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "[%s]\n", sectionStyle.Sprint(title))
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// printAligned prints label/value pairs with the values in one column.
func printAligned(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		if n := runewidth.StringWidth(r[0]); n > width {
			width = n
		}
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(r[0], width), r[1])
	}
}
