package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

// ErrEmptyHeader is returned when the input has no header row.
var ErrEmptyHeader = errors.New("input table has no header row")

// ColumnError reports a designated column that is absent from the header.
// It is a configuration error: nothing about the data is wrong, the caller
// asked for a column that does not exist.
type ColumnError struct {
	Role      string // "sequence" or "length"
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s column %q not found in header (available: %s)",
		e.Role, e.Column, strings.Join(e.Available, ", "))
}

// DataError reports a malformed data row. Rows are never skipped or coerced:
// a bad row fails the whole read.
type DataError struct {
	Line    int // 1-based line in the input, header is line 1
	Column  string
	Value   string
	Message string
}

func (e *DataError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d, column %q: %s (value %q)", e.Line, e.Column, e.Message, e.Value)
}

// ReadOptions names the two designated columns.
type ReadOptions struct {
	SequenceColumn string
	LengthColumn   string
}

// Read loads a tab-delimited table with a header row. Compressed files
// (gzip, xz, zstd, bzip2) are decoded transparently and "-" reads stdin.
func Read(path string, opts ReadOptions) (Table, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		if errors.Is(err, xopen.ErrNoContent) {
			return Table{}, fmt.Errorf("%s: %w", path, ErrEmptyHeader)
		}
		return Table{}, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer r.Close()

	t, err := Parse(r, opts)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a tab-delimited table from r.
func Parse(r io.Reader, opts ReadOptions) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, ErrEmptyHeader
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to read header: %w", err)
	}

	seqIdx, err := columnIndex(header, opts.SequenceColumn, "sequence")
	if err != nil {
		return Table{}, err
	}
	lenIdx, err := columnIndex(header, opts.LengthColumn, "length")
	if err != nil {
		return Table{}, err
	}

	t := Table{
		Header:         header,
		SequenceColumn: opts.SequenceColumn,
		LengthColumn:   opts.LengthColumn,
	}

	for row := 0; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read row %d: %w", row+1, err)
		}
		line, _ := cr.FieldPos(0)

		if len(fields) != len(header) {
			return Table{}, &DataError{
				Line:    line,
				Message: fmt.Sprintf("expected %d fields, found %d", len(header), len(fields)),
			}
		}

		rec, err := parseRecord(row, line, fields, header, seqIdx, lenIdx)
		if err != nil {
			return Table{}, err
		}
		t.Records = append(t.Records, rec)
	}

	return t, nil
}

func parseRecord(row, line int, fields, header []string, seqIdx, lenIdx int) (Record, error) {
	seq := fields[seqIdx]
	if seq == "" {
		return Record{}, &DataError{
			Line:    line,
			Column:  header[seqIdx],
			Value:   seq,
			Message: "missing sequence",
		}
	}

	raw := strings.TrimSpace(fields[lenIdx])
	length, err := strconv.Atoi(raw)
	if err != nil {
		return Record{}, &DataError{
			Line:    line,
			Column:  header[lenIdx],
			Value:   fields[lenIdx],
			Message: "length is not an integer",
		}
	}

	return Record{
		Row:      row,
		Sequence: seq,
		Length:   length,
		Fields:   fields,
	}, nil
}

func columnIndex(header []string, name, role string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return -1, &ColumnError{Role: role, Column: name, Available: header}
}
