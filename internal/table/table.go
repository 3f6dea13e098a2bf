// Package table holds the in-memory sequence table shared by the QC stages.
package table

import "strconv"

// Record is one input row. Row is the 0-based position in the input table
// and is the record's identity: two records with equal values are still
// distinct rows.
type Record struct {
	Row      int
	Sequence string
	Length   int
	Fields   []string // raw fields in header order
}

// Table is an ordered set of records together with the column layout they
// were read with. Filters derive new tables with WithRecords and never modify
// the receiver.
type Table struct {
	Header         []string
	SequenceColumn string
	LengthColumn   string
	Records        []Record
}

// New builds a table from sequence/length pairs, assigning row indices in
// order. The header is just the two designated columns.
func New(sequenceColumn, lengthColumn string, pairs ...Pair) Table {
	records := make([]Record, len(pairs))
	for i, p := range pairs {
		records[i] = Record{
			Row:      i,
			Sequence: p.Sequence,
			Length:   p.Length,
			Fields:   []string{p.Sequence, strconv.Itoa(p.Length)},
		}
	}
	return Table{
		Header:         []string{sequenceColumn, lengthColumn},
		SequenceColumn: sequenceColumn,
		LengthColumn:   lengthColumn,
		Records:        records,
	}
}

// Pair is a sequence with its annotated length.
type Pair struct {
	Sequence string
	Length   int
}

// Len returns the number of records.
func (t Table) Len() int {
	return len(t.Records)
}

// WithRecords returns a table with the receiver's layout and the given records.
func (t Table) WithRecords(records []Record) Table {
	return Table{
		Header:         t.Header,
		SequenceColumn: t.SequenceColumn,
		LengthColumn:   t.LengthColumn,
		Records:        records,
	}
}

// Rows returns the row indices in table order.
func (t Table) Rows() []int {
	rows := make([]int, len(t.Records))
	for i, r := range t.Records {
		rows[i] = r.Row
	}
	return rows
}

// Lengths returns the length column as float64 values in table order.
func (t Table) Lengths() []float64 {
	values := make([]float64, len(t.Records))
	for i, r := range t.Records {
		values[i] = float64(r.Length)
	}
	return values
}

// Sequences returns the sequence column in table order.
func (t Table) Sequences() []string {
	seqs := make([]string, len(t.Records))
	for i, r := range t.Records {
		seqs[i] = r.Sequence
	}
	return seqs
}
