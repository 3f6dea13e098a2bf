// Package qc implements the sequence quality-control filters and the fixed
// pipeline that chains them.
package qc

import (
	"strings"

	"github.com/dbsmedya/seqqc/internal/table"
)

// Reason tags why a record was removed.
type Reason string

const (
	ReasonAmbiguous Reason = "ambiguous_N"
	ReasonShort     Reason = "short_length"
	ReasonDuplicate Reason = "duplicate"
)

// Reasons lists every removal reason in filter execution order.
var Reasons = []Reason{ReasonAmbiguous, ReasonShort, ReasonDuplicate}

// Order returns the position of r in filter execution order, or -1.
func (r Reason) Order() int {
	for i, known := range Reasons {
		if r == known {
			return i
		}
	}
	return -1
}

// Partition is the output of one filter: two disjoint tables covering the
// filter's input, and the reason attached to every removed record.
type Partition struct {
	Kept    table.Table
	Removed table.Table
	Reason  Reason
}

// FilterAmbiguous removes records whose sequence contains an uppercase 'N'.
func FilterAmbiguous(t table.Table) Partition {
	return split(t, ReasonAmbiguous, func(r table.Record) bool {
		return strings.Count(r.Sequence, "N") >= 1
	})
}

// FilterLength removes records whose length is strictly below minLength.
func FilterLength(t table.Table, minLength int) Partition {
	return split(t, ReasonShort, func(r table.Record) bool {
		return r.Length < minLength
	})
}

// FilterDuplicate keeps the first record for each exact sequence string and
// removes every later occurrence. Length plays no part in the key.
func FilterDuplicate(t table.Table) Partition {
	seen := make(map[string]struct{}, t.Len())
	return split(t, ReasonDuplicate, func(r table.Record) bool {
		if _, dup := seen[r.Sequence]; dup {
			return true
		}
		seen[r.Sequence] = struct{}{}
		return false
	})
}

// split walks t once, in order, and routes each record by identity.
func split(t table.Table, reason Reason, remove func(table.Record) bool) Partition {
	kept := make([]table.Record, 0, t.Len())
	var removed []table.Record

	for _, rec := range t.Records {
		if remove(rec) {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}

	return Partition{
		Kept:    t.WithRecords(kept),
		Removed: t.WithRecords(removed),
		Reason:  reason,
	}
}
