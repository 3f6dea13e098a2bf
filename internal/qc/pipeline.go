package qc

import (
	"errors"
	"fmt"

	"github.com/dbsmedya/seqqc/internal/table"
)

// ErrInvariant is returned when a stage's kept and removed tables do not
// exactly cover its input.
var ErrInvariant = errors.New("partition does not cover its input")

// Stage is one named step of the pipeline.
type Stage struct {
	Reason Reason
	Apply  func(table.Table) Partition
}

// Stages returns the fixed filter order: ambiguous bases, then length, then
// duplicates. Duplicate detection must see only records that passed the
// first two checks, otherwise an ambiguous or short copy could claim "first".
func Stages(minLength int) []Stage {
	return []Stage{
		{Reason: ReasonAmbiguous, Apply: FilterAmbiguous},
		{Reason: ReasonShort, Apply: func(t table.Table) Partition { return FilterLength(t, minLength) }},
		{Reason: ReasonDuplicate, Apply: FilterDuplicate},
	}
}

// Accumulator collects removal batches as they come out of each stage.
// It is passed by value through the fold; Add returns the extended copy.
type Accumulator struct {
	Batches []Partition
}

// Add returns an accumulator with p appended.
func (a Accumulator) Add(p Partition) Accumulator {
	batches := make([]Partition, len(a.Batches), len(a.Batches)+1)
	copy(batches, a.Batches)
	return Accumulator{Batches: append(batches, p)}
}

// Removed returns the total number of removed records so far.
func (a Accumulator) Removed() int {
	n := 0
	for _, b := range a.Batches {
		n += b.Removed.Len()
	}
	return n
}

// Result is the pipeline output.
type Result struct {
	Original int         // rows before any filter ran
	Kept     table.Table // final retained table
	Batches  []Partition // one per stage, in execution order
}

// RemovedCount returns the number of rows removed across all stages.
func (r *Result) RemovedCount() int {
	return Accumulator{Batches: r.Batches}.Removed()
}

// Observer is called after each stage completes.
type Observer func(stage Stage, p Partition)

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	observers []Observer
}

// WithObserver registers fn to be called after each stage.
func WithObserver(fn Observer) Option {
	return func(c *runConfig) {
		c.observers = append(c.observers, fn)
	}
}

// Run applies the stages to t in order, feeding each stage's kept table to
// the next and accumulating every removed batch.
func Run(t table.Table, minLength int, opts ...Option) (*Result, error) {
	return RunStages(t, Stages(minLength), opts...)
}

// RunStages is Run with an explicit stage list.
func RunStages(t table.Table, stages []Stage, opts ...Option) (*Result, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	kept := t
	acc := Accumulator{}
	for _, stage := range stages {
		p := stage.Apply(kept)
		if err := checkCover(kept, p); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Reason, err)
		}
		for _, obs := range cfg.observers {
			obs(stage, p)
		}
		acc = acc.Add(p)
		kept = p.Kept
	}

	return &Result{
		Original: t.Len(),
		Kept:     kept,
		Batches:  acc.Batches,
	}, nil
}

// checkCover verifies kept ∪ removed = input and kept ∩ removed = ∅ by row identity.
func checkCover(input table.Table, p Partition) error {
	if p.Kept.Len()+p.Removed.Len() != input.Len() {
		return fmt.Errorf("%w: %d kept + %d removed != %d input",
			ErrInvariant, p.Kept.Len(), p.Removed.Len(), input.Len())
	}

	pending := make(map[int]struct{}, input.Len())
	for _, r := range input.Records {
		pending[r.Row] = struct{}{}
	}
	for _, part := range []table.Table{p.Kept, p.Removed} {
		for _, r := range part.Records {
			if _, ok := pending[r.Row]; !ok {
				return fmt.Errorf("%w: row %d appears twice or was never in the input", ErrInvariant, r.Row)
			}
			delete(pending, r.Row)
		}
	}
	return nil
}
