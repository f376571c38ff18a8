// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package reconcile implements component D: it converts a column-major
// cell stream into reconciled Variant intervals, merging calls that share a
// start column and splitting at interval endpoints.
package reconcile

import (
	"sort"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// Mode selects whether the reconciler performs interval reconciliation at
// all. ModeBypass corresponds to the GenomicsDB query-config knob
// restored in SPEC_FULL.md ("bypass_intersecting_intervals_phase"): each
// cell is surfaced as its own single-call Variant, with no merging or
// splitting.
type Mode int

const (
	ModeReconcile Mode = iota
	ModeBypass
)

// maxColumn is used as an unreachable upper bound when flushing every
// remaining active call at end of stream.
const maxColumn = gdbpb.Column(1<<63 - 1)

// Reconciler consumes cells in column-major order ((Begin, Row) ascending,
// as scan.Iterator delivers them) and emits Variants through the emit
// callback as soon as each boundary is crossed. It holds only the calls
// currently active — a sliding set bounded by the number of samples whose
// intervals overlap the current sweep position — never the whole query
// result.
type Reconciler struct {
	mode Mode
	emit func(gdbpb.Variant) error

	active []gdbpb.Call // sorted ascending by Row
	lo     gdbpb.Column
	haveLo bool
}

// New returns a Reconciler that calls emit once per reconciled Variant.
func New(mode Mode, emit func(gdbpb.Variant) error) *Reconciler {
	return &Reconciler{mode: mode, emit: emit}
}

// Push feeds one cell into the reconciler. Cells must arrive in
// column-major order; Push does not itself re-check invariant 2 (that is
// scan.Iterator's job) but does reject END < Begin, per spec.md §4.D.
func (rc *Reconciler) Push(cell gdbpb.Cell) error {
	if cell.End < cell.Begin {
		return gdbpb.New(gdbpb.KindData, "cell row %d begin %d: END %d < begin", int64(cell.Row), int64(cell.Begin), int64(cell.End))
	}
	call := gdbpb.Call{Row: cell.Row, Begin: cell.Begin, End: cell.End, Fields: cell.Fields.Clone()}

	if rc.mode == ModeBypass {
		return rc.emit(gdbpb.Variant{Lo: call.Begin, Hi: call.End, Calls: []gdbpb.Call{call}})
	}

	if err := rc.flushUpTo(cell.Begin); err != nil {
		return err
	}
	switch {
	case len(rc.active) == 0:
		rc.lo, rc.haveLo = cell.Begin, true
	case cell.Begin > rc.lo:
		// Case 1 from spec.md §4.D: a new c_begin not already covered by
		// the current constant active set closes the pending variant.
		if err := rc.emitBoundary(cell.Begin - 1); err != nil {
			return err
		}
		rc.lo = cell.Begin
	}
	rc.insertActive(call)
	return nil
}

// Finish flushes every remaining active call, closing out all pending
// variants. Call it exactly once after the last Push.
func (rc *Reconciler) Finish() error {
	if rc.mode == ModeBypass {
		return nil
	}
	return rc.flushUpTo(maxColumn)
}

// flushUpTo emits a boundary for every active call whose END+1 is <= limit,
// i.e. every call that closes strictly before the next incoming column.
// Cases 2 and 3 from spec.md §4.D (an END+1, or an END, of any active call)
// are both satisfied by this loop: the boundary column itself is the
// smallest active END, and the call is removed immediately after.
func (rc *Reconciler) flushUpTo(limit gdbpb.Column) error {
	for len(rc.active) > 0 {
		minEnd := rc.minActiveEnd()
		if minEnd+1 > limit {
			return nil
		}
		if err := rc.emitBoundary(minEnd); err != nil {
			return err
		}
		rc.removeEndedAt(minEnd)
		if len(rc.active) == 0 {
			rc.haveLo = false
		} else {
			rc.lo = minEnd + 1
		}
	}
	return nil
}

func (rc *Reconciler) minActiveEnd() gdbpb.Column {
	min := rc.active[0].End
	for _, c := range rc.active[1:] {
		if c.End < min {
			min = c.End
		}
	}
	return min
}

func (rc *Reconciler) removeEndedAt(end gdbpb.Column) {
	kept := rc.active[:0]
	for _, c := range rc.active {
		if c.End != end {
			kept = append(kept, c)
		}
	}
	rc.active = kept
}

// emitBoundary emits the Variant [rc.lo, hi] covering the currently active
// call set, ascending by Row (invariant: "Ordering of calls within a
// variant is ascending by row").
func (rc *Reconciler) emitBoundary(hi gdbpb.Column) error {
	if !rc.haveLo || len(rc.active) == 0 {
		return nil
	}
	calls := append([]gdbpb.Call(nil), rc.active...)
	sort.Slice(calls, func(i, j int) bool { return calls[i].Row < calls[j].Row })
	return rc.emit(gdbpb.Variant{Lo: rc.lo, Hi: hi, Calls: calls})
}

func (rc *Reconciler) insertActive(call gdbpb.Call) {
	i := sort.Search(len(rc.active), func(i int) bool { return rc.active[i].Row >= call.Row })
	rc.active = append(rc.active, gdbpb.Call{})
	copy(rc.active[i+1:], rc.active[i:])
	rc.active[i] = call
}
