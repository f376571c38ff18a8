// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package memstore is a reference, in-memory arraystore.Store
// implementation. It exists so the scan/reconcile/result/vcfout/plinkout
// packages can be tested without a real array backend, the way the
// teacher's own encoding/pam tests build small in-memory sam.Record
// fixtures rather than real BAM files.
package memstore

import (
	"context"
	"sort"

	"github.com/liuh0394/genomicsdb-go/arraystore"
	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

type array struct {
	name  string
	cells []gdbpb.Cell // kept sorted by (Begin, Row) ascending
}

// Store holds a fixed set of named arrays, each a flat slice of cells.
type Store struct {
	arrays map[string]*array
}

// New returns an empty Store.
func New() *Store {
	return &Store{arrays: map[string]*array{}}
}

// AddArray registers an array under name with the given cells. Cells are
// copied and sorted into column-major order ((Begin, Row) ascending); a
// duplicate (Begin, Row) pair is a caller bug (invariant 2: a sample emits
// at most one call per position) and will panic, since this is test-fixture
// construction, not a scanning-time occurrence.
func (s *Store) AddArray(name string, cells []gdbpb.Cell) {
	cp := append([]gdbpb.Cell(nil), cells...)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].Begin != cp[j].Begin {
			return cp[i].Begin < cp[j].Begin
		}
		return cp[i].Row < cp[j].Row
	})
	for i := 1; i < len(cp); i++ {
		if cp[i-1].Begin == cp[i].Begin && cp[i-1].Row == cp[i].Row {
			panic("memstore: duplicate (row, begin) in fixture array " + name)
		}
	}
	s.arrays[name] = &array{name: name, cells: cp}
}

// OpenArray implements arraystore.Store.
func (s *Store) OpenArray(ctx context.Context, workspace, name string) (arraystore.Handle, error) {
	a, ok := s.arrays[name]
	if !ok {
		return nil, gdbpb.New(gdbpb.KindIO, "array %q not found in workspace %q", name, workspace)
	}
	return a, nil
}

// Close implements arraystore.Store.
func (s *Store) Close(h arraystore.Handle) error { return nil }

func inRowRanges(r gdbpb.Row, ranges []gdbpb.RowRange) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, rr := range ranges {
		if rr.Contains(r) {
			return true
		}
	}
	return false
}

func intersectsColumnRanges(begin, end gdbpb.Column, ranges []gdbpb.ColumnRange) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, cr := range ranges {
		if begin <= cr.Hi && cr.Lo <= end {
			return true
		}
	}
	return false
}

func attrSet(attrs []string) map[string]bool {
	if len(attrs) == 0 {
		return nil // nil means "all attributes"
	}
	set := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		set[a] = true
	}
	return set
}

func project(fields gdbpb.FieldBag, want map[string]bool) gdbpb.FieldBag {
	if want == nil {
		return fields
	}
	out := make(gdbpb.FieldBag, len(want))
	for name := range want {
		if v, ok := fields[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Scan implements arraystore.Store. segmentSize is accepted for interface
// conformance but ignored: this reference implementation already holds
// every cell in memory, so there is no meaningful segment boundary to
// enforce (a real tile-backed store would use it to bound how much
// compressed data it decodes at once).
func (s *Store) Scan(ctx context.Context, h arraystore.Handle, attributes []string, rowRanges []gdbpb.RowRange, columnRanges []gdbpb.ColumnRange, segmentSize int64) (arraystore.CellStream, error) {
	a := h.(*array)
	want := attrSet(attributes)
	var filtered []gdbpb.Cell
	for _, c := range a.cells {
		if !inRowRanges(c.Row, rowRanges) {
			continue
		}
		if !intersectsColumnRanges(c.Begin, c.End, columnRanges) {
			continue
		}
		cp := c
		cp.Fields = project(c.Fields, want)
		filtered = append(filtered, cp)
	}
	return &cellStream{cells: filtered, idx: -1}, nil
}

type cellStream struct {
	cells []gdbpb.Cell
	idx   int
}

func (cs *cellStream) Next() bool {
	cs.idx++
	return cs.idx < len(cs.cells)
}

func (cs *cellStream) Cell() gdbpb.Cell { return cs.cells[cs.idx] }
func (cs *cellStream) Err() error       { return nil }
func (cs *cellStream) Close() error     { return nil }
