// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import "github.com/liuh0394/genomicsdb-go/gdbpb"

// sampleIndex assigns dense, 0-based indices to rows in first-sighting
// order, ascending by row (spec.md §4.G "Coordinate reorientation").
type sampleIndex struct {
	indexOf map[gdbpb.Row]int
	names   []string // dense index -> name
	rows    []gdbpb.Row
}

func newSampleIndex() *sampleIndex {
	return &sampleIndex{indexOf: map[gdbpb.Row]int{}}
}

// Observe assigns row a dense index the first time it is seen and
// returns that index.
func (s *sampleIndex) Observe(row gdbpb.Row, name string) int {
	if idx, ok := s.indexOf[row]; ok {
		return idx
	}
	idx := len(s.names)
	s.indexOf[row] = idx
	s.names = append(s.names, name)
	s.rows = append(s.rows, row)
	return idx
}

func (s *sampleIndex) Index(row gdbpb.Row) (int, bool) {
	idx, ok := s.indexOf[row]
	return idx, ok
}

func (s *sampleIndex) Len() int           { return len(s.names) }
func (s *sampleIndex) NameAt(i int) string { return s.names[i] }
func (s *sampleIndex) RowAt(i int) gdbpb.Row { return s.rows[i] }

// variantEntry is one variant_map record: its dense index and the
// pessimistic phased flag (true only if every observed call was phased).
type variantEntry struct {
	index  int
	phased bool
	seen   bool // set when the column is first observed
}

// variantIndex assigns dense indices to columns in first-sighting order
// and tracks each variant's pessimistic phased flag.
type variantIndex struct {
	indexOf map[gdbpb.Column]*variantEntry
	order   []gdbpb.Column
}

func newVariantIndex() *variantIndex {
	return &variantIndex{indexOf: map[gdbpb.Column]*variantEntry{}}
}

// Observe assigns col a dense index the first time it is seen, and folds
// in allPhased (whether every call of this variant was phased) into the
// pessimistic per-variant flag.
func (v *variantIndex) Observe(col gdbpb.Column, allPhased bool) int {
	e, ok := v.indexOf[col]
	if !ok {
		e = &variantEntry{index: len(v.order), phased: allPhased, seen: true}
		v.indexOf[col] = e
		v.order = append(v.order, col)
		return e.index
	}
	e.phased = e.phased && allPhased
	return e.index
}

func (v *variantIndex) Phased(col gdbpb.Column) bool {
	e, ok := v.indexOf[col]
	return ok && e.phased
}

func (v *variantIndex) Index(col gdbpb.Column) (int, bool) {
	e, ok := v.indexOf[col]
	if !ok {
		return 0, false
	}
	return e.index, true
}

func (v *variantIndex) Len() int { return len(v.order) }
