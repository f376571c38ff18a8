// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package gdbpb holds the wire-level value types shared by every layer of
// the query engine: column/row coordinates, contigs, the typed field bag
// carried by each cell, and the Cell/Call/Variant records produced by the
// scan and reconciliation layers.
//
// The package is deliberately free of I/O and free of any dependency on the
// storage back-end; it exists so that scan, reconcile, result, vcfout and
// plinkout can all agree on one vocabulary.
package gdbpb

import (
	"fmt"
	"strings"
)

// Row identifies a callset (sample) on the row axis. Valid rows are in
// [0, 2^63).
type Row int64

// Column is a flattened genomic position on the column axis: the sum of a
// contig's starting offset and the 0-based position within that contig.
// Valid columns are in [0, 2^63).
type Column int64

// inf is the largest Column, 2^63-1. SCAN_FULL's upper bound is inf-1.
const inf = Column(1<<63 - 1)

// RowRange is an inclusive range of rows, [Lo, Hi].
type RowRange struct {
	Lo, Hi Row
}

// ColumnRange is an inclusive range of columns, [Lo, Hi].
type ColumnRange struct {
	Lo, Hi Column
}

// ScanFull is the column range spec.md calls SCAN_FULL: [[0, 2^63-2]].
func ScanFull() ColumnRange {
	return ColumnRange{Lo: 0, Hi: inf - 1}
}

// Intersect returns the intersection of two column ranges and whether it is
// non-empty.
func (r ColumnRange) Intersect(o ColumnRange) (ColumnRange, bool) {
	lo := r.Lo
	if o.Lo > lo {
		lo = o.Lo
	}
	hi := r.Hi
	if o.Hi < hi {
		hi = o.Hi
	}
	if lo > hi {
		return ColumnRange{}, false
	}
	return ColumnRange{lo, hi}, true
}

// Contains reports whether c falls inside the inclusive range.
func (r ColumnRange) Contains(c Column) bool {
	return r.Lo <= c && c <= r.Hi
}

// Intersect returns the intersection of two row ranges and whether it is
// non-empty.
func (r RowRange) Intersect(o RowRange) (RowRange, bool) {
	lo := r.Lo
	if o.Lo > lo {
		lo = o.Lo
	}
	hi := r.Hi
	if o.Hi < hi {
		hi = o.Hi
	}
	if lo > hi {
		return RowRange{}, false
	}
	return RowRange{lo, hi}, true
}

// Contains reports whether r falls inside the inclusive range.
func (r RowRange) Contains(row Row) bool {
	return r.Lo <= row && row <= r.Hi
}

// Contig is a reference sequence (e.g. "chr1"). Offset is its starting
// position on the flattened column axis; contig offsets are disjoint and
// monotonically ordered by name-insertion order.
type Contig struct {
	Name   string
	Length int64
	Offset Column
}

// End returns the column one past the last column of the contig.
func (c Contig) End() Column {
	return c.Offset + Column(c.Length)
}

// GenomicInterval is a (contig, [pos_lo, pos_hi]) pair derived from a column
// interval via a contig lookup. Positions are 0-based, inclusive.
type GenomicInterval struct {
	Contig       string
	PosLo, PosHi int64
}

func (g GenomicInterval) String() string {
	if g.PosLo == g.PosHi {
		return fmt.Sprintf("%s:%d", g.Contig, g.PosLo+1)
	}
	return fmt.Sprintf("%s:%d-%d", g.Contig, g.PosLo+1, g.PosHi+1)
}

// FieldKind is the element kind of a field's typed buffer.
type FieldKind int

const (
	// FieldKindInvalid is the zero value sentinel.
	FieldKindInvalid FieldKind = iota
	FieldKindInt32
	FieldKindFloat32
	FieldKindChar
	FieldKindString
)

func (k FieldKind) String() string {
	switch k {
	case FieldKindInt32:
		return "int32"
	case FieldKindFloat32:
		return "float32"
	case FieldKindChar:
		return "char"
	case FieldKindString:
		return "string"
	default:
		return "invalid"
	}
}

// VCFFieldClass classifies where a field belongs in an emitted VCF record.
type VCFFieldClass int

const (
	VCFFieldClassInfo VCFFieldClass = iota
	VCFFieldClassFormat
	VCFFieldClassFilter
)

// FieldType describes the static shape of one named field, as resolved from
// the VID map (see metadata.Resolver.FieldType).
type FieldType struct {
	Name string
	Kind FieldKind

	// FixedArity is true when NumElements is a compile-time constant (e.g.
	// a scalar char, or GT with a known ploidy). When false, the element
	// count varies per cell and is carried alongside the value.
	FixedArity  bool
	NumElements int

	NumDimensions int
	ContainsPhase bool
	Class         VCFFieldClass
}

// IsString reports whether this is a char field with variable arity, i.e. a
// string as opposed to a scalar char.
func (f FieldType) IsString() bool {
	return f.Kind == FieldKindChar && !f.FixedArity
}

// FieldValue is a decoded view of one field's buffer for one cell. Exactly
// one of Ints/Floats/Chars/Strs is meaningful, selected by Kind.
//
// Buffers returned by the scan iterator are borrowed and are valid only
// until the next cell is pulled; buffers on Call/Variant records (produced
// by the reconciler and result surface) are owned.
type FieldValue struct {
	Name string
	Kind FieldKind

	Ints   []int32
	Floats []float32
	Chars  []byte
	Strs   []string

	// Phased is meaningful only when the field's FieldType.ContainsPhase is
	// set (e.g. GT); it records phase bits per adjacent pair of elements.
	Phased []bool
}

// NumElements returns the number of decoded elements backing this value,
// regardless of Kind.
func (v FieldValue) NumElements() int {
	switch v.Kind {
	case FieldKindInt32:
		return len(v.Ints)
	case FieldKindFloat32:
		return len(v.Floats)
	case FieldKindChar:
		return len(v.Chars)
	case FieldKindString:
		return len(v.Strs)
	default:
		return 0
	}
}

// NonRefAllele is the reserved symbolic allele GenomicsDB carries through
// its gVCF-style combined storage (invariant 5); emitters recognize and
// elide it per the conventions of their output format.
const NonRefAllele = "<NON_REF>"

// MissingAllele is the sentinel GT allele index for a no-call (invariant 4).
const MissingAllele = -1

// ScalarString renders a single-valued string/char field (e.g. REF) as a
// string, preferring Strs[0] and falling back to Chars.
func (v FieldValue) ScalarString() string {
	switch {
	case len(v.Strs) > 0:
		return v.Strs[0]
	case len(v.Chars) > 0:
		return string(v.Chars)
	default:
		return ""
	}
}

// ListStrings renders a variable-arity string/char field (e.g. ALT) as a
// list of elements, splitting a comma-delimited Chars buffer when Strs is
// not already populated.
func (v FieldValue) ListStrings() []string {
	if len(v.Strs) > 0 {
		return v.Strs
	}
	if len(v.Chars) > 0 {
		return strings.Split(string(v.Chars), ",")
	}
	return nil
}

// FieldBag is a name to FieldValue mapping, carried by Cells, Calls and (by
// projection) VCF/PLINK records.
type FieldBag map[string]FieldValue

// Clone returns a deep-ish copy of the bag suitable for ownership transfer
// out of a borrowed cell (the field slices themselves are copied; the field
// type metadata is not duplicated).
func (b FieldBag) Clone() FieldBag {
	if b == nil {
		return nil
	}
	out := make(FieldBag, len(b))
	for k, v := range b {
		cp := v
		if v.Ints != nil {
			cp.Ints = append([]int32(nil), v.Ints...)
		}
		if v.Floats != nil {
			cp.Floats = append([]float32(nil), v.Floats...)
		}
		if v.Chars != nil {
			cp.Chars = append([]byte(nil), v.Chars...)
		}
		if v.Strs != nil {
			cp.Strs = append([]string(nil), v.Strs...)
		}
		if v.Phased != nil {
			cp.Phased = append([]bool(nil), v.Phased...)
		}
		out[k] = cp
	}
	return out
}

// Cell is one occupant of the array at (Row, Begin): a call whose interval
// closes (inclusively) at End, with its typed field bag.
//
// INVARIANT: End >= Begin (enforced by the scan iterator; violations are
// reported as DataError by the reconciler).
type Cell struct {
	Row    Row
	Begin  Column
	End    Column
	Fields FieldBag
}

// Call is a cell's contribution to one or more reconciled Variants: the
// same (Row, Begin, End, Fields) tuple, but owned rather than borrowed.
type Call struct {
	Row    Row
	Begin  Column
	End    Column
	Fields FieldBag
}

// Variant is a reconciled column interval [Lo, Hi] together with the calls
// that participate in it, ascending by Row.
type Variant struct {
	Lo, Hi Column
	Calls  []Call
}
