// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package metadata implements component A, the metadata resolver: it loads
// workspace metadata (callset map, VID map) once at engine construction and
// exposes read-only lookups that are safe for concurrent readers, mirroring
// the "loaded once, immutable thereafter" lifecycle from spec.md §3.
package metadata

import (
	"sort"

	"github.com/pkg/errors"
	"v.io/x/lib/vlog"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// Resolver answers the lookups in spec.md §4.A: row -> sample name,
// column <-> genomic position, and field schema/ordering. It is built once
// and never mutated, so it is safe for concurrent readers.
type Resolver struct {
	workspace         string
	referenceGenomeID string

	rowToSample map[gdbpb.Row]string
	contigs     *contigIndex
	fields      map[string]gdbpb.FieldType
	fieldOrder  []string
}

// Inputs bundles the documents New needs: the workspace path and the raw
// bytes of the callset-map and vid-map documents (already read from disk by
// the caller, since file I/O itself is the storage back-end's concern, out
// of scope per spec.md §1).
type Inputs struct {
	Workspace         string
	ReferenceGenomeID string
	CallsetMapJSON    []byte
	VIDMapJSON        []byte
}

// New loads and validates workspace metadata. It is the only place this
// package does any parsing; every other method is a pure lookup.
func New(in Inputs) (*Resolver, error) {
	rowToSample, err := ParseCallsetMap(in.CallsetMapJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "metadata.New(%s): callset map", in.Workspace)
	}
	contigs, fields, order, err := ParseVIDMap(in.VIDMapJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "metadata.New(%s): vid map", in.Workspace)
	}
	if len(contigs) == 0 {
		return nil, gdbpb.New(gdbpb.KindConfig, "vid map declares no contigs").WithIdent(in.Workspace)
	}
	vlog.VI(1).Infof("metadata: loaded %d callsets, %d contigs, %d fields for workspace %s",
		len(rowToSample), len(contigs), len(fields), in.Workspace)
	return &Resolver{
		workspace:         in.Workspace,
		referenceGenomeID: in.ReferenceGenomeID,
		rowToSample:       rowToSample,
		contigs:           newContigIndex(contigs),
		fields:            fields,
		fieldOrder:        order,
	}, nil
}

// RowToSample returns the sample name for row r, or NotFound if r is not a
// known callset.
func (m *Resolver) RowToSample(r gdbpb.Row) (string, error) {
	name, ok := m.rowToSample[r]
	if !ok {
		return "", gdbpb.New(gdbpb.KindNotFound, "no callset for row %d", int64(r)).WithIdent(m.workspace)
	}
	return name, nil
}

// ColumnToGenomic maps a flattened column to (contig, 0-based position).
func (m *Resolver) ColumnToGenomic(c gdbpb.Column) (gdbpb.GenomicInterval, error) {
	contig, ok := m.contigs.lookup(c)
	if !ok {
		return gdbpb.GenomicInterval{}, gdbpb.New(gdbpb.KindNotFound, "column %d is outside every contig", int64(c)).WithIdent(m.workspace)
	}
	pos := int64(c - contig.Offset)
	return gdbpb.GenomicInterval{Contig: contig.Name, PosLo: pos, PosHi: pos}, nil
}

// GenomicToColumn is the inverse of ColumnToGenomic.
func (m *Resolver) GenomicToColumn(contig string, pos int64) (gdbpb.Column, error) {
	c, ok := m.contigs.column(contig, pos)
	if !ok {
		return 0, gdbpb.New(gdbpb.KindNotFound, "position %s:%d is not in any known contig span", contig, pos).WithIdent(m.workspace)
	}
	return c, nil
}

// FieldType returns the schema for the named field.
func (m *Resolver) FieldType(name string) (gdbpb.FieldType, error) {
	ft, ok := m.fields[name]
	if !ok {
		return gdbpb.FieldType{}, gdbpb.New(gdbpb.KindSchema, "unknown field %q", name).WithIdent(m.workspace)
	}
	return ft, nil
}

// FieldTypes returns the full field -> schema map. Callers must not mutate
// the returned map.
func (m *Resolver) FieldTypes() map[string]gdbpb.FieldType {
	return m.fields
}

// FieldOrdering returns the ordered list of field names for the given
// array, as required by emitters that need a stable FORMAT/attribute
// column order. The array argument is accepted for forward compatibility
// with per-array overrides; the current format has one global ordering per
// workspace.
func (m *Resolver) FieldOrdering(array string) []string {
	return m.fieldOrder
}

// ReferenceGenomeID returns the reference genome identifier the workspace
// was constructed against.
func (m *Resolver) ReferenceGenomeID() string {
	return m.referenceGenomeID
}

// SampleNames returns the sample names of every row inside ranges, sorted
// ascending by row. An empty ranges slice means "all rows", matching the
// "empty row ranges denote all rows" rule from spec.md §4.B. Emitters
// that need a fixed sample column order (VCF, PLINK/BGEN) call this once
// against the query's effective row ranges.
func (m *Resolver) SampleNames(ranges []gdbpb.RowRange) []string {
	type entry struct {
		row  gdbpb.Row
		name string
	}
	var entries []entry
	for row, name := range m.rowToSample {
		if len(ranges) == 0 {
			entries = append(entries, entry{row, name})
			continue
		}
		for _, rr := range ranges {
			if rr.Contains(row) {
				entries = append(entries, entry{row, name})
				break
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].row < entries[j].row })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// Domain returns the column range spanning every known contig, [0, last
// contig's end - 1]. The scan iterator intersects configured column ranges
// against this once per query (spec.md §4.B).
func (m *Resolver) Domain() gdbpb.ColumnRange {
	if len(m.contigs.byOffset) == 0 {
		return gdbpb.ColumnRange{}
	}
	last := m.contigs.byOffset[len(m.contigs.byOffset)-1]
	return gdbpb.ColumnRange{Lo: 0, Hi: last.End() - 1}
}
