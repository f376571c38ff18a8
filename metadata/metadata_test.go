// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

const testCallsetMap = `{
  "callsets": [
    {"sample_name": "NA001", "row_idx": 0},
    {"sample_name": "NA002", "row_idx": 1}
  ]
}`

const testVIDMap = `{
  "contigs": [
    {"name": "chr1", "length": 1000, "tiledb_column_offset": 0},
    {"name": "chr2", "length": 500, "tiledb_column_offset": 1000}
  ],
  "fields": [
    {"name": "GT", "type": "int32", "fixed_arity": true, "num_elements": 2, "contains_phase": true, "vcf_field_class": "FORMAT"},
    {"name": "ALT", "type": "char", "fixed_arity": false, "vcf_field_class": "INFO"}
  ]
}`

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := New(Inputs{
		Workspace:      "ws",
		CallsetMapJSON: []byte(testCallsetMap),
		VIDMapJSON:     []byte(testVIDMap),
	})
	require.NoError(t, err)
	return r
}

func TestRowToSample(t *testing.T) {
	r := newTestResolver(t)
	name, err := r.RowToSample(0)
	require.NoError(t, err)
	require.Equal(t, "NA001", name)

	_, err = r.RowToSample(99)
	require.True(t, errors.Is(err, gdbpb.ErrNotFound))
}

func TestColumnToGenomicRoundTrip(t *testing.T) {
	r := newTestResolver(t)
	for _, c := range r.contigs.byOffset {
		for _, pos := range []int64{0, c.Length - 1} {
			col, err := r.GenomicToColumn(c.Name, pos)
			require.NoError(t, err)

			gi, err := r.ColumnToGenomic(col)
			require.NoError(t, err)
			require.Equal(t, c.Name, gi.Contig)
			require.Equal(t, pos, gi.PosLo)
		}
	}
}

func TestColumnToGenomicOutOfRange(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.ColumnToGenomic(1<<32)
	require.True(t, errors.Is(err, gdbpb.ErrNotFound))
}

func TestFieldTypeAndOrdering(t *testing.T) {
	r := newTestResolver(t)
	ft, err := r.FieldType("GT")
	require.NoError(t, err)
	require.True(t, ft.ContainsPhase)
	require.Equal(t, gdbpb.VCFFieldClassFormat, ft.Class)

	_, err = r.FieldType("NOPE")
	require.True(t, errors.Is(err, gdbpb.ErrSchema))

	require.Equal(t, []string{"GT", "ALT"}, r.FieldOrdering("any"))
}
