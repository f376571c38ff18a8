// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package gdbpb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnRangeIntersect(t *testing.T) {
	r, ok := ColumnRange{100, 200}.Intersect(ColumnRange{150, 300})
	require.True(t, ok)
	require.Equal(t, ColumnRange{150, 200}, r)

	_, ok = ColumnRange{100, 200}.Intersect(ColumnRange{201, 300})
	require.False(t, ok)
}

func TestScanFull(t *testing.T) {
	full := ScanFull()
	require.Equal(t, Column(0), full.Lo)
	require.True(t, full.Contains(1<<40))
}

func TestContigEnd(t *testing.T) {
	c := Contig{Name: "chr1", Length: 1000, Offset: 500}
	require.Equal(t, Column(1500), c.End())
}

func TestFieldBagClone(t *testing.T) {
	b := FieldBag{"GT": {Name: "GT", Kind: FieldKindInt32, Ints: []int32{0, 1}}}
	cp := b.Clone()
	cp["GT"].Ints[0] = 9
	require.Equal(t, int32(0), b["GT"].Ints[0], "clone must not alias the original buffer")
}

func TestGenomicIntervalString(t *testing.T) {
	require.Equal(t, "chr1:101", GenomicInterval{Contig: "chr1", PosLo: 100, PosHi: 100}.String())
	require.Equal(t, "chr1:101-151", GenomicInterval{Contig: "chr1", PosLo: 100, PosHi: 150}.String())
}
