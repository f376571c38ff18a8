// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

func collect(t *testing.T, mode Mode, cells []gdbpb.Cell) ([]gdbpb.Variant, error) {
	t.Helper()
	var out []gdbpb.Variant
	rc := New(mode, func(v gdbpb.Variant) error {
		out = append(out, v)
		return nil
	})
	for _, c := range cells {
		if err := rc.Push(c); err != nil {
			return out, err
		}
	}
	return out, rc.Finish()
}

func TestReconcileSingleCallClosesAtEnd(t *testing.T) {
	out, err := collect(t, ModeReconcile, []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 105},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, gdbpb.Column(100), out[0].Lo)
	require.Equal(t, gdbpb.Column(105), out[0].Hi)
	require.Equal(t, []gdbpb.Call{{Row: 0, Begin: 100, End: 105}}, out[0].Calls)
}

// Two overlapping calls that start together and end at different columns
// must split into two variants: [100,105] with both rows active, then
// [106,110] with only row 1 active.
func TestReconcileOverlappingCallsSplitAtShorterEnd(t *testing.T) {
	out, err := collect(t, ModeReconcile, []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 105},
		{Row: 1, Begin: 100, End: 110},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Equal(t, gdbpb.Column(100), out[0].Lo)
	require.Equal(t, gdbpb.Column(105), out[0].Hi)
	require.Len(t, out[0].Calls, 2)
	require.Equal(t, gdbpb.Row(0), out[0].Calls[0].Row)
	require.Equal(t, gdbpb.Row(1), out[0].Calls[1].Row)

	require.Equal(t, gdbpb.Column(106), out[1].Lo)
	require.Equal(t, gdbpb.Column(110), out[1].Hi)
	require.Len(t, out[1].Calls, 1)
	require.Equal(t, gdbpb.Row(1), out[1].Calls[0].Row)
}

// A later call starting strictly after the first one's END closes the first
// variant at its own END (case 3), not at the new call's c_begin - 1.
func TestReconcileNewCallAfterGapClosesPriorCallAtItsOwnEnd(t *testing.T) {
	out, err := collect(t, ModeReconcile, []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 105},
		{Row: 1, Begin: 500, End: 500},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, gdbpb.ColumnRange{Lo: out[0].Lo, Hi: out[0].Hi}, gdbpb.ColumnRange{Lo: 100, Hi: 105})
	require.Equal(t, gdbpb.ColumnRange{Lo: out[1].Lo, Hi: out[1].Hi}, gdbpb.ColumnRange{Lo: 500, Hi: 500})
}

// A new call starting exactly one column after the pending variant's hi
// opens a new variant with no zero-width interval in between.
func TestReconcileAdjacentCallOpensNewVariantNoZeroWidth(t *testing.T) {
	out, err := collect(t, ModeReconcile, []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 100},
		{Row: 0, Begin: 101, End: 101},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, gdbpb.Column(100), out[0].Lo)
	require.Equal(t, gdbpb.Column(100), out[0].Hi)
	require.Equal(t, gdbpb.Column(101), out[1].Lo)
	require.Equal(t, gdbpb.Column(101), out[1].Hi)
}

// Three rows covering a common sub-interval, with staggered starts and
// ends, must produce boundaries at every start and end crossing.
func TestReconcileThreeWayOverlapProducesAllBoundaries(t *testing.T) {
	out, err := collect(t, ModeReconcile, []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 200},
		{Row: 1, Begin: 150, End: 160},
		{Row: 2, Begin: 170, End: 300},
	})
	require.NoError(t, err)

	type span struct {
		lo, hi gdbpb.Column
		rows   []gdbpb.Row
	}
	var got []span
	for _, v := range out {
		var rows []gdbpb.Row
		for _, c := range v.Calls {
			rows = append(rows, c.Row)
		}
		got = append(got, span{v.Lo, v.Hi, rows})
	}
	want := []span{
		{100, 149, []gdbpb.Row{0}},
		{150, 160, []gdbpb.Row{0, 1}},
		{161, 169, []gdbpb.Row{0}},
		{170, 200, []gdbpb.Row{0, 2}},
		{201, 300, []gdbpb.Row{2}},
	}
	require.Equal(t, want, got)
}

func TestReconcileRejectsEndBeforeBegin(t *testing.T) {
	_, err := collect(t, ModeReconcile, []gdbpb.Cell{{Row: 0, Begin: 100, End: 50}})
	require.Error(t, err)
	var gerr *gdbpb.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, gdbpb.KindData, gerr.Kind)
}

func TestReconcileBypassModeEmitsOneVariantPerCell(t *testing.T) {
	out, err := collect(t, ModeBypass, []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 200},
		{Row: 1, Begin: 150, End: 160},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, gdbpb.Column(100), out[0].Lo)
	require.Equal(t, gdbpb.Column(200), out[0].Hi)
	require.Len(t, out[0].Calls, 1)
	require.Equal(t, gdbpb.Column(150), out[1].Lo)
	require.Equal(t, gdbpb.Column(160), out[1].Hi)
}

func TestReconcileFieldsAreCloned(t *testing.T) {
	fields := gdbpb.FieldBag{"GT": {Name: "GT", Ints: []int32{0, 1}}}
	out, err := collect(t, ModeReconcile, []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 100, Fields: fields},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	out[0].Calls[0].Fields["GT"].Ints[0] = 9
	require.Equal(t, int32(0), fields["GT"].Ints[0])
}
