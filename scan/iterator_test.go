// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuh0394/genomicsdb-go/arraystore/memstore"
	"github.com/liuh0394/genomicsdb-go/gdbpb"
	"github.com/liuh0394/genomicsdb-go/metadata"
	"github.com/liuh0394/genomicsdb-go/queryconfig"
)

func newResolver(t *testing.T) *metadata.Resolver {
	t.Helper()
	r, err := metadata.New(metadata.Inputs{
		Workspace:      "ws",
		CallsetMapJSON: []byte(`{"callsets":[{"sample_name":"s0","row_idx":0},{"sample_name":"s1","row_idx":1}]}`),
		VIDMapJSON:     []byte(`{"contigs":[{"name":"chr1","length":10000,"tiledb_column_offset":0}],"fields":[{"name":"GT","type":"int32"}]}`),
	})
	require.NoError(t, err)
	return r
}

func TestIteratorColumnMajorOrder(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{
		{Row: 1, Begin: 100, End: 100},
		{Row: 0, Begin: 100, End: 100},
		{Row: 0, Begin: 50, End: 50},
	})
	resolver := newResolver(t)
	cfg := queryconfig.Config{Workspace: "ws", ArrayName: "a"}

	it, err := Open(context.Background(), store, resolver, cfg)
	require.NoError(t, err)
	defer it.Close()

	var order []gdbpb.Column
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		order = append(order, c.Begin)
	}
	require.NoError(t, it.Err())
	require.Equal(t, []gdbpb.Column{50, 100, 100}, order)
}

func TestIteratorEmptyIntersection(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{{Row: 0, Begin: 100, End: 100}})
	resolver := newResolver(t)
	cfg := queryconfig.Config{
		Workspace:    "ws",
		ArrayName:    "a",
		ColumnRanges: []gdbpb.ColumnRange{{50000, 60000}},
	}

	it, err := Open(context.Background(), store, resolver, cfg)
	require.NoError(t, err)
	_, ok := it.Next()
	require.False(t, ok)
	require.NoError(t, it.Err())
}

func TestIteratorRejectsBadEnd(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{{Row: 0, Begin: 100, End: 50}})
	resolver := newResolver(t)
	cfg := queryconfig.Config{Workspace: "ws", ArrayName: "a"}

	it, err := Open(context.Background(), store, resolver, cfg)
	require.NoError(t, err)
	_, ok := it.Next()
	require.False(t, ok)
	require.Error(t, it.Err())
}

func TestIteratorMissingArray(t *testing.T) {
	store := memstore.New()
	resolver := newResolver(t)
	cfg := queryconfig.Config{Workspace: "ws", ArrayName: "missing"}
	_, err := Open(context.Background(), store, resolver, cfg)
	require.Error(t, err)
}
