// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package scan implements component C: it produces cells from an
// arraystore.Store in column-major order, restricted to a query's
// configured row/column ranges and attribute projection.
package scan

import (
	"context"

	grerrors "github.com/grailbio/base/errors"
	"v.io/x/lib/vlog"

	"github.com/liuh0394/genomicsdb-go/arraystore"
	"github.com/liuh0394/genomicsdb-go/gdbpb"
	"github.com/liuh0394/genomicsdb-go/metadata"
	"github.com/liuh0394/genomicsdb-go/queryconfig"
)

// Iterator delivers cells in column-major order: primary key Begin
// ascending, secondary key Row ascending. Use it as:
//
//	it, err := scan.Open(ctx, store, resolver, cfg)
//	if err != nil { ... }
//	defer it.Close()
//	for {
//	    cell, ok := it.Next()
//	    if !ok { break }
//	    ... use cell ...
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	store  arraystore.Store
	handle arraystore.Handle
	stream arraystore.CellStream

	cfg   queryconfig.Config
	empty bool // true when the configured ranges don't intersect the array domain

	havePrev bool
	prev     gdbpb.Cell

	err    grerrors.Once
	closed bool
}

// Open opens cfg.ArrayName inside cfg.Workspace and begins a scan over the
// intersection of cfg's ranges with the array's domain, as resolved by
// resolver. An empty intersection yields an iterator that immediately
// reports end-of-stream without ever calling store.Scan (spec.md §4.B).
func Open(ctx context.Context, store arraystore.Store, resolver *metadata.Resolver, cfg queryconfig.Config) (*Iterator, error) {
	domain := resolver.Domain()
	ranges := cfg.IntersectDomain(domain)
	if len(ranges) == 0 {
		vlog.VI(1).Infof("scan: array %q rank %d: configured ranges do not intersect domain %+v; empty scan", cfg.ArrayName, cfg.Rank, domain)
		return &Iterator{cfg: cfg, empty: true}, nil
	}

	handle, err := store.OpenArray(ctx, cfg.Workspace, cfg.ArrayName)
	if err != nil {
		return nil, gdbpb.Wrap(err, gdbpb.KindIO, "opening array %q", cfg.ArrayName)
	}
	stream, err := store.Scan(ctx, handle, cfg.EffectiveAttributes(), cfg.EffectiveRowRanges(), ranges, cfg.SegmentSize)
	if err != nil {
		_ = store.Close(handle)
		return nil, gdbpb.Wrap(err, gdbpb.KindIO, "scanning array %q", cfg.ArrayName)
	}
	return &Iterator{store: store, handle: handle, stream: stream, cfg: cfg}, nil
}

// Next advances to and returns the next cell. It returns false at
// end-of-stream or on error; call Err afterward to tell them apart.
func (it *Iterator) Next() (gdbpb.Cell, bool) {
	if it.empty || it.closed || it.err.Err() != nil {
		return gdbpb.Cell{}, false
	}
	if !it.stream.Next() {
		if err := it.stream.Err(); err != nil {
			it.err.Set(gdbpb.Wrap(err, gdbpb.KindIO, "scanning array %q", it.cfg.ArrayName)) // nolint: errcheck
		}
		return gdbpb.Cell{}, false
	}
	cell := it.stream.Cell()
	if cell.End < cell.Begin {
		it.err.Set(gdbpb.New(gdbpb.KindData, "cell at row %d column %d has END %d < begin", int64(cell.Row), int64(cell.Begin), int64(cell.End))) // nolint: errcheck
		return gdbpb.Cell{}, false
	}
	if it.havePrev {
		switch {
		case cell.Begin < it.prev.Begin:
			it.err.Set(gdbpb.New(gdbpb.KindData, "scan delivered column %d out of order after %d", int64(cell.Begin), int64(it.prev.Begin))) // nolint: errcheck
			return gdbpb.Cell{}, false
		case cell.Begin == it.prev.Begin && cell.Row <= it.prev.Row:
			it.err.Set(gdbpb.New(gdbpb.KindData, "duplicate or out-of-order row %d at column %d (invariant 2 violated)", int64(cell.Row), int64(cell.Begin))) // nolint: errcheck
			return gdbpb.Cell{}, false
		}
	}
	it.prev = cell
	it.havePrev = true
	return cell, true
}

// Err returns the first error encountered, if any. It never returns a
// clean-EOF sentinel; Next already encodes that as (zero, false).
func (it *Iterator) Err() error {
	return it.err.Err()
}

// Close releases the underlying array handle. It is safe to call multiple
// times.
func (it *Iterator) Close() error {
	if it.closed || it.empty {
		it.closed = true
		return nil
	}
	it.closed = true
	if err := it.stream.Close(); err != nil && it.err.Err() == nil {
		it.err.Set(err) // nolint: errcheck
	}
	if err := it.store.Close(it.handle); err != nil && it.err.Err() == nil {
		it.err.Set(err) // nolint: errcheck
	}
	return it.err.Err()
}
