// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package arraystore defines the storage back-end contract spec.md §6
// describes (open/scan/close of fragments inside a named array, plus a
// codec registry) and a reference in-memory implementation,
// arraystore/memstore, used by the rest of this module's tests.
//
// The real array engine (tile I/O, fragment management, on-disk codec
// plugins) is an external collaborator and out of scope here; this package
// only fixes the shape of the contract the query engine consumes.
package arraystore

import (
	"context"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// Handle is an opaque array handle returned by Store.OpenArray. Concrete
// Store implementations define their own underlying type.
type Handle interface{}

// CellStream yields cells in column-major order ((Begin, Row) ascending)
// from one open array scan. It follows the teacher's Scan()/Record()-style
// reader idiom (encoding/pam.Reader): call Next() in a loop, call Cell()
// only while Next() last returned true, and check Err() once Next() returns
// false to distinguish a clean EOF from a failure.
type CellStream interface {
	Next() bool
	Cell() gdbpb.Cell
	Err() error
	Close() error
}

// Store is the storage back-end contract: open a named array inside a
// workspace, scan a projection of it, and close it. segmentSize bounds how
// many bytes of cell data the implementation may materialize per attribute
// at once (spec.md §4.C); a reference implementation that holds everything
// in memory (arraystore/memstore) is free to ignore it, but a real
// implementation must honor it to keep the scan iterator's memory bounded.
type Store interface {
	OpenArray(ctx context.Context, workspace, array string) (Handle, error)
	Scan(ctx context.Context, h Handle, attributes []string, rowRanges []gdbpb.RowRange, columnRanges []gdbpb.ColumnRange, segmentSize int64) (CellStream, error)
	Close(h Handle) error
}
