// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package result

import (
	"github.com/liuh0394/genomicsdb-go/gdbpb"
	"github.com/liuh0394/genomicsdb-go/metadata"
)

// Processor mode, per spec.md §4.E: a caller-supplied Processor receives
// one ProcessInterval call per reconciled variant, followed by one
// ProcessCall per participating call in ascending row order. Initialize is
// called once, before the first variant, with the full field-type map.
//
// Processors may suspend I/O (e.g. write to disk) but must not retain
// Fields beyond the call — the bag is only valid for the duration of the
// call, mirroring the borrowed-buffer lifetime of scan.Iterator cells.
type Processor interface {
	Initialize(fieldTypes map[string]gdbpb.FieldType) error
	ProcessInterval(interval gdbpb.ColumnRange) error
	ProcessCall(sampleName string, row gdbpb.Row, begin gdbpb.Column, genomic gdbpb.GenomicInterval, fields gdbpb.FieldBag) error
}

// Drive returns a func(gdbpb.Variant) error suitable for use as a
// reconcile.Reconciler's emit callback: each call drives one variant
// through proc. It calls proc.Initialize once, on the very first variant
// delivered, so callers don't need a separate priming step.
func Drive(resolver *metadata.Resolver, proc Processor) func(gdbpb.Variant) error {
	initialized := false
	var initErr error
	return func(v gdbpb.Variant) error {
		if !initialized {
			initialized = true
			initErr = proc.Initialize(resolver.FieldTypes())
		}
		if initErr != nil {
			return initErr
		}
		if err := proc.ProcessInterval(gdbpb.ColumnRange{Lo: v.Lo, Hi: v.Hi}); err != nil {
			return err
		}
		for _, call := range v.Calls {
			sample, err := resolver.RowToSample(call.Row)
			if err != nil {
				return err
			}
			genomic, err := resolver.ColumnToGenomic(call.Begin)
			if err != nil {
				return err
			}
			// call.End shares call.Begin's contig (a call never crosses a
			// contig boundary), so the same offset carries over: widen
			// PosHi to span [begin, end] rather than leaving genomic a
			// single point, per spec.md §4.E's process_call genomic_interval.
			genomic.PosHi = genomic.PosLo + int64(call.End-call.Begin)
			if err := proc.ProcessCall(sample, call.Row, call.Begin, genomic, call.Fields); err != nil {
				return err
			}
		}
		return nil
	}
}
