// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package result implements component E: it surfaces reconciled variants
// either as a buffered collection (Handle) or by driving a caller-supplied
// Processor, per spec.md §4.E.
package result

import "github.com/liuh0394/genomicsdb-go/gdbpb"

// Handle is the collection-mode result: a buffered, owned list of
// reconciled variants supporting random access and forward iteration.
//
// Free must be called exactly once to release the buffer; a second call
// is rejected with StateError, mirroring the teacher's "Close must be
// called exactly once" convention (encoding/pam/pamreader.go,
// encoding/pam/pamwriter.go).
type Handle struct {
	variants []gdbpb.Variant
	pos      int
	freed    bool
}

// NewHandle wraps an already-materialized slice of variants. Callers
// typically build that slice by draining a reconcile.Reconciler's emit
// callback into a slice and passing it here.
func NewHandle(variants []gdbpb.Variant) *Handle {
	return &Handle{variants: variants}
}

// Size returns the number of buffered variants. It is valid after Free
// (returns 0), since callers may check Size in a defer alongside Free.
func (h *Handle) Size() int {
	if h.freed {
		return 0
	}
	return len(h.variants)
}

// At returns the i'th buffered variant.
func (h *Handle) At(i int) (gdbpb.Variant, error) {
	if h.freed {
		return gdbpb.Variant{}, gdbpb.New(gdbpb.KindState, "result handle already freed")
	}
	if i < 0 || i >= len(h.variants) {
		return gdbpb.Variant{}, gdbpb.New(gdbpb.KindNotFound, "result index %d out of range [0,%d)", i, len(h.variants))
	}
	return h.variants[i], nil
}

// Next returns the next unconsumed variant in forward order, or
// (zero, false) once exhausted or freed.
func (h *Handle) Next() (gdbpb.Variant, bool) {
	if h.freed || h.pos >= len(h.variants) {
		return gdbpb.Variant{}, false
	}
	v := h.variants[h.pos]
	h.pos++
	return v, true
}

// Free releases the handle's buffer. A second call returns StateError.
func (h *Handle) Free() error {
	if h.freed {
		return gdbpb.New(gdbpb.KindState, "result handle double free")
	}
	h.freed = true
	h.variants = nil
	return nil
}

// Collector accumulates variants delivered one at a time — e.g. directly
// from a reconcile.Reconciler's emit callback — and finishes into a
// Handle. It exists so engine code can write:
//
//	c := result.NewCollector()
//	rc := reconcile.New(mode, c.Add)
//	... feed cells ...
//	rc.Finish()
//	h := c.Finish()
type Collector struct {
	variants []gdbpb.Variant
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends v. It has the func(gdbpb.Variant) error signature a
// reconcile.Reconciler expects as its emit callback.
func (c *Collector) Add(v gdbpb.Variant) error {
	c.variants = append(c.variants, v)
	return nil
}

// Finish returns a Handle owning everything collected so far.
func (c *Collector) Finish() *Handle {
	return NewHandle(c.variants)
}
