// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package vcfout implements component F: it consumes result.Processor
// callbacks and composes VCF 4.2 records, delegating the actual write (and
// any compression/indexing) to an external Writer — the "external VCF
// back-end" spec.md §6 calls out as out of scope for the core engine.
package vcfout

import (
	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// Record is one composed VCF data line, ready for a Writer.
type Record struct {
	Chrom  string
	Pos    int64 // 1-based
	ID     string
	Ref    string
	Alt    []string
	Qual   string
	Filter string

	// Info holds the union of INFO-class fields seen across this
	// variant's calls (spec.md §4.F: "QUAL/FILTER/INFO from the union
	// across samples").
	Info map[string]gdbpb.FieldValue

	// FormatOrder is the configured FORMAT column order (field_ordering,
	// restricted to FORMAT-class fields).
	FormatOrder []string
	Samples     []SampleRecord
}

// SampleRecord is one sample's FORMAT-class field values for a Record.
type SampleRecord struct {
	Name   string
	Fields map[string]gdbpb.FieldValue
}

// Writer is the narrow external VCF back-end boundary. The core package
// only composes Records; an external Writer owns the actual bytes, any
// compression (e.g. bgzip) and indexing (e.g. tabix).
type Writer interface {
	// WriteHeader is called once, before the first record, with the
	// sample column order and the FORMAT/INFO field orders that will
	// appear on every subsequent Record.
	WriteHeader(samples []string, infoOrder, formatOrder []string, fieldTypes map[string]gdbpb.FieldType) error
	WriteRecord(rec Record) error
	Close() error
}
