// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package vcfout

import (
	"strings"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// pendingRecord accumulates one variant's calls until the next
// ProcessInterval (or Finish) closes it out.
type pendingRecord struct {
	interval gdbpb.ColumnRange
	chrom    string
	pos      int64

	haveRef bool
	ref     string

	haveQual bool
	qual     string

	altSeen   map[string]bool
	altOrder  []string
	sawNonRef bool

	filterSeen  map[string]bool
	filterOrder []string

	info    map[string]gdbpb.FieldValue
	samples []SampleRecord
}

// Emitter implements result.Processor, composing one Record per
// reconciled variant and handing it to an external Writer. Construct one
// per query; it is not safe for concurrent use.
type Emitter struct {
	w       Writer
	samples []string

	fieldTypes  map[string]gdbpb.FieldType
	infoOrder   []string
	formatOrder []string
	filterOrder []string

	headerWritten bool
	cur           *pendingRecord
}

// NewEmitter returns an Emitter. fieldOrder is the configured
// field_ordering (spec.md §4.A field_ordering); samples is the fixed
// column order for the FORMAT sample columns, typically
// resolver.SampleNames(cfg.EffectiveRowRanges()).
func NewEmitter(w Writer, fieldOrder []string, samples []string) *Emitter {
	e := &Emitter{w: w, samples: samples}
	for _, name := range fieldOrder {
		if name == "REF" || name == "ALT" || name == "QUAL" {
			continue
		}
		e.infoOrder = append(e.infoOrder, name) // refined against Class in Initialize
	}
	return e
}

// Initialize satisfies result.Processor: it classifies fields into the
// INFO, FORMAT and FILTER column orders and writes the VCF header.
func (e *Emitter) Initialize(fieldTypes map[string]gdbpb.FieldType) error {
	e.fieldTypes = fieldTypes
	var info, format, filter []string
	for _, name := range e.infoOrder {
		ft, ok := fieldTypes[name]
		if !ok {
			continue
		}
		switch ft.Class {
		case gdbpb.VCFFieldClassFormat:
			format = append(format, name)
		case gdbpb.VCFFieldClassFilter:
			filter = append(filter, name)
		case gdbpb.VCFFieldClassInfo:
			info = append(info, name)
		}
	}
	e.infoOrder, e.formatOrder, e.filterOrder = info, format, filter
	if err := e.w.WriteHeader(e.samples, e.infoOrder, e.formatOrder, fieldTypes); err != nil {
		return gdbpb.Wrap(err, gdbpb.KindIO, "writing VCF header")
	}
	e.headerWritten = true
	return nil
}

// ProcessInterval satisfies result.Processor: it flushes the previous
// variant (if any) and opens a new pending record.
func (e *Emitter) ProcessInterval(interval gdbpb.ColumnRange) error {
	if err := e.flush(); err != nil {
		return err
	}
	e.cur = &pendingRecord{
		interval:   interval,
		altSeen:    map[string]bool{},
		filterSeen: map[string]bool{},
		info:       map[string]gdbpb.FieldValue{},
	}
	return nil
}

// ProcessCall satisfies result.Processor: it folds one participating
// call's fields into the pending record (spec.md §4.F: REF from the
// first sample carrying it, ALT as a union of distinct alleles with
// <NON_REF> last, INFO as a union across samples, FORMAT per sample).
func (e *Emitter) ProcessCall(sampleName string, row gdbpb.Row, begin gdbpb.Column, genomic gdbpb.GenomicInterval, fields gdbpb.FieldBag) error {
	if e.cur == nil {
		return gdbpb.New(gdbpb.KindState, "ProcessCall called before ProcessInterval")
	}
	if e.cur.chrom == "" {
		e.cur.chrom = genomic.Contig
		e.cur.pos = genomic.PosLo + 1
	}
	if fv, ok := fields["REF"]; ok && !e.cur.haveRef {
		e.cur.ref = fv.ScalarString()
		e.cur.haveRef = true
	}
	if fv, ok := fields["QUAL"]; ok && !e.cur.haveQual {
		e.cur.qual = formatValue("QUAL", fv)
		e.cur.haveQual = true
	}
	for _, name := range e.filterOrder {
		if _, ok := fields[name]; ok && !e.cur.filterSeen[name] {
			e.cur.filterSeen[name] = true
			e.cur.filterOrder = append(e.cur.filterOrder, name)
		}
	}
	if fv, ok := fields["ALT"]; ok {
		for _, allele := range fv.ListStrings() {
			if allele == gdbpb.NonRefAllele {
				e.cur.sawNonRef = true
				continue
			}
			if allele == "" || e.cur.altSeen[allele] {
				continue
			}
			e.cur.altSeen[allele] = true
			e.cur.altOrder = append(e.cur.altOrder, allele)
		}
	}
	for _, name := range e.infoOrder {
		if _, have := e.cur.info[name]; have {
			continue
		}
		if fv, ok := fields[name]; ok {
			e.cur.info[name] = fv
		}
	}
	sample := SampleRecord{Name: sampleName, Fields: map[string]gdbpb.FieldValue{}}
	for _, name := range e.formatOrder {
		if fv, ok := fields[name]; ok {
			sample.Fields[name] = fv
		}
	}
	e.cur.samples = append(e.cur.samples, sample)
	return nil
}

// Finish flushes the final pending record. Call it once after the last
// variant has been delivered; it does not close the Writer.
func (e *Emitter) Finish() error {
	return e.flush()
}

// Close flushes any pending record and closes the underlying Writer.
func (e *Emitter) Close() error {
	if err := e.flush(); err != nil {
		_ = e.w.Close()
		return err
	}
	return e.w.Close()
}

func (e *Emitter) flush() error {
	if e.cur == nil {
		return nil
	}
	rec := Record{
		Chrom:       e.cur.chrom,
		Pos:         e.cur.pos,
		Ref:         e.cur.ref,
		Qual:        e.cur.qual,
		Filter:      strings.Join(e.cur.filterOrder, ";"),
		Info:        e.cur.info,
		FormatOrder: e.formatOrder,
		Samples:     e.cur.samples,
	}
	rec.Alt = e.cur.altOrder
	if e.cur.sawNonRef {
		rec.Alt = append(append([]string(nil), e.cur.altOrder...), gdbpb.NonRefAllele)
	}
	e.cur = nil
	if err := e.w.WriteRecord(rec); err != nil {
		return gdbpb.Wrap(err, gdbpb.KindIO, "writing VCF record at %s", rec.Chrom)
	}
	return nil
}
