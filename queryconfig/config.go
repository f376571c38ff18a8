// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package queryconfig implements component B: it normalizes a query
// configuration document (structured text, the same text as a string, or a
// binary schema payload) plus an externally supplied concurrency rank into
// one immutable Config.
package queryconfig

import (
	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// DefaultSegmentSize is the default in-memory read window, per field, that
// the scan iterator is allowed to materialize at once: 10 MiB.
const DefaultSegmentSize = 10 << 20

// Config is one engine's normalized, immutable query configuration: the
// result of resolving a WireConfig document against a concurrency rank.
type Config struct {
	Workspace    string
	ArrayName    string
	Attributes   []string // empty means "all attributes"
	RowRanges    []gdbpb.RowRange
	ColumnRanges []gdbpb.ColumnRange
	SegmentSize  int64
	Rank         int

	// ProduceGTField adds GT to the scanned attribute set even when
	// absent from Attributes (see EffectiveAttributes), per
	// original_source's produce_gt_field knob (restored in SPEC_FULL.md
	// §6). Cells that carry no GT are not given a synthesized one.
	ProduceGTField bool
	// ProduceGTWithMinPhredValue carries the document's
	// produce_gt_with_min_phred_value; no component reads it, so no
	// minimum is applied.
	ProduceGTWithMinPhredValue int

	// BypassIntersectingIntervalsPhase selects reconcile.ModeBypass:
	// cells are surfaced as one-call variants without merge/split,
	// per SPEC_FULL.md §6.
	BypassIntersectingIntervalsPhase bool

	// MaxDiploidAltAllelesThatCanBeGenotyped bounds how many distinct ALT
	// alleles a PLINK BED row may carry before plinkout forces the
	// genotype to missing (BGEN rows are not affected). The GenomicsDB default is strictly biallelic
	// (1); 0 is treated as "use the default".
	MaxDiploidAltAllelesThatCanBeGenotyped int
}

// EffectiveMaxDiploidAltAlleles returns MaxDiploidAltAllelesThatCanBeGenotyped,
// defaulting to 1 (strictly biallelic) when unset.
func (c Config) EffectiveMaxDiploidAltAlleles() int {
	if c.MaxDiploidAltAllelesThatCanBeGenotyped <= 0 {
		return 1
	}
	return c.MaxDiploidAltAllelesThatCanBeGenotyped
}

// AllAttributes reports whether the configuration requests every attribute
// (an empty Attributes list).
func (c Config) AllAttributes() bool {
	return len(c.Attributes) == 0
}

// WantsAttribute reports whether name should be decoded by the scan
// iterator, honoring AllAttributes.
func (c Config) WantsAttribute(name string) bool {
	if c.AllAttributes() {
		return true
	}
	if name == "GT" && c.ProduceGTField {
		return true
	}
	for _, a := range c.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// EffectiveAttributes returns c.Attributes, augmented with "GT" when
// ProduceGTField is set and the configured subset would otherwise omit
// it. An empty/all-attributes configuration is returned unchanged, since
// AllAttributes already includes GT.
func (c Config) EffectiveAttributes() []string {
	if c.AllAttributes() || !c.ProduceGTField {
		return c.Attributes
	}
	for _, a := range c.Attributes {
		if a == "GT" {
			return c.Attributes
		}
	}
	return append(append([]string(nil), c.Attributes...), "GT")
}

// EffectiveRowRanges returns c.RowRanges, or the universal row range if none
// were configured ("empty row ranges denote all rows", spec.md §4.B).
func (c Config) EffectiveRowRanges() []gdbpb.RowRange {
	if len(c.RowRanges) > 0 {
		return c.RowRanges
	}
	return []gdbpb.RowRange{{Lo: 0, Hi: gdbpb.Row(1<<63 - 1)}}
}

// EffectiveColumnRanges returns c.ColumnRanges, or SCAN_FULL if none were
// configured.
func (c Config) EffectiveColumnRanges() []gdbpb.ColumnRange {
	if len(c.ColumnRanges) > 0 {
		return c.ColumnRanges
	}
	return []gdbpb.ColumnRange{gdbpb.ScanFull()}
}

// IntersectDomain computes, once, the intersection of the configured column
// ranges with the array's domain (derived from the contig table). An empty
// intersection means the query yields an empty result without ever opening
// a fragment, per spec.md §4.B.
func (c Config) IntersectDomain(domain gdbpb.ColumnRange) []gdbpb.ColumnRange {
	var out []gdbpb.ColumnRange
	for _, r := range c.EffectiveColumnRanges() {
		if ix, ok := r.Intersect(domain); ok {
			out = append(out, ix)
		}
	}
	return out
}
