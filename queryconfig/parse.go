// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package queryconfig

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// WireRange is the wire representation of an inclusive [Lo, Hi] range,
// shared by row and column ranges.
type WireRange struct {
	Lo, Hi int64
}

// WireConfig is the single canonical shape every supported document form
// (structured text, the same text as a string, or a binary schema payload)
// decodes into. ArrayNames/RowRangeSets/ColumnRangeSets are always stored as
// vectors: a document describing one rank has a vector of length 1, a
// document describing several ranks (e.g. shared across an MPI job) has one
// element per rank.
type WireConfig struct {
	Workspace       string
	ArrayNames      []string
	Attributes      []string
	RowRangeSets    [][]WireRange
	ColumnRangeSets [][]WireRange
	SegmentSize     int64

	ProduceGTField                          bool
	ProduceGTWithMinPhredValue              int
	BypassIntersectingIntervalsPhase        bool
	MaxDiploidAltAllelesThatCanBeGenotyped   int
}

// jsonConfig mirrors the on-disk/string document shape. Both the singular
// (array_name, row_ranges, column_ranges — one rank's worth) and plural
// (array_names, row_range_sets, column_range_sets — one element per rank)
// spellings are accepted; exactly one of each pair should be present in a
// well-formed document, but if both are, the plural form wins.
type jsonConfig struct {
	Workspace   string      `json:"workspace"`
	ArrayName   string      `json:"array_name"`
	ArrayNames  []string    `json:"array_names"`
	Attributes  []string    `json:"attributes"`
	RowRanges   [][2]int64  `json:"row_ranges"`
	RowRangeSets [][][2]int64 `json:"row_range_sets"`
	ColumnRanges [][2]int64 `json:"column_ranges"`
	ColumnRangeSets [][][2]int64 `json:"column_range_sets"`
	SegmentSize int64       `json:"segment_size"`

	ProduceGTField                         bool `json:"produce_gt_field"`
	ProduceGTWithMinPhredValue              int  `json:"produce_gt_with_min_phred_value"`
	BypassIntersectingIntervalsPhase       bool `json:"bypass_intersecting_intervals_phase"`
	MaxDiploidAltAllelesThatCanBeGenotyped  int  `json:"max_diploid_alt_alleles_that_can_be_genotyped"`

	// Version allows newer documents to add fields without breaking older
	// readers: unknown fields are always ignored (segmentio/encoding/json
	// behaves like encoding/json in this respect), but a version bump lets
	// callers reason about which optional fields to expect.
	Version int `json:"version"`
}

func wireRangesFrom(pairs [][2]int64) []WireRange {
	out := make([]WireRange, len(pairs))
	for i, p := range pairs {
		out[i] = WireRange{Lo: p[0], Hi: p[1]}
	}
	return out
}

func (j jsonConfig) toWire() WireConfig {
	wc := WireConfig{
		Workspace:                              j.Workspace,
		Attributes:                              j.Attributes,
		SegmentSize:                             j.SegmentSize,
		ProduceGTField:                          j.ProduceGTField,
		ProduceGTWithMinPhredValue:              j.ProduceGTWithMinPhredValue,
		BypassIntersectingIntervalsPhase:        j.BypassIntersectingIntervalsPhase,
		MaxDiploidAltAllelesThatCanBeGenotyped:   j.MaxDiploidAltAllelesThatCanBeGenotyped,
	}
	switch {
	case len(j.ArrayNames) > 0:
		wc.ArrayNames = j.ArrayNames
	case j.ArrayName != "":
		wc.ArrayNames = []string{j.ArrayName}
	}
	switch {
	case len(j.RowRangeSets) > 0:
		for _, set := range j.RowRangeSets {
			wc.RowRangeSets = append(wc.RowRangeSets, wireRangesFrom(set))
		}
	case len(j.RowRanges) > 0:
		wc.RowRangeSets = [][]WireRange{wireRangesFrom(j.RowRanges)}
	}
	switch {
	case len(j.ColumnRangeSets) > 0:
		for _, set := range j.ColumnRangeSets {
			wc.ColumnRangeSets = append(wc.ColumnRangeSets, wireRangesFrom(set))
		}
	case len(j.ColumnRanges) > 0:
		wc.ColumnRangeSets = [][]WireRange{wireRangesFrom(j.ColumnRanges)}
	}
	return wc
}

// ParseText decodes a structured-text query configuration document. It is
// used for both supported text forms (a file's contents, or the identical
// text passed as a string) — callers read the file themselves and pass the
// bytes, since file access belongs to the storage back-end's contract, not
// this package.
func ParseText(data []byte) (WireConfig, error) {
	var j jsonConfig
	if err := json.Unmarshal(data, &j); err != nil {
		return WireConfig{}, gdbpb.Wrap(err, gdbpb.KindConfig, "parsing query configuration text")
	}
	if j.Workspace == "" {
		return WireConfig{}, gdbpb.New(gdbpb.KindConfig, "missing required field \"workspace\"")
	}
	return j.toWire(), nil
}

// ParseBinary decodes a binary schema payload. The wire format is a gob
// encoding of WireConfig itself: unlike the text form there is no
// scalar/vector ambiguity to resolve, so the binary payload is already
// canonical.
func ParseBinary(data []byte) (WireConfig, error) {
	var wc WireConfig
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&wc); err != nil {
		return WireConfig{}, gdbpb.Wrap(err, gdbpb.KindConfig, "parsing binary query configuration")
	}
	if wc.Workspace == "" {
		return WireConfig{}, gdbpb.New(gdbpb.KindConfig, "missing required field \"workspace\"")
	}
	return wc, nil
}

// MarshalBinary encodes a WireConfig into the binary schema payload form
// ParseBinary understands. It is mainly useful for tests that must assert
// all three input forms normalize identically.
func MarshalBinary(wc WireConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wc); err != nil {
		return nil, errors.Wrap(err, "encoding binary query configuration")
	}
	return buf.Bytes(), nil
}

func selectRank[T any](sets []T, rank int) (T, bool) {
	var zero T
	if len(sets) == 0 {
		return zero, false
	}
	if rank > 0 && rank < len(sets) {
		return sets[rank], true
	}
	return sets[0], true
}

func rowRangesFromWire(wrs []WireRange) []gdbpb.RowRange {
	out := make([]gdbpb.RowRange, len(wrs))
	for i, w := range wrs {
		out[i] = gdbpb.RowRange{Lo: gdbpb.Row(w.Lo), Hi: gdbpb.Row(w.Hi)}
	}
	return out
}

func columnRangesFromWire(wrs []WireRange) []gdbpb.ColumnRange {
	out := make([]gdbpb.ColumnRange, len(wrs))
	for i, w := range wrs {
		out[i] = gdbpb.ColumnRange{Lo: gdbpb.Column(w.Lo), Hi: gdbpb.Column(w.Hi)}
	}
	return out
}

// Normalize resolves a WireConfig against an externally supplied
// concurrency rank into an immutable Config. Per spec.md §4.B: when rank >
// 0 and a field holds several rank-vectors, the rank-th element is
// selected; otherwise (rank == 0, or the field has only one vector) the
// first is used. The rank never comes from the document itself (spec.md §9,
// "Global process state": it is threaded through explicitly).
func Normalize(wc WireConfig, rank int) (Config, error) {
	if wc.Workspace == "" {
		return Config{}, gdbpb.New(gdbpb.KindConfig, "missing required field \"workspace\"")
	}
	cfg := Config{
		Workspace:                               wc.Workspace,
		Attributes:                               wc.Attributes,
		SegmentSize:                              wc.SegmentSize,
		Rank:                                     rank,
		ProduceGTField:                           wc.ProduceGTField,
		ProduceGTWithMinPhredValue:               wc.ProduceGTWithMinPhredValue,
		BypassIntersectingIntervalsPhase:         wc.BypassIntersectingIntervalsPhase,
		MaxDiploidAltAllelesThatCanBeGenotyped:    wc.MaxDiploidAltAllelesThatCanBeGenotyped,
	}
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = DefaultSegmentSize
	}
	if array, ok := selectRank(wc.ArrayNames, rank); ok {
		cfg.ArrayName = array
	} else {
		return Config{}, gdbpb.New(gdbpb.KindConfig, "missing required field \"array_name\"")
	}
	if rowSet, ok := selectRank(wc.RowRangeSets, rank); ok {
		cfg.RowRanges = rowRangesFromWire(rowSet)
	}
	if colSet, ok := selectRank(wc.ColumnRangeSets, rank); ok {
		cfg.ColumnRanges = columnRangesFromWire(colSet)
	}
	for _, rr := range cfg.RowRanges {
		if rr.Hi < rr.Lo {
			return Config{}, gdbpb.New(gdbpb.KindConfig, "row range [%d,%d] has Hi < Lo", rr.Lo, rr.Hi)
		}
	}
	for _, cr := range cfg.ColumnRanges {
		if cr.Hi < cr.Lo {
			return Config{}, gdbpb.New(gdbpb.KindConfig, "column range [%d,%d] has Hi < Lo", cr.Lo, cr.Hi)
		}
	}
	return cfg, nil
}
