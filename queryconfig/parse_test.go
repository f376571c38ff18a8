// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package queryconfig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

const testDoc = `{
  "workspace": "/data/ws",
  "array_names": ["shard0", "shard1"],
  "attributes": ["GT", "DP"],
  "row_range_sets": [[[0, 49]], [[50, 99]]],
  "column_ranges": [[1000, 2000]],
  "segment_size": 4194304
}`

func TestParseTextAndBinaryAgree(t *testing.T) {
	wcText, err := ParseText([]byte(testDoc))
	require.NoError(t, err)

	// The "same document as a string" form is byte-identical input, so it
	// must parse to the same WireConfig.
	wcString, err := ParseText([]byte(string(testDoc)))
	require.NoError(t, err)
	require.Equal(t, wcText, wcString)

	bin, err := MarshalBinary(wcText)
	require.NoError(t, err)
	wcBinary, err := ParseBinary(bin)
	require.NoError(t, err)
	require.Equal(t, wcText, wcBinary)
}

func TestNormalizeRankSelectsVectorElement(t *testing.T) {
	wc, err := ParseText([]byte(testDoc))
	require.NoError(t, err)

	cfg0, err := Normalize(wc, 0)
	require.NoError(t, err)
	require.Equal(t, "shard0", cfg0.ArrayName)
	require.Equal(t, []gdbpb.RowRange{{0, 49}}, cfg0.RowRanges)

	cfg1, err := Normalize(wc, 1)
	require.NoError(t, err)
	require.Equal(t, "shard1", cfg1.ArrayName)
	require.Equal(t, []gdbpb.RowRange{{50, 99}}, cfg1.RowRanges)

	// ColumnRangeSets has only one vector, so every rank uses it.
	require.Equal(t, cfg0.ColumnRanges, cfg1.ColumnRanges)
	require.Equal(t, []gdbpb.ColumnRange{{1000, 2000}}, cfg0.ColumnRanges)
}

func TestParseTextMissingWorkspace(t *testing.T) {
	_, err := ParseText([]byte(`{"array_name": "a"}`))
	require.Error(t, err)
}

func TestNormalizeRestoredOptionalFields(t *testing.T) {
	doc := `{
  "workspace": "/data/ws",
  "array_name": "a",
  "produce_gt_field": true,
  "produce_gt_with_min_phred_value": 20,
  "bypass_intersecting_intervals_phase": true,
  "max_diploid_alt_alleles_that_can_be_genotyped": 3
}`
	wc, err := ParseText([]byte(doc))
	require.NoError(t, err)
	cfg, err := Normalize(wc, 0)
	require.NoError(t, err)
	require.True(t, cfg.ProduceGTField)
	require.Equal(t, 20, cfg.ProduceGTWithMinPhredValue)
	require.True(t, cfg.BypassIntersectingIntervalsPhase)
	require.Equal(t, 3, cfg.MaxDiploidAltAllelesThatCanBeGenotyped)
	require.True(t, cfg.WantsAttribute("GT"))
}

func TestEffectiveRangesDefaults(t *testing.T) {
	cfg := Config{}
	require.Equal(t, []gdbpb.ColumnRange{gdbpb.ScanFull()}, cfg.EffectiveColumnRanges())
	require.Len(t, cfg.EffectiveRowRanges(), 1)
}

func TestIntersectDomainEmpty(t *testing.T) {
	cfg := Config{ColumnRanges: []gdbpb.ColumnRange{{100, 200}}}
	out := cfg.IntersectDomain(gdbpb.ColumnRange{300, 400})
	require.Empty(t, out)
}

func TestWantsAttribute(t *testing.T) {
	all := Config{}
	require.True(t, all.WantsAttribute("anything"))

	some := Config{Attributes: []string{"GT"}}
	require.True(t, some.WantsAttribute("GT"))
	require.False(t, some.WantsAttribute("DP"))
}
