// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuh0394/genomicsdb-go/arraystore"
	"github.com/liuh0394/genomicsdb-go/arraystore/memstore"
	"github.com/liuh0394/genomicsdb-go/gdbpb"
	"github.com/liuh0394/genomicsdb-go/metadata"
	"github.com/liuh0394/genomicsdb-go/queryconfig"
)

func testMetaInputs() metadata.Inputs {
	return metadata.Inputs{
		Workspace: "ws",
		CallsetMapJSON: []byte(`{"callsets":[
			{"sample_name":"s0","row_idx":0},
			{"sample_name":"s1","row_idx":1}
		]}`),
		VIDMapJSON: []byte(`{
			"contigs":[{"name":"chr1","length":10000,"tiledb_column_offset":0}],
			"fields":[
				{"name":"REF","type":"char","vcf_field_class":"INFO"},
				{"name":"ALT","type":"char","vcf_field_class":"INFO"},
				{"name":"GT","type":"int32","fixed_arity":true,"num_elements":2,"contains_phase":true,"vcf_field_class":"FORMAT"}
			]
		}`),
	}
}

func newTestEngine(t *testing.T, store arraystore.Store, array string) *Engine {
	t.Helper()
	wc := queryconfig.WireConfig{
		Workspace:  "ws",
		ArrayNames: []string{array},
	}
	e, err := New(store, testMetaInputs(), wc, 0)
	require.NoError(t, err)
	return e
}

// scenario 1 from spec.md §8: single-sample, single-SNV.
func TestQueryVariantsSingleSNV(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 100, Fields: gdbpb.FieldBag{
			"REF": {Name: "REF", Kind: gdbpb.FieldKindString, Strs: []string{"A"}},
			"ALT": {Name: "ALT", Kind: gdbpb.FieldKindString, Strs: []string{"C"}},
			"GT":  {Name: "GT", Kind: gdbpb.FieldKindInt32, Ints: []int32{0, 1}, Phased: []bool{false}},
		}},
	})
	e := newTestEngine(t, store, "a")

	handle, err := e.QueryVariants(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, handle.Size())
	v, err := handle.At(0)
	require.NoError(t, err)
	require.Equal(t, gdbpb.Column(100), v.Lo)
	require.Equal(t, gdbpb.Column(100), v.Hi)
	require.Len(t, v.Calls, 1)
	require.NoError(t, handle.Free())
}

// scenario 2 from spec.md §8: overlap split into three variants.
func TestQueryVariantsOverlapSplit(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 150, Fields: gdbpb.FieldBag{}},
		{Row: 1, Begin: 120, End: 200, Fields: gdbpb.FieldBag{}},
	})
	e := newTestEngine(t, store, "a")

	handle, err := e.QueryVariants(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, handle.Size())
	v0, _ := handle.At(0)
	v1, _ := handle.At(1)
	v2, _ := handle.At(2)
	require.Equal(t, gdbpb.ColumnRange{Lo: 100, Hi: 119}, gdbpb.ColumnRange{Lo: v0.Lo, Hi: v0.Hi})
	require.Equal(t, gdbpb.ColumnRange{Lo: 120, Hi: 150}, gdbpb.ColumnRange{Lo: v1.Lo, Hi: v1.Hi})
	require.Equal(t, gdbpb.ColumnRange{Lo: 151, Hi: 200}, gdbpb.ColumnRange{Lo: v2.Lo, Hi: v2.Hi})
}

func TestGenerateVCFWritesRecord(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 100, Fields: gdbpb.FieldBag{
			"REF": {Name: "REF", Kind: gdbpb.FieldKindString, Strs: []string{"A"}},
			"ALT": {Name: "ALT", Kind: gdbpb.FieldKindString, Strs: []string{"C"}},
			"GT":  {Name: "GT", Kind: gdbpb.FieldKindInt32, Ints: []int32{0, 1}, Phased: []bool{false}},
		}},
	})
	e := newTestEngine(t, store, "a")

	var buf bytes.Buffer
	require.NoError(t, e.GenerateVCF(context.Background(), &buf, nil))
	out := buf.String()
	require.Contains(t, out, "##fileformat=VCFv4.2")
	require.Contains(t, out, "chr1\t101")
}

func TestGeneratePedMapWritesFiles(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 100, Fields: gdbpb.FieldBag{
			"REF": {Name: "REF", Kind: gdbpb.FieldKindString, Strs: []string{"A"}},
			"ALT": {Name: "ALT", Kind: gdbpb.FieldKindString, Strs: []string{"C"}},
			"GT":  {Name: "GT", Kind: gdbpb.FieldKindInt32, Ints: []int32{0, 1}, Phased: []bool{false}},
		}},
	})
	e := newTestEngine(t, store, "a")

	prefix := filepath.Join(t.TempDir(), "out")
	err := e.GeneratePedMap(context.Background(), prefix, 0, PedMapOptions{CodecKind: arraystore.CodecZlib}, nil)
	require.NoError(t, err)

	for _, ext := range []string{".tped", ".tfam", ".bed", ".bim", ".fam", ".bgen"} {
		info, err := os.Stat(prefix + ext)
		require.NoError(t, err, "missing %s", ext)
		require.Greater(t, info.Size(), int64(0))
	}

	bed, err := os.ReadFile(prefix + ".bed")
	require.NoError(t, err)
	require.Equal(t, []byte{0x6C, 0x1B, 0x01}, bed[:3])

	bgen, err := os.ReadFile(prefix + ".bgen")
	require.NoError(t, err)
	// bytes 8-11 = M (variant count), bytes 12-15 = N (sample count),
	// per spec.md §8 scenario 6's header-backpatch assertion.
	m := uint32(bgen[8]) | uint32(bgen[9])<<8 | uint32(bgen[10])<<16 | uint32(bgen[11])<<24
	n := uint32(bgen[12]) | uint32(bgen[13])<<8 | uint32(bgen[14])<<16 | uint32(bgen[15])<<24
	require.Equal(t, uint32(1), m)
	require.Equal(t, uint32(1), n)
}

func TestVersion(t *testing.T) {
	require.NotEmpty(t, Version)
}

// countingProcessor exercises QueryVariantCalls' processor-mode path
// directly, independent of vcfout/plinkout.
type countingProcessor struct {
	variants int
	calls    int
}

func (p *countingProcessor) Initialize(fieldTypes map[string]gdbpb.FieldType) error { return nil }
func (p *countingProcessor) ProcessInterval(interval gdbpb.ColumnRange) error {
	p.variants++
	return nil
}
func (p *countingProcessor) ProcessCall(sampleName string, row gdbpb.Row, begin gdbpb.Column, genomic gdbpb.GenomicInterval, fields gdbpb.FieldBag) error {
	p.calls++
	return nil
}

func TestQueryVariantCallsProcessorMode(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 150, Fields: gdbpb.FieldBag{}},
		{Row: 1, Begin: 120, End: 200, Fields: gdbpb.FieldBag{}},
	})
	e := newTestEngine(t, store, "a")

	proc := &countingProcessor{}
	require.NoError(t, e.QueryVariantCalls(context.Background(), proc, nil))
	require.Equal(t, 3, proc.variants) // same split as TestQueryVariantsOverlapSplit
	require.Equal(t, 4, proc.calls)    // row0 in variants 0+1, row1 in variants 1+2
}

// ProduceGTField (restored in SPEC_FULL.md §6) must reach the scan
// iterator via Config.EffectiveAttributes, not just sit unread on Config.
func TestQueryVariantsProduceGTFieldForcesAttribute(t *testing.T) {
	store := memstore.New()
	store.AddArray("a", []gdbpb.Cell{
		{Row: 0, Begin: 100, End: 100, Fields: gdbpb.FieldBag{
			"REF": {Name: "REF", Kind: gdbpb.FieldKindString, Strs: []string{"A"}},
			"ALT": {Name: "ALT", Kind: gdbpb.FieldKindString, Strs: []string{"C"}},
			"GT":  {Name: "GT", Kind: gdbpb.FieldKindInt32, Ints: []int32{0, 1}, Phased: []bool{false}},
		}},
	})
	e := newTestEngine(t, store, "a")
	e.base.Attributes = []string{"REF", "ALT"}
	e.base.ProduceGTField = true

	handle, err := e.QueryVariants(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, handle.Size())
	v, err := handle.At(0)
	require.NoError(t, err)
	require.Len(t, v.Calls, 1)
	_, ok := v.Calls[0].Fields["GT"]
	require.True(t, ok, "GT must be scanned even though Attributes omitted it, because ProduceGTField was set")
}
