// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenotypeCodeMapping(t *testing.T) {
	cases := []struct {
		g    callGenotype
		want byte
	}{
		{callGenotype{alleles: []int32{0, 0}}, codeHomRef},
		{callGenotype{alleles: []int32{1, 1}}, codeHomAlt},
		{callGenotype{alleles: []int32{0, 1}}, codeHet},
		{callGenotype{missing: true}, codeMissing},
		{callGenotype{alleles: []int32{0, 0, 0}}, codeMissing}, // ploidy != 2
	}
	for _, c := range cases {
		require.Equal(t, c.want, genotypeCode(c.g))
	}
}

func TestBedWriteVariantPacksFourSamplesPerByte(t *testing.T) {
	var bed, bim bytes.Buffer
	e := newBedEncoder(&bed, &bim)
	require.NoError(t, e.WriteMagic())
	require.Equal(t, []byte{bedMagic1, bedMagic2, bedModeSNPMajor}, bed.Bytes())

	genotypes := []callGenotype{
		{alleles: []int32{0, 0}}, // hom-ref -> 11
		{alleles: []int32{1, 1}}, // hom-alt -> 00
		{alleles: []int32{0, 1}}, // het -> 10
		{missing: true},          // missing -> 01
		{alleles: []int32{0, 0}}, // hom-ref -> 11, starts a new byte
	}
	require.NoError(t, e.WriteVariant("chr1", 100, "chr1:100", "A", "T", true, genotypes))

	row := bed.Bytes()[3:]
	require.Len(t, row, 2) // 5 samples -> 2 bytes, second one padded
	// bits, low-to-high: sample0=11, sample1=00, sample2=10, sample3=01
	require.Equal(t, byte(0b01_10_00_11), row[0])
	require.Equal(t, byte(0b11), row[1])

	require.Equal(t, "chr1\tchr1:100\t0\t100\tA\tT\n", bim.String())
}

func TestBedWriteVariantMultiallelicMapsToMissing(t *testing.T) {
	var bed, bim bytes.Buffer
	e := newBedEncoder(&bed, &bim)
	require.NoError(t, e.WriteMagic())
	genotypes := []callGenotype{{alleles: []int32{0, 1}}, {alleles: []int32{1, 2}}}
	require.NoError(t, e.WriteVariant("chr1", 1, "v", "A", "T", false, genotypes))
	row := bed.Bytes()[3:]
	require.Equal(t, byte(0b01_01), row[0])
}
