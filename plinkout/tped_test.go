// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFAM(t *testing.T) {
	var buf bytes.Buffer
	s := newSampleIndex()
	s.Observe(0, "s0")
	s.Observe(1, "s1")
	require.NoError(t, writeFAM(&buf, s, nil))
	require.Equal(t, "s0\ts0\t0\t0\t0\t0\ns1\ts1\t0\t0\t0\t0\n", buf.String())
}

func TestWriteFAMWithOverride(t *testing.T) {
	var buf bytes.Buffer
	s := newSampleIndex()
	s.Observe(0, "s0")
	overrides := map[string]FamOverride{"s0": {PaternalID: "dad", MaternalID: "mom", Sex: 1, Phen: 2}}
	require.NoError(t, writeFAM(&buf, s, overrides))
	require.Equal(t, "s0\ts0\tdad\tmom\t1\t2\n", buf.String())
}

func TestTpedEncoderWriteVariant(t *testing.T) {
	var buf bytes.Buffer
	e := &tpedEncoder{w: &buf}
	pairs := [][2]string{{"A", "A"}, {"0", "0"}}
	require.NoError(t, e.WriteVariant("chr1", 100, "chr1:100", pairs))
	require.Equal(t, "chr1\tchr1:100\t0\t100\tA A\t0 0\n", buf.String())
}

func TestGenotypePairResolvesAlleles(t *testing.T) {
	g := callGenotype{alleles: []int32{0, 1}}
	pair := genotypePair(g, "A", []string{"T"})
	require.Equal(t, [2]string{"A", "T"}, pair)

	missing := callGenotype{missing: true}
	require.Equal(t, [2]string{"0", "0"}, genotypePair(missing, "A", []string{"T"}))
}
