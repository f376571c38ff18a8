// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import (
	"fmt"
	"io"
	"strings"
)

// FamOverride supplies the PID/MID/SEX/PHEN columns for one sample, per
// spec.md §6 ("TFAM row: FID IID PID MID SEX PHEN, with
// PID/MID/SEX/PHEN = 0 unless a FAM override list is supplied"). A zero
// FamOverride is indistinguishable from "not supplied"; pass Phen = -9
// explicitly to encode an unknown-but-present phenotype.
type FamOverride struct {
	PaternalID string
	MaternalID string
	Sex        int
	Phen       int
}

// writeFAM writes one line per sample: family and individual id both set
// to the sample name. Parents, sex and phenotype default to 0 unless
// overrides names the sample.
func writeFAM(w io.Writer, samples *sampleIndex, overrides map[string]FamOverride) error {
	for i := 0; i < samples.Len(); i++ {
		name := samples.NameAt(i)
		pid, mid, sex, phen := "0", "0", 0, 0
		if ov, ok := overrides[name]; ok {
			if ov.PaternalID != "" {
				pid = ov.PaternalID
			}
			if ov.MaternalID != "" {
				mid = ov.MaternalID
			}
			sex = ov.Sex
			phen = ov.Phen
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", name, name, pid, mid, sex, phen); err != nil {
			return err
		}
	}
	return nil
}

// tpedEncoder writes one TPED line per variant: chrom, variant id,
// genetic distance (always 0, unknown), position, then one
// space-separated allele pair per sample in dense sample order.
type tpedEncoder struct {
	w io.Writer
}

func (e *tpedEncoder) WriteVariant(chrom string, pos int64, variantID string, pairs [][2]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t0\t%d", chrom, variantID, pos)
	for _, p := range pairs {
		fmt.Fprintf(&b, "\t%s %s", p[0], p[1])
	}
	b.WriteByte('\n')
	_, err := io.WriteString(e.w, b.String())
	return err
}

// alleleAt resolves an allele index to its letter/sequence: 0 is REF,
// i>=1 is alts[i-1]; an out-of-range or missing index is the PLINK
// missing-allele token "0".
func alleleAt(idx int32, ref string, alts []string) string {
	if idx == 0 {
		return ref
	}
	if idx >= 1 && int(idx-1) < len(alts) {
		return alts[idx-1]
	}
	return "0"
}

func genotypePair(g callGenotype, ref string, alts []string) [2]string {
	if g.missing || g.ploidy() != 2 {
		return [2]string{"0", "0"}
	}
	return [2]string{alleleAt(g.alleles[0], ref, alts), alleleAt(g.alleles[1], ref, alts)}
}
