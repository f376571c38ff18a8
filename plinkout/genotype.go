// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import "github.com/liuh0394/genomicsdb-go/gdbpb"

// callGenotype is the decoded GT view of one Call, shared by the BED,
// TPED and BGEN encoders.
type callGenotype struct {
	alleles []int32
	phased  []bool
	missing bool
}

func decodeGenotype(call gdbpb.Call) callGenotype {
	fv, ok := call.Fields["GT"]
	if !ok || fv.Kind != gdbpb.FieldKindInt32 || len(fv.Ints) == 0 {
		return callGenotype{missing: true}
	}
	g := callGenotype{alleles: fv.Ints, phased: fv.Phased}
	for _, a := range fv.Ints {
		if a == gdbpb.MissingAllele {
			g.missing = true
			break
		}
	}
	return g
}

func (g callGenotype) ploidy() int { return len(g.alleles) }

// allPhased reports whether every adjacent pair in this genotype is
// phased. A haploid call (ploidy 1, no separators) counts as phased.
// Ploidy >= 2 requires an explicit phase bit per separator (invariant 4:
// "if phased, phase bits accompany the value"); a nil or short phased
// slice means unphased, not phased, matching vcfout/format.go's "/" for
// the same call.
func (g callGenotype) allPhased() bool {
	if g.missing || len(g.alleles) == 0 {
		return false
	}
	if len(g.alleles) == 1 {
		return true
	}
	if len(g.phased) < len(g.alleles)-1 {
		return false
	}
	for _, p := range g.phased {
		if !p {
			return false
		}
	}
	return true
}

func alleleStrings(call gdbpb.Call) (ref string, alts []string) {
	if fv, ok := call.Fields["REF"]; ok {
		ref = fv.ScalarString()
	}
	if fv, ok := call.Fields["ALT"]; ok {
		for _, a := range fv.ListStrings() {
			if a != "" && a != gdbpb.NonRefAllele {
				alts = append(alts, a)
			}
		}
	}
	return ref, alts
}
