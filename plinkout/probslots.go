// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

// compositions returns every non-negative integer vector of length parts
// summing to total, generated so that the last coordinate varies
// fastest. That is exactly the "colex order on (a_K,…,a_2)... K-th
// coordinate varying innermost" enumeration spec.md §4.G calls for: the
// first vector generated is (total,0,…,0) and the last is (0,…,0,total).
func compositions(total, parts int) [][]int {
	if parts <= 1 {
		return [][]int{{total}}
	}
	var out [][]int
	for a := total; a >= 0; a-- {
		for _, rest := range compositions(total-a, parts-1) {
			out = append(out, append([]int{a}, rest...))
		}
	}
	return out
}

// unphasedSlots returns the canonical probability-slot order for an
// unphased genotype of the given ploidy over numAlleles alleles, with the
// final slot (0,0,…,ploidy) dropped because probabilities sum to 1.
func unphasedSlots(ploidy, numAlleles int) [][]int {
	all := compositions(ploidy, numAlleles)
	if len(all) == 0 {
		return nil
	}
	return all[:len(all)-1]
}

// phasedSlot is one (haplotype index, allele index) probability slot.
type phasedSlot struct {
	Haplotype int
	Allele    int
}

// phasedSlots returns the ploidy * (numAlleles-1) slots for phased data:
// haplotype outer, with the last allele dropped per haplotype.
func phasedSlots(ploidy, numAlleles int) []phasedSlot {
	var out []phasedSlot
	for h := 0; h < ploidy; h++ {
		for a := 0; a < numAlleles-1; a++ {
			out = append(out, phasedSlot{Haplotype: h, Allele: a})
		}
	}
	return out
}
