// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import (
	"fmt"
	"io"
)

// BED magic bytes and SNP-major mode byte. BED's header is fixed-size
// (these 3 bytes) and carries no counts, unlike BGEN's, so it needs no
// placeholder/backfill.
const (
	bedMagic1       = 0x6c
	bedMagic2       = 0x1b
	bedModeSNPMajor = 0x01
)

const (
	codeHomAlt  = 0b00
	codeMissing = 0b01
	codeHet     = 0b10
	codeHomRef  = 0b11
)

// bedEncoder packs one variant row of genotypes into PLINK's BED
// SNP-major 2-bit format and writes the matching BIM line.
type bedEncoder struct {
	bed        io.Writer
	bim        io.Writer
	wroteMagic bool
}

func newBedEncoder(bed, bim io.Writer) *bedEncoder {
	return &bedEncoder{bed: bed, bim: bim}
}

func (e *bedEncoder) WriteMagic() error {
	if e.wroteMagic {
		return nil
	}
	e.wroteMagic = true
	_, err := e.bed.Write([]byte{bedMagic1, bedMagic2, bedModeSNPMajor})
	return err
}

// WriteVariant packs one row (all samples, dense order, 4 per byte,
// little-endian within a byte) and writes the matching BIM line. A
// partial trailing byte is zero-padded. The emitter passes biallelic =
// false when the variant has more observed ALT alleles than its
// configured limit (one by default); such variants are mapped entirely
// to missing, per spec.md §4.G.
func (e *bedEncoder) WriteVariant(chrom string, pos int64, variantID, a1, a2 string, biallelic bool, genotypes []callGenotype) error {
	if _, err := fmt.Fprintf(e.bim, "%s\t%s\t0\t%d\t%s\t%s\n", chrom, variantID, pos, a1, a2); err != nil {
		return err
	}
	var buf byteBuffer
	var cur byte
	var bit uint
	for _, g := range genotypes {
		code := byte(codeMissing)
		if biallelic {
			code = genotypeCode(g)
		}
		cur |= code << bit
		bit += 2
		if bit == 8 {
			buf.PutUint8(cur)
			cur, bit = 0, 0
		}
	}
	if bit > 0 {
		buf.PutUint8(cur)
	}
	_, err := e.bed.Write(buf.Bytes())
	return err
}

// genotypeCode maps a decoded genotype to BED's 2-bit code:
// 00 hom-alt, 01 missing, 10 het, 11 hom-ref. Ploidy != 2 maps to
// missing, per spec.md §4.G.
func genotypeCode(g callGenotype) byte {
	if g.missing || g.ploidy() != 2 {
		return codeMissing
	}
	a, b := g.alleles[0], g.alleles[1]
	switch {
	case a == 0 && b == 0:
		return codeHomRef
	case a != 0 && b != 0 && a == b:
		return codeHomAlt
	case a != b:
		return codeHet
	default:
		return codeMissing
	}
}
