// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import (
	"bytes"
	"io"

	"github.com/liuh0394/genomicsdb-go/arraystore"
	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// bgenCompressionFlag maps an arraystore.Codec selection onto BGEN v1.2's
// 2-bit compression flag (spec.md §4.G: "0 none, 1 zlib, 2 zstd"). GZIP is
// not a legal BGEN wire value, only a storage-tile codec.
func bgenCompressionFlag(kind arraystore.CodecKind) (uint32, error) {
	switch kind {
	case arraystore.CodecNone:
		return 0, nil
	case arraystore.CodecZlib:
		return 1, nil
	case arraystore.CodecZSTD:
		return 2, nil
	default:
		return 0, gdbpb.New(gdbpb.KindConfig, "codec %v is not a valid BGEN compression flag", kind)
	}
}

const (
	bgenLayoutVersion     = 2
	bgenSampleIDPresentBit = uint32(1) << 31
	bgenBitDepth          = 8
)

// SeekWriter is what the BGEN encoder needs from its output: ordinary
// writes for the streaming body, plus Seek to back-patch the M/N header
// placeholders once both counts are known (spec.md §4.G "seek-and-patch").
type SeekWriter interface {
	io.Writer
	io.Seeker
}

// bgenEncoder writes a BGEN v1.2 file: a fixed header (with M/N
// backfilled at Finalize), an optional sample identifier block, and one
// variant block per WriteVariant call.
type bgenEncoder struct {
	w           SeekWriter
	codecKind   arraystore.CodecKind
	codec       arraystore.Codec
	sampleIDs   bool
	headerLen   uint32
	mOffset     int64
	nOffset     int64
	variantSeen uint32
}

func newBGENEncoder(w SeekWriter, codecKind arraystore.CodecKind, withSampleIDs bool) *bgenEncoder {
	return &bgenEncoder{w: w, codecKind: codecKind, sampleIDs: withSampleIDs}
}

// WriteHeader writes the fixed BGEN header and, if sampleIDs is set, the
// sample identifier block. M and N are written as placeholders; their
// offsets are recorded for Finalize to patch.
func (e *bgenEncoder) WriteHeader(sampleNames []string) error {
	flag, err := bgenCompressionFlag(e.codecKind)
	if err != nil {
		return err
	}
	var sampleBlock byteBuffer
	if e.sampleIDs {
		for _, name := range sampleNames {
			sampleBlock.PutLengthPrefixed(name)
		}
	}
	e.headerLen = 20 + uint32(sampleBlock.Len())
	offsetToFirstBlock := e.headerLen

	var b byteBuffer
	b.PutUint32(offsetToFirstBlock)
	b.PutUint32(e.headerLen)
	e.mOffset = 8
	b.PutUint32(0) // M placeholder
	e.nOffset = 12
	b.PutUint32(0) // N placeholder
	b.PutBytes([]byte("bgen"))
	flags := flag | (uint32(bgenLayoutVersion) << 2)
	if e.sampleIDs {
		flags |= bgenSampleIDPresentBit
	}
	b.PutUint32(flags)
	if e.sampleIDs {
		b.PutBytes(sampleBlock.Bytes())
	}
	_, err = e.w.Write(b.Bytes())
	return err
}

// WriteVariant writes one variant block: id/rsid/chrom/pos, K
// length-prefixed alleles (REF first), then a (possibly compressed)
// genotype probability block.
func (e *bgenEncoder) WriteVariant(variantID, rsid, chrom string, pos uint32, alleles []string, genotypes []callGenotype, phased bool) error {
	var b byteBuffer
	b.PutLengthPrefixed(variantID)
	b.PutLengthPrefixed(rsid)
	b.PutLengthPrefixed(chrom)
	b.PutUint32(pos)
	b.PutUint16(uint16(len(alleles)))
	for _, a := range alleles {
		b.PutLengthPrefixed(a)
	}

	probBlock, err := e.buildProbabilityBlock(len(alleles), genotypes, phased)
	if err != nil {
		return err
	}
	if err := e.writeCompressedBlock(&b, probBlock); err != nil {
		return err
	}
	if _, err := e.w.Write(b.Bytes()); err != nil {
		return err
	}
	e.variantSeen++
	return nil
}

// buildProbabilityBlock lays out the layout-2, bit-depth-8 probability
// block described in spec.md §4.G, patching the min/max ploidy bytes
// (offsets 6 and 7) once every sample has been visited.
//
// GenomicsDB stores called genotypes, not genotype likelihoods, so each
// sample's slots are populated as a one-hot hard call rather than a real
// probability distribution.
func (e *bgenEncoder) buildProbabilityBlock(numAlleles int, genotypes []callGenotype, phased bool) ([]byte, error) {
	var b byteBuffer
	b.PutUint32(uint32(len(genotypes)))
	b.PutUint16(uint16(numAlleles))
	minOffset, maxOffset := b.Len(), b.Len()+1
	b.PutUint8(0) // min ploidy placeholder
	b.PutUint8(0) // max ploidy placeholder

	minPloidy, maxPloidy := -1, -1
	for _, g := range genotypes {
		p := g.ploidy()
		if p == 0 {
			p = 2
		}
		ploidyByte := uint8(p)
		if g.missing {
			ploidyByte |= 1 << 7
		}
		b.PutUint8(ploidyByte)
		if minPloidy == -1 || p < minPloidy {
			minPloidy = p
		}
		if p > maxPloidy {
			maxPloidy = p
		}
	}
	if minPloidy == -1 {
		minPloidy, maxPloidy = 0, 0
	}
	b.PatchUint8(minOffset, uint8(minPloidy))
	b.PatchUint8(maxOffset, uint8(maxPloidy))

	phasedByte := uint8(0)
	if phased {
		phasedByte = 1
	}
	b.PutUint8(phasedByte)
	b.PutUint8(bgenBitDepth)

	for _, g := range genotypes {
		p := g.ploidy()
		if p == 0 {
			p = 2
		}
		var payload []byte
		if phased {
			payload = encodePhasedProbabilities(p, numAlleles, g.alleles, bgenBitDepth)
		} else {
			payload = encodeUnphasedProbabilities(p, numAlleles, g.alleles, bgenBitDepth)
		}
		b.PutBytes(payload)
	}
	return b.Bytes(), nil
}

// writeCompressedBlock appends the compressed (or raw) probability block
// to out, per spec.md §4.G: "4-byte total size, 4-byte uncompressed size
// D, then compressed bytes" or, uncompressed, just D followed by raw.
func (e *bgenEncoder) writeCompressedBlock(out *byteBuffer, probBlock []byte) error {
	if e.codecKind == arraystore.CodecNone {
		out.PutUint32(uint32(len(probBlock)))
		out.PutBytes(probBlock)
		return nil
	}
	codec, err := e.codecFor()
	if err != nil {
		return err
	}
	var compressed bytes.Buffer
	if err := codec.Compress(&compressed, probBlock); err != nil {
		return gdbpb.Wrap(err, gdbpb.KindCodec, "compressing BGEN probability block")
	}
	out.PutUint32(uint32(compressed.Len() + 4))
	out.PutUint32(uint32(len(probBlock)))
	out.PutBytes(compressed.Bytes())
	return nil
}

func (e *bgenEncoder) codecFor() (arraystore.Codec, error) {
	if e.codec != nil {
		return e.codec, nil
	}
	c, err := arraystore.CreateCodec(e.codecKind, 0)
	if err != nil {
		return nil, err
	}
	e.codec = c
	return c, nil
}

// Finalize seeks back to the M/N placeholders and writes the final
// counts, then releases the codec.
func (e *bgenEncoder) Finalize(sampleCount int) error {
	if e.codec != nil {
		if err := e.codec.Finalize(); err != nil {
			return gdbpb.Wrap(err, gdbpb.KindCodec, "finalizing BGEN codec")
		}
	}
	var patch byteBuffer
	patch.PutUint32(e.variantSeen)
	if _, err := e.w.Seek(e.mOffset, io.SeekStart); err != nil {
		return gdbpb.Wrap(err, gdbpb.KindIO, "seeking to BGEN M placeholder")
	}
	if _, err := e.w.Write(patch.Bytes()); err != nil {
		return gdbpb.Wrap(err, gdbpb.KindIO, "patching BGEN variant count")
	}
	patch.Reset()
	patch.PutUint32(uint32(sampleCount))
	if _, err := e.w.Seek(e.nOffset, io.SeekStart); err != nil {
		return gdbpb.Wrap(err, gdbpb.KindIO, "seeking to BGEN N placeholder")
	}
	if _, err := e.w.Write(patch.Bytes()); err != nil {
		return gdbpb.Wrap(err, gdbpb.KindIO, "patching BGEN sample count")
	}
	_, err := e.w.Seek(0, io.SeekEnd)
	return err
}

func encodeUnphasedProbabilities(ploidy, numAlleles int, alleles []int32, bitDepth int) []byte {
	slots := unphasedSlots(ploidy, numAlleles)
	out := make([]byte, len(slots))
	if len(alleles) != ploidy {
		return out
	}
	counts := make([]int, numAlleles)
	for _, a := range alleles {
		if a < 0 || int(a) >= numAlleles {
			return out
		}
		counts[a]++
	}
	maxVal := byte((1 << uint(bitDepth)) - 1)
	for i, slot := range slots {
		if compositionMatches(slot, counts) {
			out[i] = maxVal
			break
		}
	}
	return out
}

func encodePhasedProbabilities(ploidy, numAlleles int, alleles []int32, bitDepth int) []byte {
	slots := phasedSlots(ploidy, numAlleles)
	out := make([]byte, len(slots))
	if len(alleles) != ploidy {
		return out
	}
	maxVal := byte((1 << uint(bitDepth)) - 1)
	for i, s := range slots {
		if s.Haplotype < len(alleles) && int(alleles[s.Haplotype]) == s.Allele {
			out[i] = maxVal
		}
	}
	return out
}

func compositionMatches(slot []int, counts []int) bool {
	for i, c := range counts {
		if slot[i] != c {
			return false
		}
	}
	return true
}
