// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package plinkout

import "encoding/binary"

// byteBuffer is a growable little-endian write buffer, retargeted from
// encoding/pam/fieldio/bytebuffer.go's byteBuffer (same ensure/PutX
// vocabulary and growth strategy) to BGEN/BED block encoding instead of
// BAM field columns.
type byteBuffer struct {
	n   int
	buf []byte
}

func (b *byteBuffer) ensure(extra int) {
	if cap(b.buf) >= b.n+extra {
		return
	}
	newCap := ((b.n+extra)/16 + 1) * 16
	if newCap < cap(b.buf)*2 {
		newCap = cap(b.buf) * 2
	}
	newBuf := make([]byte, newCap)
	copy(newBuf, b.buf[:b.n])
	b.buf = newBuf
}

func (b *byteBuffer) PutUint8(v uint8) {
	b.ensure(1)
	b.buf = b.buf[:b.n+1]
	b.buf[b.n] = v
	b.n++
}

func (b *byteBuffer) PutUint16(v uint16) {
	b.ensure(2)
	b.buf = b.buf[:b.n+2]
	binary.LittleEndian.PutUint16(b.buf[b.n:], v)
	b.n += 2
}

func (b *byteBuffer) PutUint32(v uint32) {
	b.ensure(4)
	b.buf = b.buf[:b.n+4]
	binary.LittleEndian.PutUint32(b.buf[b.n:], v)
	b.n += 4
}

// PutBytes appends data raw, without a length prefix.
func (b *byteBuffer) PutBytes(data []byte) {
	b.ensure(len(data))
	b.buf = b.buf[:b.n+len(data)]
	copy(b.buf[b.n:], data)
	b.n += len(data)
}

// PutLengthPrefixed appends a uint16 length prefix followed by s, BGEN's
// variable-length string encoding (used for sample identifiers, variant
// ids/rsids/chromosomes, and allele names).
func (b *byteBuffer) PutLengthPrefixed(s string) {
	b.PutUint16(uint16(len(s)))
	b.PutBytes([]byte(s))
}

// PatchUint32 overwrites an already-written uint32 at offset, for the
// header seek-and-patch backfill described in spec.md §4.G.
func (b *byteBuffer) PatchUint32(offset int, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[offset:offset+4], v)
}

func (b *byteBuffer) PatchUint8(offset int, v uint8) {
	b.buf[offset] = v
}

func (b *byteBuffer) Bytes() []byte { return b.buf[:b.n] }
func (b *byteBuffer) Len() int      { return b.n }
func (b *byteBuffer) Reset()        { b.n = 0 }
