// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package arraystore

import (
	"compress/zlib"
	"io"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// zlibCodec backs CodecZlib with the standard library's compress/zlib.
// Unlike GZIP/ZSTD above, this is deliberately stdlib: BGEN's layout-2
// compression flag fixes "zlib" as a specific wire format (RFC 1950), not a
// swappable choice of library, and the retrieved corpus has no third-party
// zlib-compatible encoder (klauspost/compress implements flate/gzip/zstd
// but not a zlib wrapper) — see DESIGN.md.
type zlibCodec struct {
	level int
}

func (c *zlibCodec) Compress(dst io.Writer, src []byte) error {
	w, err := zlib.NewWriterLevel(dst, c.level)
	if err != nil {
		return gdbpb.Wrap(err, gdbpb.KindCodec, "creating zlib writer")
	}
	if _, err := w.Write(src); err != nil {
		_ = w.Close()
		return gdbpb.Wrap(err, gdbpb.KindCodec, "zlib write")
	}
	return w.Close()
}

func (c *zlibCodec) Finalize() error { return nil }

func init() {
	RegisterCodec(CodecZlib, func(level int) (Codec, error) {
		if level == 0 {
			level = zlib.DefaultCompression
		}
		return &zlibCodec{level: level}, nil
	})
}
