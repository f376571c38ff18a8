// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package arraystore

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// zstdCodec backs CodecZSTD with klauspost/compress/zstd, the same package
// the teacher wires in via recordiozstd for its own on-disk blocks.
type zstdCodec struct {
	level zstd.EncoderLevel
}

func (c *zstdCodec) Compress(dst io.Writer, src []byte) error {
	w, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return gdbpb.Wrap(err, gdbpb.KindCodec, "creating zstd writer")
	}
	if _, err := w.Write(src); err != nil {
		_ = w.Close()
		return gdbpb.Wrap(err, gdbpb.KindCodec, "zstd write")
	}
	return w.Close()
}

func (c *zstdCodec) Finalize() error { return nil }

func init() {
	RegisterCodec(CodecZSTD, func(level int) (Codec, error) {
		l := zstd.SpeedDefault
		if level > 0 {
			l = zstd.EncoderLevel(level)
		}
		return &zstdCodec{level: l}, nil
	})
}
