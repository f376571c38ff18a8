// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package arraystore

import (
	"io"

	"github.com/klauspost/pgzip"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// gzipCodec backs CodecGZIP with klauspost/pgzip, a parallel, drop-in
// replacement for compress/gzip (already a dependency in the retrieved
// arvados-lightning example), which matters here since GZIP is the codec
// most likely to be handed large BGEN probability blocks.
type gzipCodec struct {
	level int
}

func (c *gzipCodec) Compress(dst io.Writer, src []byte) error {
	w, err := pgzip.NewWriterLevel(dst, c.level)
	if err != nil {
		return gdbpb.Wrap(err, gdbpb.KindCodec, "creating gzip writer")
	}
	if _, err := w.Write(src); err != nil {
		_ = w.Close()
		return gdbpb.Wrap(err, gdbpb.KindCodec, "gzip write")
	}
	return w.Close()
}

func (c *gzipCodec) Finalize() error { return nil }

func init() {
	RegisterCodec(CodecGZIP, func(level int) (Codec, error) {
		if level == 0 {
			level = pgzip.DefaultCompression
		}
		return &gzipCodec{level: level}, nil
	})
}
