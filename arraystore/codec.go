// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package arraystore

import (
	"io"
	"sync"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// CodecKind enumerates the compression codecs the codec registry can
// create. GZIP and ZSTD are the two spec.md §6 names explicitly; Zlib is
// added because BGEN v1.2's layout-2 compression flag (spec.md §4.G) is a
// fixed two-bit wire value — 0 none, 1 zlib, 2 zstd — so the BGEN emitter
// needs a real zlib codec alongside GZIP/ZSTD even though spec.md §6 never
// names zlib as a storage-tile codec.
type CodecKind int

const (
	CodecNone CodecKind = iota
	CodecGZIP
	CodecZSTD
	CodecZlib
)

func (k CodecKind) String() string {
	switch k {
	case CodecGZIP:
		return "GZIP"
	case CodecZSTD:
		return "ZSTD"
	case CodecZlib:
		return "ZLIB"
	default:
		return "NONE"
	}
}

// Codec is the create/compress/finalize capability set from spec.md §6 and
// the "Codec polymorphism" design note in §9: a small interface rather than
// a concrete type per codec, so new kinds can be registered without
// touching callers.
type Codec interface {
	// Compress writes a compressed representation of src to dst.
	Compress(dst io.Writer, src []byte) error
	// Finalize releases any codec-internal resources (encoder pools,
	// scratch buffers). It must be called exactly once.
	Finalize() error
}

// Factory constructs a Codec at the given compression level. Level
// semantics are codec-specific; 0 means "use the codec's default".
type Factory func(level int) (Codec, error)

var (
	registryMu sync.RWMutex
	registry   = map[CodecKind]Factory{}
)

// RegisterCodec installs f as the factory for kind. Codec implementations
// call this from an init() function (see codec_gzip.go, codec_zstd.go,
// codec_zlib.go).
func RegisterCodec(kind CodecKind, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = f
}

// CreateCodec looks up the registered factory for kind and constructs a
// Codec at the given level. It returns CodecError if no factory is
// registered.
func CreateCodec(kind CodecKind, level int) (Codec, error) {
	if kind == CodecNone {
		return noneCodec{}, nil
	}
	registryMu.RLock()
	f, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, gdbpb.New(gdbpb.KindCodec, "no codec registered for %v", kind)
	}
	c, err := f(level)
	if err != nil {
		return nil, gdbpb.Wrap(err, gdbpb.KindCodec, "creating %v codec", kind)
	}
	return c, nil
}

// noneCodec implements Codec as a pass-through, for CodecNone.
type noneCodec struct{}

func (noneCodec) Compress(dst io.Writer, src []byte) error {
	_, err := dst.Write(src)
	return err
}
func (noneCodec) Finalize() error { return nil }
