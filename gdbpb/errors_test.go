// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package gdbpb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsKind(t *testing.T) {
	err := New(KindNotFound, "array %q", "foo").WithIdent("foo")
	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, errors.Is(err, ErrIO))
	require.Contains(t, err.Error(), "NotFound")
	require.Contains(t, err.Error(), "foo")
}

func TestErrorWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, KindIO, "writing %s", "out.vcf")
	require.Equal(t, cause, errors.Unwrap(err))
	require.True(t, errors.Is(err, ErrIO))
}
