// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package result

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

func TestHandleSizeAtNext(t *testing.T) {
	h := NewHandle([]gdbpb.Variant{
		{Lo: 100, Hi: 100},
		{Lo: 101, Hi: 105},
	})
	require.Equal(t, 2, h.Size())

	v, err := h.At(1)
	require.NoError(t, err)
	require.Equal(t, gdbpb.Column(101), v.Lo)

	_, err = h.At(5)
	require.Error(t, err)

	first, ok := h.Next()
	require.True(t, ok)
	require.Equal(t, gdbpb.Column(100), first.Lo)
	second, ok := h.Next()
	require.True(t, ok)
	require.Equal(t, gdbpb.Column(101), second.Lo)
	_, ok = h.Next()
	require.False(t, ok)
}

func TestHandleDoubleFreeIsStateError(t *testing.T) {
	h := NewHandle(nil)
	require.NoError(t, h.Free())
	err := h.Free()
	require.Error(t, err)
	var gerr *gdbpb.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, gdbpb.KindState, gerr.Kind)
}

func TestHandleMethodsAfterFreeAreRejected(t *testing.T) {
	h := NewHandle([]gdbpb.Variant{{Lo: 1, Hi: 1}})
	require.NoError(t, h.Free())
	require.Equal(t, 0, h.Size())
	_, err := h.At(0)
	require.Error(t, err)
	_, ok := h.Next()
	require.False(t, ok)
}

func TestCollectorFeedsReconcilerCallback(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.Add(gdbpb.Variant{Lo: 10, Hi: 20}))
	require.NoError(t, c.Add(gdbpb.Variant{Lo: 21, Hi: 21}))
	h := c.Finish()
	require.Equal(t, 2, h.Size())
}
