// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package metadata

import (
	"sort"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// contigIndex supports O(log contigs) lookup in both directions: column ->
// contig, and (contig name, position) -> column. It is the column-axis
// analogue of the sorted-offset binary search the bam/interval package uses
// for BED interval-unions, specialized to a single, non-overlapping table of
// contig spans rather than a general interval union.
type contigIndex struct {
	// byOffset is sorted ascending by Offset; contig spans are disjoint so a
	// single sorted slice suffices for both directions of the search.
	byOffset []gdbpb.Contig
	byName   map[string]gdbpb.Contig
}

func newContigIndex(contigs []gdbpb.Contig) *contigIndex {
	byOffset := append([]gdbpb.Contig(nil), contigs...)
	sort.Slice(byOffset, func(i, j int) bool { return byOffset[i].Offset < byOffset[j].Offset })
	byName := make(map[string]gdbpb.Contig, len(contigs))
	for _, c := range contigs {
		byName[c.Name] = c
	}
	return &contigIndex{byOffset: byOffset, byName: byName}
}

// lookup returns the contig whose span contains column c.
func (ci *contigIndex) lookup(c gdbpb.Column) (gdbpb.Contig, bool) {
	// Find the last contig whose Offset is <= c.
	i := sort.Search(len(ci.byOffset), func(i int) bool { return ci.byOffset[i].Offset > c })
	if i == 0 {
		return gdbpb.Contig{}, false
	}
	contig := ci.byOffset[i-1]
	if c >= contig.End() {
		return gdbpb.Contig{}, false
	}
	return contig, true
}

// column returns the flattened column coordinate for (contigName, pos).
func (ci *contigIndex) column(contigName string, pos int64) (gdbpb.Column, bool) {
	contig, ok := ci.byName[contigName]
	if !ok {
		return 0, false
	}
	if pos < 0 || pos >= contig.Length {
		return 0, false
	}
	return contig.Offset + gdbpb.Column(pos), true
}
