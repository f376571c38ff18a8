// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package metadata

import (
	"github.com/segmentio/encoding/json"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// callsetMapDoc is the on-disk shape of a workspace's callset map: the
// row -> sample name assignment. Callsets is a JSON array (not an object)
// so callers can see the intended row ordering in the document itself, even
// though RowIdx is authoritative.
type callsetMapDoc struct {
	Callsets []callsetDoc `json:"callsets"`
}

type callsetDoc struct {
	SampleName string `json:"sample_name"`
	RowIdx     int64  `json:"row_idx"`
}

// ParseCallsetMap decodes a callset map document into a row -> sample name
// table.
func ParseCallsetMap(data []byte) (map[gdbpb.Row]string, error) {
	var doc callsetMapDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, gdbpb.Wrap(err, gdbpb.KindConfig, "parsing callset map")
	}
	out := make(map[gdbpb.Row]string, len(doc.Callsets))
	for _, c := range doc.Callsets {
		out[gdbpb.Row(c.RowIdx)] = c.SampleName
	}
	return out, nil
}
