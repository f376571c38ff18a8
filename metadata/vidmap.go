// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package metadata

import (
	"github.com/segmentio/encoding/json"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// vidMapDoc is the on-disk shape of a workspace's VID ("variant ID") map: the
// contig table and the per-field schema. Both are JSON arrays, not objects,
// so that insertion order — which fixes the default field ordering —
// survives unmarshaling. Contig offsets come from each entry's
// tiledb_column_offset.
type vidMapDoc struct {
	Contigs []contigDoc `json:"contigs"`
	Fields  []fieldDoc  `json:"fields"`
}

type contigDoc struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
	Offset int64  `json:"tiledb_column_offset"`
}

type fieldDoc struct {
	Name          string `json:"name"`
	Type          string `json:"type"` // "int32", "float32", "char", "string"
	FixedArity    bool   `json:"fixed_arity"`
	NumElements   int    `json:"num_elements"`
	NumDimensions int    `json:"num_dimensions"`
	ContainsPhase bool   `json:"contains_phase"`
	VCFFieldClass string `json:"vcf_field_class"` // "INFO", "FORMAT", "FILTER"
}

func parseFieldKind(s string) (gdbpb.FieldKind, error) {
	switch s {
	case "int32", "int":
		return gdbpb.FieldKindInt32, nil
	case "float32", "float":
		return gdbpb.FieldKindFloat32, nil
	case "char":
		return gdbpb.FieldKindChar, nil
	case "string":
		return gdbpb.FieldKindString, nil
	default:
		return gdbpb.FieldKindInvalid, gdbpb.New(gdbpb.KindSchema, "unknown field type %q", s)
	}
}

func parseVCFClass(s string) gdbpb.VCFFieldClass {
	switch s {
	case "FORMAT":
		return gdbpb.VCFFieldClassFormat
	case "FILTER":
		return gdbpb.VCFFieldClassFilter
	default:
		return gdbpb.VCFFieldClassInfo
	}
}

// ParseVIDMap decodes a VID map document (JSON bytes) into a contig table
// and field schema map plus the default field ordering.
func ParseVIDMap(data []byte) ([]gdbpb.Contig, map[string]gdbpb.FieldType, []string, error) {
	var doc vidMapDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, nil, gdbpb.Wrap(err, gdbpb.KindConfig, "parsing vid map")
	}
	contigs := make([]gdbpb.Contig, 0, len(doc.Contigs))
	for _, c := range doc.Contigs {
		contigs = append(contigs, gdbpb.Contig{Name: c.Name, Length: c.Length, Offset: gdbpb.Column(c.Offset)})
	}
	fields := make(map[string]gdbpb.FieldType, len(doc.Fields))
	order := make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		kind, err := parseFieldKind(f.Type)
		if err != nil {
			return nil, nil, nil, err
		}
		fields[f.Name] = gdbpb.FieldType{
			Name:          f.Name,
			Kind:          kind,
			FixedArity:    f.FixedArity,
			NumElements:   f.NumElements,
			NumDimensions: f.NumDimensions,
			ContainsPhase: f.ContainsPhase,
			Class:         parseVCFClass(f.VCFFieldClass),
		}
		order = append(order, f.Name)
	}
	return contigs, fields, order, nil
}
