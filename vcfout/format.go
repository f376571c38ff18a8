// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package vcfout

import (
	"strconv"
	"strings"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// formatValue renders a FieldValue as VCF text. GT is special-cased: its
// Phased slice selects "/" vs "|" between consecutive alleles, and a
// missing allele index is rendered as ".".
func formatValue(name string, fv gdbpb.FieldValue) string {
	if name == "GT" && fv.Kind == gdbpb.FieldKindInt32 {
		return formatGT(fv)
	}
	switch fv.Kind {
	case gdbpb.FieldKindInt32:
		parts := make([]string, len(fv.Ints))
		for i, v := range fv.Ints {
			parts[i] = strconv.FormatInt(int64(v), 10)
		}
		return strings.Join(parts, ",")
	case gdbpb.FieldKindFloat32:
		parts := make([]string, len(fv.Floats))
		for i, v := range fv.Floats {
			parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
		}
		return strings.Join(parts, ",")
	case gdbpb.FieldKindString:
		return strings.Join(fv.Strs, ",")
	case gdbpb.FieldKindChar:
		return string(fv.Chars)
	default:
		return "."
	}
}

func formatGT(fv gdbpb.FieldValue) string {
	var b strings.Builder
	for i, allele := range fv.Ints {
		if i > 0 {
			sep := "/"
			if i-1 < len(fv.Phased) && fv.Phased[i-1] {
				sep = "|"
			}
			b.WriteString(sep)
		}
		if allele == gdbpb.MissingAllele {
			b.WriteByte('.')
		} else {
			b.WriteString(strconv.FormatInt(int64(allele), 10))
		}
	}
	return b.String()
}

func vcfType(k gdbpb.FieldKind) string {
	switch k {
	case gdbpb.FieldKindInt32:
		return "Integer"
	case gdbpb.FieldKindFloat32:
		return "Float"
	case gdbpb.FieldKindString:
		return "String"
	case gdbpb.FieldKindChar:
		return "Character"
	default:
		return "String"
	}
}

func vcfNumber(ft gdbpb.FieldType) string {
	if !ft.FixedArity {
		return "."
	}
	return strconv.Itoa(ft.NumElements)
}
