// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package vcfout

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

// TextWriter is the default Writer: plain VCF 4.2 text over an
// io.Writer. It exists so an embedded caller gets useful output even
// though the real back-end (compression, tabix indexing) is out of
// scope (spec.md §6); GenomicsDB's own example binaries produce plain
// VCF text the same way.
type TextWriter struct {
	w           *bufio.Writer
	samples     []string
	infoOrder   []string
	formatOrder []string
}

// NewTextWriter wraps w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

func (tw *TextWriter) WriteHeader(samples []string, infoOrder, formatOrder []string, fieldTypes map[string]gdbpb.FieldType) error {
	tw.samples, tw.infoOrder, tw.formatOrder = samples, infoOrder, formatOrder

	fmt.Fprintln(tw.w, "##fileformat=VCFv4.2")
	for _, name := range sortedCopy(infoOrder) {
		ft := fieldTypes[name]
		fmt.Fprintf(tw.w, "##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">\n", name, vcfNumber(ft), vcfType(ft.Kind), name)
	}
	for _, name := range sortedCopy(formatOrder) {
		ft := fieldTypes[name]
		fmt.Fprintf(tw.w, "##FORMAT=<ID=%s,Number=%s,Type=%s,Description=\"%s\">\n", name, vcfNumber(ft), vcfType(ft.Kind), name)
	}
	cols := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}
	if len(formatOrder) > 0 {
		cols = append(cols, "FORMAT")
		cols = append(cols, samples...)
	}
	fmt.Fprintln(tw.w, strings.Join(cols, "\t"))
	return tw.w.Flush()
}

func (tw *TextWriter) WriteRecord(rec Record) error {
	id, qual, filter := rec.ID, rec.Qual, rec.Filter
	if id == "" {
		id = "."
	}
	if qual == "" {
		qual = "."
	}
	if filter == "" {
		filter = "."
	}
	alt := strings.Join(rec.Alt, ",")
	if alt == "" {
		alt = "."
	}
	fields := []string{rec.Chrom, fmt.Sprint(rec.Pos), id, orDot(rec.Ref), alt, qual, filter, tw.renderInfo(rec.Info)}
	if len(tw.formatOrder) > 0 {
		fields = append(fields, strings.Join(tw.formatOrder, ":"))
		bySample := make(map[string]SampleRecord, len(rec.Samples))
		for _, s := range rec.Samples {
			bySample[s.Name] = s
		}
		for _, name := range tw.samples {
			fields = append(fields, tw.renderSample(bySample[name]))
		}
	}
	_, err := fmt.Fprintln(tw.w, strings.Join(fields, "\t"))
	if err != nil {
		return err
	}
	return tw.w.Flush()
}

func (tw *TextWriter) renderInfo(info map[string]gdbpb.FieldValue) string {
	if len(info) == 0 {
		return "."
	}
	var parts []string
	for _, name := range tw.infoOrder {
		fv, ok := info[name]
		if !ok {
			continue
		}
		parts = append(parts, name+"="+formatValue(name, fv))
	}
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, ";")
}

func (tw *TextWriter) renderSample(s SampleRecord) string {
	if s.Fields == nil {
		return missingSampleText(len(tw.formatOrder))
	}
	parts := make([]string, len(tw.formatOrder))
	for i, name := range tw.formatOrder {
		fv, ok := s.Fields[name]
		if !ok {
			parts[i] = "."
			continue
		}
		parts[i] = formatValue(name, fv)
	}
	return strings.Join(parts, ":")
}

func (tw *TextWriter) Close() error {
	return tw.w.Flush()
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func missingSampleText(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "."
	}
	return strings.Join(parts, ":")
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
