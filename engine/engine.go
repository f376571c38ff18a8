// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package engine ties components A-G together into the library surface
// spec.md §6 describes: construct an engine against a workspace's
// metadata and a query configuration, then call query_variants,
// query_variant_calls, generate_vcf or generate_ped_map. This package is
// the "top-level API" row of SPEC_FULL.md's package-mapping table; it
// contains no algorithm of its own beyond wiring B -> A -> C -> D into
// {E, F, G}, per spec.md §2's data-flow diagram.
package engine

import (
	"context"
	"io"
	"os"

	"github.com/liuh0394/genomicsdb-go/arraystore"
	"github.com/liuh0394/genomicsdb-go/gdbpb"
	"github.com/liuh0394/genomicsdb-go/metadata"
	"github.com/liuh0394/genomicsdb-go/plinkout"
	"github.com/liuh0394/genomicsdb-go/queryconfig"
	"github.com/liuh0394/genomicsdb-go/reconcile"
	"github.com/liuh0394/genomicsdb-go/result"
	"github.com/liuh0394/genomicsdb-go/scan"
	"github.com/liuh0394/genomicsdb-go/vcfout"
)

// Version is the zero-argument query spec.md §6 exposes ("Version string
// is exposed by a zero-argument query").
const Version = "genomicsdb-go 0.1"

// Engine is constructed once per workspace/array/query-config triple and
// is immutable thereafter (spec.md §3 Lifecycle). It is not safe for
// concurrent queries against overlapping output destinations, but the
// metadata resolver it wraps is safe for concurrent readers.
type Engine struct {
	resolver *metadata.Resolver
	store    arraystore.Store
	base     queryconfig.Config
}

// New constructs an Engine: it loads workspace metadata once (component A)
// and normalizes wc against rank into the engine's base query
// configuration (component B). rank is threaded explicitly, never read
// from an ambient global, per spec.md §9's "Global process state" note.
func New(store arraystore.Store, metaIn metadata.Inputs, wc queryconfig.WireConfig, rank int) (*Engine, error) {
	resolver, err := metadata.New(metaIn)
	if err != nil {
		return nil, err
	}
	cfg, err := queryconfig.Normalize(wc, rank)
	if err != nil {
		return nil, err
	}
	return &Engine{resolver: resolver, store: store, base: cfg}, nil
}

// Resolver exposes the engine's metadata resolver for callers that need
// direct lookups (row_to_sample, column_to_genomic, field_type) outside a
// query.
func (e *Engine) Resolver() *metadata.Resolver { return e.resolver }

// Override carries the per-call overrides for ranges/attributes spec.md
// §3's Lifecycle section allows ("Query config: ... optionally per-call
// overrides for ranges/attributes; immutable during a single query"). A
// nil field leaves the engine's base configuration for that field
// untouched; pass nil for the whole Override to run the base query as-is.
type Override struct {
	Attributes   []string
	RowRanges    []gdbpb.RowRange
	ColumnRanges []gdbpb.ColumnRange
}

func (e *Engine) effectiveConfig(o *Override) queryconfig.Config {
	cfg := e.base
	if o == nil {
		return cfg
	}
	if o.Attributes != nil {
		cfg.Attributes = o.Attributes
	}
	if o.RowRanges != nil {
		cfg.RowRanges = o.RowRanges
	}
	if o.ColumnRanges != nil {
		cfg.ColumnRanges = o.ColumnRanges
	}
	return cfg
}

func reconcileModeFor(cfg queryconfig.Config) reconcile.Mode {
	if cfg.BypassIntersectingIntervalsPhase {
		return reconcile.ModeBypass
	}
	return reconcile.ModeReconcile
}

// collectVariants drives B -> A -> C -> D to completion and returns the
// full reconciled Variant slice. It is the shared plumbing behind
// QueryVariants (which hands the slice to a result.Handle) and
// GeneratePedMap (which hands it to the PLINK/BGEN emitter directly,
// bypassing component E, per spec.md §2's data-flow note).
func (e *Engine) collectVariants(ctx context.Context, cfg queryconfig.Config) (variants []gdbpb.Variant, err error) {
	it, err := scan.Open(ctx, e.store, e.resolver, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rc := reconcile.New(reconcileModeFor(cfg), func(v gdbpb.Variant) error {
		variants = append(variants, v)
		return nil
	})
	for {
		cell, ok := it.Next()
		if !ok {
			break
		}
		if err = rc.Push(cell); err != nil {
			return nil, err
		}
	}
	if err = it.Err(); err != nil {
		return nil, err
	}
	if err = rc.Finish(); err != nil {
		return nil, err
	}
	return variants, nil
}

// QueryVariants implements the spec.md §6 "query_variants" entry point:
// collection mode, returning an owned result.Handle the caller must Free.
func (e *Engine) QueryVariants(ctx context.Context, override *Override) (*result.Handle, error) {
	cfg := e.effectiveConfig(override)
	variants, err := e.collectVariants(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return result.NewHandle(variants), nil
}

// QueryVariantCalls implements the spec.md §6 "query_variant_calls"
// entry point: processor mode. Cells stream through component D directly
// into proc, one reconciled Variant at a time, without ever buffering the
// whole result (spec.md §4.E processor mode).
func (e *Engine) QueryVariantCalls(ctx context.Context, proc result.Processor, override *Override) (err error) {
	cfg := e.effectiveConfig(override)
	it, err := scan.Open(ctx, e.store, e.resolver, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	emit := result.Drive(e.resolver, proc)
	rc := reconcile.New(reconcileModeFor(cfg), emit)
	for {
		cell, ok := it.Next()
		if !ok {
			break
		}
		if err = rc.Push(cell); err != nil {
			return err
		}
	}
	if err = it.Err(); err != nil {
		return err
	}
	return rc.Finish()
}

// GenerateVCF implements the spec.md §6 "generate_vcf" entry point: it
// drives component F (vcfout.Emitter, a result.Processor) over the query
// in processor mode and writes VCF 4.2 text to w via the default
// TextWriter back-end.
func (e *Engine) GenerateVCF(ctx context.Context, w io.Writer, override *Override) error {
	cfg := e.effectiveConfig(override)
	fieldOrder := e.resolver.FieldOrdering(cfg.ArrayName)
	samples := e.resolver.SampleNames(cfg.EffectiveRowRanges())
	emitter := vcfout.NewEmitter(vcfout.NewTextWriter(w), fieldOrder, samples)
	if err := e.QueryVariantCalls(ctx, emitter, override); err != nil {
		return err
	}
	// result.Processor has no finish hook; Emitter.Close flushes the
	// last pending record (ProcessInterval is only called between
	// variants) and closes the underlying Writer, which for the default
	// TextWriter flushes its buffered output to w.
	return emitter.Close()
}

// PedMapOptions configures GeneratePedMap beyond the prefix/progress
// arguments spec.md §6 names explicitly.
type PedMapOptions struct {
	// CodecKind selects the BGEN probability-block compression (none,
	// GZIP is not a legal BGEN flag value; use CodecZlib or CodecZSTD).
	CodecKind arraystore.CodecKind
	// SampleIDsInBGEN sets the "sample identifiers present" header flag.
	SampleIDsInBGEN bool
	// FamOverrides supplies non-default PID/MID/SEX/PHEN columns, per
	// spec.md §6's "FAM override list".
	FamOverrides map[string]plinkout.FamOverride
}

// GeneratePedMap implements the spec.md §6 "generate_ped_map(prefix,
// progress_interval, fam_list)" entry point. It creates prefix.tped,
// prefix.tfam, prefix.bed, prefix.bim, prefix.fam and prefix.bgen,
// collects the query's reconciled variants once (component D, bypassing
// E per spec.md §2), and drives them through the two-phase PLINK/BGEN
// emitter (component G).
func (e *Engine) GeneratePedMap(ctx context.Context, prefix string, progressInterval float64, opts PedMapOptions, override *Override) (err error) {
	cfg := e.effectiveConfig(override)

	opened := make([]*os.File, 0, 6)
	defer func() {
		for _, f := range opened {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()
	open := func(path string) (*os.File, error) {
		f, oerr := os.Create(path)
		if oerr != nil {
			return nil, gdbpb.Wrap(oerr, gdbpb.KindIO, "creating %s", path)
		}
		opened = append(opened, f)
		return f, nil
	}

	tped, err := open(prefix + ".tped")
	if err != nil {
		return err
	}
	tfam, err := open(prefix + ".tfam")
	if err != nil {
		return err
	}
	bed, err := open(prefix + ".bed")
	if err != nil {
		return err
	}
	bim, err := open(prefix + ".bim")
	if err != nil {
		return err
	}
	fam, err := open(prefix + ".fam")
	if err != nil {
		return err
	}
	bgen, err := open(prefix + ".bgen")
	if err != nil {
		return err
	}

	variants, err := e.collectVariants(ctx, cfg)
	if err != nil {
		return err
	}

	emitter := plinkout.NewEmitter(e.resolver, plinkout.Outputs{
		TPED: tped,
		TFAM: tfam,
		BED:  bed,
		BIM:  bim,
		FAM:  fam,
		BGEN: bgen,
	}, opts.CodecKind, opts.SampleIDsInBGEN, progressInterval, cfg.EffectiveMaxDiploidAltAlleles(), opts.FamOverrides)

	if err = emitter.Phase0Scan(variants); err != nil {
		return err
	}
	if err = emitter.AdvanceState(); err != nil {
		return err
	}
	if err = emitter.Phase1Scan(variants); err != nil {
		return err
	}
	if err = emitter.Finalize(); err != nil {
		return err
	}
	// emitter.Close is deliberately not called here: it would close the
	// same *os.File handles the deferred loop above already owns, and
	// os.File rejects a second Close. Finalize already did the only
	// thing that matters (the BGEN header backpatch); reaching
	// StateClosed on the emitter itself buys nothing once the files are
	// about to be closed by their actual owner.
	return nil
}
