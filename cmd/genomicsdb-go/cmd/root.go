// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/liuh0394/genomicsdb-go/arraystore/memstore"
	"github.com/liuh0394/genomicsdb-go/engine"
	"github.com/liuh0394/genomicsdb-go/gdbpb"
	"github.com/liuh0394/genomicsdb-go/metadata"
	"github.com/liuh0394/genomicsdb-go/queryconfig"
)

var (
	workspaceFlag  string
	arrayFlag      string
	callsetMapFlag string
	vidMapFlag     string
	refGenomeFlag  string
	cellsFlag      string
	configFlag     string
	rankFlag       int
)

// rootCmd represents the base command when called without any
// subcommands, per the teacher pack's go-corset cmd/root.go layout.
var rootCmd = &cobra.Command{
	Use:   "genomicsdb-go",
	Short: "Query and export genomic variant calls from a columnar array store",
	Long: `genomicsdb-go is a thin command-line front door over the engine
package: it resolves workspace metadata and a query configuration, then
dispatches to collection mode, VCF export, or PLINK/BGEN export.

The real array storage engine is an external collaborator out of scope
for this module; --cells loads a JSON fixture of gdbpb.Cell records into
the in-memory reference store (arraystore/memstore) for local use.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(engine.Version)
			return
		}
		_ = cmd.Help()
	},
}

// Execute adds all child commands to rootCmd and runs it. Called once
// from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceFlag, "workspace", "", "workspace path")
	rootCmd.PersistentFlags().StringVar(&arrayFlag, "array", "", "array name (overrides the query configuration's array_name)")
	rootCmd.PersistentFlags().StringVar(&callsetMapFlag, "callset-map", "", "path to callset_mapping.json")
	rootCmd.PersistentFlags().StringVar(&vidMapFlag, "vid-map", "", "path to vid_mapping.json")
	rootCmd.PersistentFlags().StringVar(&refGenomeFlag, "reference-genome-id", "", "reference genome identifier")
	rootCmd.PersistentFlags().StringVar(&cellsFlag, "cells", "", "path to a JSON array of gdbpb.Cell fixtures backing --array in the reference in-memory store")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to a query configuration document (structured text or binary schema)")
	rootCmd.PersistentFlags().IntVar(&rankFlag, "rank", 0, "concurrency rank")
	rootCmd.Flags().Bool("version", false, "print the engine version and exit")
}

// buildEngine loads workspace metadata and the query configuration named
// by the persistent flags and constructs an engine.Engine backed by an
// in-memory reference store populated from --cells.
func buildEngine() (*engine.Engine, error) {
	callsetMap, err := os.ReadFile(callsetMapFlag)
	if err != nil {
		return nil, gdbpb.Wrap(err, gdbpb.KindIO, "reading --callset-map")
	}
	vidMap, err := os.ReadFile(vidMapFlag)
	if err != nil {
		return nil, gdbpb.Wrap(err, gdbpb.KindIO, "reading --vid-map")
	}
	configDoc, err := os.ReadFile(configFlag)
	if err != nil {
		return nil, gdbpb.Wrap(err, gdbpb.KindIO, "reading --config")
	}
	wc, err := queryconfig.ParseText(configDoc)
	if err != nil {
		wc, err = queryconfig.ParseBinary(configDoc)
		if err != nil {
			return nil, gdbpb.Wrap(err, gdbpb.KindConfig, "parsing --config as either text or binary")
		}
	}
	if workspaceFlag != "" {
		wc.Workspace = workspaceFlag
	}
	if arrayFlag != "" {
		wc.ArrayNames = []string{arrayFlag}
	}

	store := memstore.New()
	if cellsFlag != "" {
		cellsDoc, err := os.ReadFile(cellsFlag)
		if err != nil {
			return nil, gdbpb.Wrap(err, gdbpb.KindIO, "reading --cells")
		}
		var cells []gdbpb.Cell
		if err := json.Unmarshal(cellsDoc, &cells); err != nil {
			return nil, gdbpb.Wrap(err, gdbpb.KindIO, "parsing --cells")
		}
		name := arrayFlag
		if name == "" && len(wc.ArrayNames) > 0 {
			name = wc.ArrayNames[0]
		}
		store.AddArray(name, cells)
	}

	return engine.New(store, metadata.Inputs{
		Workspace:         wc.Workspace,
		ReferenceGenomeID: refGenomeFlag,
		CallsetMapJSON:    callsetMap,
		VIDMapJSON:        vidMap,
	}, wc, rankFlag)
}
