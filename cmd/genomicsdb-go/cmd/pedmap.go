// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liuh0394/genomicsdb-go/arraystore"
	"github.com/liuh0394/genomicsdb-go/engine"
)

var (
	pedMapPrefixFlag    string
	progressIntervalFlag float64
	bgenCodecFlag       string
	bgenSampleIDsFlag   bool
)

var generatePedMapCmd = &cobra.Command{
	Use:   "generate-ped-map",
	Short: "Run a two-pass query and emit TPED/TFAM, BED/BIM/FAM and BGEN",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		opts := engine.PedMapOptions{
			CodecKind:       bgenCodecKind(bgenCodecFlag),
			SampleIDsInBGEN: bgenSampleIDsFlag,
		}
		return eng.GeneratePedMap(context.Background(), pedMapPrefixFlag, progressIntervalFlag, opts, nil)
	},
}

func bgenCodecKind(s string) arraystore.CodecKind {
	switch s {
	case "zstd":
		return arraystore.CodecZSTD
	case "zlib":
		return arraystore.CodecZlib
	default:
		return arraystore.CodecNone
	}
}

func init() {
	generatePedMapCmd.Flags().StringVar(&pedMapPrefixFlag, "prefix", "out", "output file prefix (prefix.tped, prefix.bed, prefix.bgen, ...)")
	generatePedMapCmd.Flags().Float64Var(&progressIntervalFlag, "progress-interval", 0, "fractional interval of total expected cells at which progress is logged; <= 0 disables")
	generatePedMapCmd.Flags().StringVar(&bgenCodecFlag, "bgen-codec", "zlib", "BGEN probability block codec: none, zlib or zstd")
	generatePedMapCmd.Flags().BoolVar(&bgenSampleIDsFlag, "bgen-sample-ids", true, "include sample identifiers in the BGEN header")
	rootCmd.AddCommand(generatePedMapCmd)
}
