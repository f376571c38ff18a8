// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/liuh0394/genomicsdb-go/gdbpb"
)

var vcfOutFlag string

var generateVCFCmd = &cobra.Command{
	Use:   "generate-vcf",
	Short: "Run the query in processor mode and emit VCF 4.2 text",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		w, err := os.Create(vcfOutFlag)
		if err != nil {
			return gdbpb.Wrap(err, gdbpb.KindIO, "creating --out")
		}
		defer w.Close() // nolint: errcheck
		return eng.GenerateVCF(context.Background(), w, nil)
	},
}

func init() {
	generateVCFCmd.Flags().StringVar(&vcfOutFlag, "out", "out.vcf", "output VCF path")
	rootCmd.AddCommand(generateVCFCmd)
}
