// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var queryVariantsCmd = &cobra.Command{
	Use:   "query-variants",
	Short: "Run the query in collection mode and print a summary of each reconciled variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		handle, err := eng.QueryVariants(context.Background(), nil)
		if err != nil {
			return err
		}
		defer handle.Free() // nolint: errcheck

		fmt.Printf("%d variants\n", handle.Size())
		for {
			v, ok := handle.Next()
			if !ok {
				break
			}
			fmt.Printf("[%d,%d] calls=%d\n", v.Lo, v.Hi, len(v.Calls))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryVariantsCmd)
}
