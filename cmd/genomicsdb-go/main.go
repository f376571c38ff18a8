// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Command genomicsdb-go is a thin CLI wrapper over the engine package:
// it resolves a query configuration document, opens an in-memory
// reference array store for local experimentation, and dispatches to
// query-variants, generate-vcf, or generate-ped-map. The storage
// back-end, callset/VID loaders and MPI launcher are all external
// collaborators out of scope for this module (spec.md §1); this binary
// exists only so the library surface has a runnable front door, the way
// grailbio/bio's cmd/bio-pamtool is a thin wrapper over encoding/pam.
package main

import "github.com/liuh0394/genomicsdb-go/cmd/genomicsdb-go/cmd"

func main() {
	cmd.Execute()
}
