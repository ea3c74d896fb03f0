// Package pkg provides the libraries behind legalscan, a recursive NOTICE
// and LICENSE aggregator for JAR archives.
//
// # Overview
//
// legalscan walks a directory of JAR archives, descends into archives
// embedded in other archives, and collects every NOTICE and LICENSE file it
// finds. Archives that ship no legal files are traced through their build
// descriptor, parent descriptors, sources archive and finally the package
// index. The pkg directory is organized into these areas:
//
//  1. [scan] - The aggregator: work stack, archive walk, fallbacks
//  2. [legal], [licenses] - Notice and license models, the known-license registry
//  3. [coordinate], [descriptor] - Artifact identity and build descriptors
//  4. [repository], [integrations] - Artifact resolution and remote lookups
//  5. [report] - Aggregated text files, inventory, SPDX and diagnostics output
//  6. [cache], [httputil], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through legalscan:
//
//	*.jar files under the scan directory
//	         ↓
//	    [scan] package (walk archives, resolve descriptors, classify)
//	         ↓
//	    [scan.Result] (notices per project, license files per license)
//	         ↓
//	    [report] package (NOTICE-aggregated, LICENSE-aggregated, jar-packages.json)
//
// # Quick Start
//
// Scan a directory offline with the bundled registry and write the outputs:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/legalscan/pkg/licenses"
//	    "github.com/matzehuels/legalscan/pkg/report"
//	    "github.com/matzehuels/legalscan/pkg/scan"
//	)
//
//	reg, _ := licenses.LoadDefaults()
//	agg, _ := scan.New(scan.Options{Registry: reg})
//	res, _ := agg.Run(context.Background(), "./dist")
//	paths, _ := report.Export(context.Background(), res, report.Options{Dir: "./legal"})
//
// # Command Line
//
// The legalscan binary in cmd/legalscan wraps these packages; see
// internal/cli for the commands and their configuration keys.
package pkg
