// Package scan walks a directory of Java archives and aggregates the legal
// texts they carry.
//
// # Overview
//
// An [Aggregator] visits every "*.jar" file below a root directory. For
// each archive it looks for one notice and one license file, records the
// Java packages its classes live in, and descends into embedded archives.
// When an archive does not carry the texts itself, the aggregator tries,
// in order:
//
//  1. the build descriptor (pom.xml) bundled in the archive: declared
//     licenses, then the parent descriptor chain, then the sources archive
//     of the same coordinate
//  2. without a descriptor, a package index search by the coordinate
//     inferred from the file name, followed by the sources archive or the
//     descriptor of the single match
//
// Everything that cannot be settled automatically ends up in
// [Diagnostics]: missing texts, manual review items with hints, failures
// and files whose names only resemble notices or licenses.
//
// # Execution Model
//
// A run is single-threaded and depth-first. Pending work lives on an
// explicit LIFO stack rather than in recursive calls, so arbitrarily deep
// nesting never grows the goroutine stack. Parent descriptor chains are
// bounded by [Options.MaxParentDepth] and guarded against cycles.
// Cancelling the context stops the run between two tasks.
//
// # Usage
//
//	reg, _ := licenses.LoadDefaults()
//	agg, err := scan.New(scan.Options{Registry: reg, Resolver: resolver, Index: index})
//	if err != nil {
//	    return err
//	}
//	res, err := agg.Run(ctx, "build/libs")
//
// The [Result] is consumed by the report package.
package scan
