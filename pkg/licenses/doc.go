// Package licenses holds the registry of known licenses and the
// classifier that maps free-form license text onto it.
//
// # Registry
//
// A [Registry] is loaded from a TOML document, either the one bundled
// with legalscan ([LoadDefaults]) or a directory written by
// [Registry.Save]:
//
//	[licenses."apache-2.0"]
//	name = "Apache License, Version 2.0"
//	spdx = "Apache-2.0"
//	aliases = ["The Apache Software License, Version 2.0"]
//	text = "file:apache-2.0/LICENSE.txt"
//
//	[[licenses."apache-2.0".variants]]
//	id = "default"
//	default = true
//	text = '(?s)Apache License\s+Version 2\.0, January 2004.*?END OF TERMS AND CONDITIONS'
//
// # Classification
//
// [Registry.Classify] tries every variant, longest first, and consumes
// the first match. Text left after the match is minted by
// [Registry.ClassifyFile] into an ad-hoc license scoped to the archive it
// came from, so the registry grows during a run and can be saved back.
//
// # Hints
//
// For text nothing matched, [Registry.Closest] finds the nearest known
// license by edit distance and [Suggester] names the SPDX license the
// licenseclassifier corpus recognizes.
package licenses
