// Package legal holds the records extracted from archives: normalized
// notices, license files, and per-package inventory rows.
//
// # Notices
//
// [NewNotice] normalizes notice text so that copies differing only in
// comment banners, blank lines or the Apache attribution boilerplate
// compare equal:
//
//	n := legal.NewNotice(lines)
//	if seen[n.Hash()] {
//	    // duplicate
//	}
//
// # File name rules
//
// [Recognize] decides whether an archive entry is a notice or license
// file. Entries that only mention the token are reported as [Potential]
// so they can be listed for manual inspection.
package legal
