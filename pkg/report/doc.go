// Package report renders a scan [scan.Result] into the files a release
// ships with.
//
// # Outputs
//
//   - NOTICE-aggregated: one banner-delimited block per project key
//   - LICENSE-aggregated: one block per license, listing the archives it
//     was found in
//   - jar-packages.json or jar-packages.yaml: Java packages per archive
//   - legalscan.spdx.json: an SPDX 2.2 document (optional)
//   - known-licenses/: the registry including ad-hoc licenses (optional)
//   - a JSON diagnostics file (optional)
//
// Each output has a Write function taking an [io.Writer]. [Export] writes
// the selected outputs into a directory concurrently. A failure there is
// the only fatal error of a run and carries the OUTPUT_WRITE code.
package report
