package report

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/matzehuels/legalscan/pkg/legal"
	"github.com/matzehuels/legalscan/pkg/scan"
)

// WriteNotices writes the aggregated notices, one block per project key
// in key order.
func WriteNotices(w io.Writer, res *scan.Result) error {
	bw := bufio.NewWriter(w)
	for _, key := range res.Projects() {
		bw.WriteString("\n")
		bw.WriteString(Title("Notice for " + key))
		bw.WriteString("\n")
		for _, n := range res.Notices[key] {
			bw.WriteString(n.Text())
		}
		bw.WriteString(EndTitle("End of notice for " + key))
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// WriteLicenses writes the aggregated licenses ordered by license name,
// then id. A license without canonical text is emitted with the text of
// the first file it was found in.
func WriteLicenses(w io.Writer, res *scan.Result) error {
	bw := bufio.NewWriter(w)
	for _, e := range licenseEntries(res) {
		bw.WriteString("License for:\n")
		for _, p := range e.files.Paths() {
			bw.WriteString("  " + p + "\n")
		}
		bw.WriteString(Title(e.name))
		bw.WriteString("\n")
		bw.WriteString(withNewline(e.text))
		bw.WriteString(EndTitle("End of " + e.name))
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

type licenseEntry struct {
	id    string
	name  string
	text  string
	files *legal.LicenseFileSet
}

// licenseText returns the display name and emitted text of license id.
func licenseText(res *scan.Result, id string) (name, text string) {
	name = id
	if l, ok := res.Registry.Get(id); ok {
		name, text = l.Name, l.Text
	}
	if files, ok := res.Licenses[id]; ok && text == "" && files.Len() > 0 {
		text = files.Files()[0].Text
	}
	return name, text
}

// licenseEntries resolves every collected license id against the registry.
func licenseEntries(res *scan.Result) []licenseEntry {
	entries := make([]licenseEntry, 0, len(res.Licenses))
	for id, files := range res.Licenses {
		if files.Len() == 0 {
			continue
		}
		name, text := licenseText(res, id)
		entries = append(entries, licenseEntry{id: id, name: name, text: text, files: files})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].name != entries[j].name {
			return entries[i].name < entries[j].name
		}
		return entries[i].id < entries[j].id
	})
	return entries
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
