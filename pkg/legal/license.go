package legal

import (
	"sort"
	"strings"
)

// LicenseFile is license text extracted from an archive (or fetched for a
// descriptor-declared license), together with its provenance and the ids
// of the known licenses it was classified as.
type LicenseFile struct {
	// ArchivePath identifies the archive the text came from.
	ArchivePath string
	// Text is the raw text with line endings normalized to "\n".
	Text string
	// Licenses holds the ids of the matched known licenses in match order,
	// including any ad-hoc license minted for AdditionalText.
	Licenses []string
	// AdditionalText is the part of Text no known variant accounted for.
	AdditionalText string
	// Declared is set for licenses that were only named by a descriptor.
	Declared string
}

// NewLicenseFile normalizes line endings of text.
func NewLicenseFile(archivePath, text string) *LicenseFile {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &LicenseFile{ArchivePath: archivePath, Text: text}
}

// Unknown reports whether classification produced no license at all.
func (f *LicenseFile) Unknown() bool { return len(f.Licenses) == 0 }

// Equal compares provenance then content.
func (f *LicenseFile) Equal(o *LicenseFile) bool {
	return o != nil && f.ArchivePath == o.ArchivePath && f.Text == o.Text
}

// Less orders by provenance path then content.
func (f *LicenseFile) Less(o *LicenseFile) bool {
	if f.ArchivePath != o.ArchivePath {
		return f.ArchivePath < o.ArchivePath
	}
	return f.Text < o.Text
}

// LicenseFileSet keeps license files unique under [LicenseFile.Equal],
// sorted by provenance.
type LicenseFileSet struct {
	files []*LicenseFile
}

// Add inserts f and reports whether it was not present yet.
func (s *LicenseFileSet) Add(f *LicenseFile) bool {
	i := sort.Search(len(s.files), func(i int) bool { return !s.files[i].Less(f) })
	if i < len(s.files) && s.files[i].Equal(f) {
		return false
	}
	s.files = append(s.files, nil)
	copy(s.files[i+1:], s.files[i:])
	s.files[i] = f
	return true
}

// Files returns the sorted members.
func (s *LicenseFileSet) Files() []*LicenseFile { return s.files }

// Len returns the number of members.
func (s *LicenseFileSet) Len() int { return len(s.files) }

// Paths returns the distinct provenance paths in order.
func (s *LicenseFileSet) Paths() []string {
	var paths []string
	for _, f := range s.files {
		if n := len(paths); n == 0 || paths[n-1] != f.ArchivePath {
			paths = append(paths, f.ArchivePath)
		}
	}
	return paths
}
