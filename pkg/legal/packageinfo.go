package legal

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PackageInfo is one Java package observed in an archive. License key,
// version and copyright are only set when they could be resolved.
type PackageInfo struct {
	ArchivePath        string `json:"jarPath" yaml:"jarPath"`
	Package            string `json:"packageName" yaml:"packageName"`
	LicenseKey         string `json:"licenseKey" yaml:"licenseKey"`
	Version            string `json:"version" yaml:"version"`
	CopyrightStartYear int    `json:"copyrightStartYear" yaml:"copyrightStartYear"`
	CopyrightEndYear   int    `json:"copyrightEndYear" yaml:"copyrightEndYear"`
	CopyrightOwner     string `json:"copyrightOwner" yaml:"copyrightOwner"`
}

// SortPackages orders rows by archive path, package and version.
func SortPackages(rows []PackageInfo) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ArchivePath != b.ArchivePath {
			return a.ArchivePath < b.ArchivePath
		}
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.Version < b.Version
	})
}

// Copyright is a parsed copyright statement.
type Copyright struct {
	StartYear int
	EndYear   int
	Owner     string
}

var copyrightRe = regexp.MustCompile(`(?i)copyright\s+(?:\(c\)\s*|©\s*)?(\d{4})(?:\s*[-–,]\s*(\d{4}))?\s*(?:by\s+)?(.*)`)

// ParseCopyright finds the first "Copyright [(c)] YYYY[-YYYY] Owner" line
// in text. The end year equals the start year when only one is given.
func ParseCopyright(text string) (Copyright, bool) {
	for _, line := range strings.Split(text, "\n") {
		m := copyrightRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := start
		if m[2] != "" {
			if e, err := strconv.Atoi(m[2]); err == nil {
				end = e
			}
		}
		owner := strings.TrimSpace(m[3])
		return Copyright{StartYear: start, EndYear: end, Owner: owner}, true
	}
	return Copyright{}, false
}
