package scan

import (
	"sort"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/legal"
	"github.com/matzehuels/legalscan/pkg/licenses"
)

// Result is everything one run collected.
type Result struct {
	// Notices holds the unique notices per project key, in discovery order.
	Notices map[string][]*legal.Notice
	// Licenses holds the license files contributing to each license id.
	Licenses map[string]*legal.LicenseFileSet
	// Packages holds inventory rows per archive base name.
	Packages map[string][]legal.PackageInfo
	// Archives describes every archive that was walked as a root or
	// embedded archive, ordered by path.
	Archives []Archive
	// Registry is the registry after the run, including ad-hoc licenses.
	Registry *licenses.Registry

	Diagnostics Diagnostics
}

// Archive summarizes one walked archive.
type Archive struct {
	Path       string
	Coordinate coordinate.Coordinate
	// SCM is the source control connection declared by its descriptor.
	SCM string
	// Licenses lists the license ids attributed to the archive.
	Licenses  []string
	HasNotice bool
}

// Projects returns the project keys with notices, sorted.
func (r *Result) Projects() []string {
	keys := make([]string, 0, len(r.Notices))
	for k := range r.Notices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Diagnostics reports what the run could not settle on its own.
type Diagnostics struct {
	UniqueNotices  int `json:"uniqueNotices"`
	UniqueLicenses int `json:"uniqueLicenses"`

	// DuplicateNotices and DuplicateLicenses list archives whose text was
	// already recorded from elsewhere.
	DuplicateNotices  []string `json:"duplicateNotices"`
	DuplicateLicenses []string `json:"duplicateLicenses"`

	// MissingNotices and MissingLicenses list archives for which nothing
	// was found after every resolution step.
	MissingNotices  []string `json:"missingNotices"`
	MissingLicenses []string `json:"missingLicenses"`

	ManualReview   []Review  `json:"manualReview"`
	PotentialFiles []string  `json:"potentialFiles"`
	Failures       []Failure `json:"failures"`
}

// Review is an item a human has to look at.
type Review struct {
	Archive string `json:"archive"`
	Reason  string `json:"reason"`
	Hint    string `json:"hint,omitempty"`
}

// Failure is an archive or descriptor that could not be processed.
type Failure struct {
	Archive string      `json:"archive"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Clean reports whether nothing needs attention.
func (d *Diagnostics) Clean() bool {
	return len(d.MissingNotices) == 0 && len(d.MissingLicenses) == 0 &&
		len(d.ManualReview) == 0 && len(d.Failures) == 0
}
