package licenses

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/matzehuels/legalscan/pkg/legal"
)

// DefaultMaxDistance caps the edit distance accepted by [Registry.Closest].
const DefaultMaxDistance = 1000

// Classification is the result of matching one license text.
type Classification struct {
	// Matches holds the matched licenses in match order.
	Matches []*KnownLicense
	// Remainder is the text following the match, or the whole text when
	// nothing matched.
	Remainder string
}

// Classify matches text against every variant, longest variant first.
// The first variant found anywhere in the text wins and the text is cut
// to everything after the matched region. Only one match is consumed.
//
// Classify does not modify the registry; identical inputs give identical
// results.
func (r *Registry) Classify(text string) Classification {
	for _, ref := range r.variantsBySize() {
		loc := ref.variant.Pattern().FindStringIndex(text)
		if loc == nil {
			continue
		}
		return Classification{
			Matches:   []*KnownLicense{ref.license},
			Remainder: text[loc[1]:],
		}
	}
	return Classification{Remainder: text}
}

// ClassifyFile classifies f, records the matched license ids on it and,
// when a non-blank remainder is left, mints and registers an ad-hoc
// license for it. The minted license is returned, or nil.
func (r *Registry) ClassifyFile(f *legal.LicenseFile) (*KnownLicense, error) {
	c := r.Classify(f.Text)
	f.Licenses = f.Licenses[:0]
	for _, l := range c.Matches {
		f.Licenses = append(f.Licenses, l.ID)
	}
	if strings.TrimSpace(c.Remainder) == "" {
		f.AdditionalText = ""
		return nil, nil
	}
	f.AdditionalText = c.Remainder
	minted := NewAdditionalTerms(f.ArchivePath, c.Remainder)
	if err := r.Add(minted); err != nil {
		return nil, err
	}
	f.Licenses = append(f.Licenses, minted.ID)
	return minted, nil
}

// Closest returns the license whose canonical text or literal variant is
// nearest to text by Levenshtein distance, provided the distance does not
// exceed maxDistance. Candidates whose length alone differs by more than
// maxDistance are skipped. Ad-hoc licenses are never candidates.
func (r *Registry) Closest(text string, maxDistance int) (*KnownLicense, int, bool) {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	var (
		best     *KnownLicense
		bestDist = maxDistance + 1
	)
	n := utf8.RuneCountInString(text)
	for _, l := range r.Licenses() {
		if l.AdHoc {
			continue
		}
		candidates := []string{l.Text}
		for _, v := range l.Variants {
			if v.Literal {
				candidates = append(candidates, v.Text)
			}
		}
		for _, c := range candidates {
			if c == "" || abs(utf8.RuneCountInString(c)-n) > maxDistance {
				continue
			}
			if d := levenshtein.ComputeDistance(c, text); d < bestDist {
				best, bestDist = l, d
			}
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
