package licenses

import (
	"regexp"
	"strings"

	"github.com/matzehuels/legalscan/pkg/errors"
)

// AdditionalTermsSuffix is appended to an archive path to form the id of
// a license minted from unmatched license text.
const AdditionalTermsSuffix = "-additional-terms"

// DeclaredSuffix is appended to an archive path to form the id of a
// license minted from a declared license no known license matched.
const DeclaredSuffix = "-declared"

// DefaultVariantID names the variant created for minted licenses.
const DefaultVariantID = "default"

// KnownLicense is one canonical license identity.
type KnownLicense struct {
	ID      string
	Name    string
	Version string
	// SPDX is the SPDX license identifier, if the license has one.
	SPDX    string
	Viral   bool
	Aliases []string
	// Variants are the textual renderings the license is recognized by.
	Variants []*TextVariant
	// Text is the canonical text emitted in aggregated output.
	Text string
	// AdHoc marks licenses minted during a scan from unmatched text.
	AdHoc bool
}

// TextVariant is one recognizable rendering of a license. Text is a
// regular expression unless Literal is set, in which case it is matched
// word by word with flexible whitespace.
type TextVariant struct {
	ID      string
	Default bool
	Literal bool
	Text    string

	pattern *regexp.Regexp
}

// Compile prepares the variant's pattern.
func (v *TextVariant) Compile() error {
	src := v.Text
	if v.Literal {
		src = literalPattern(v.Text)
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRegistry, err, "compile variant %q", v.ID)
	}
	v.pattern = re
	return nil
}

// Pattern returns the compiled pattern, or nil before [TextVariant.Compile].
func (v *TextVariant) Pattern() *regexp.Regexp { return v.pattern }

func literalPattern(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s+`)
}

// IsViral reports whether text mentions the GPL family. It is a naming
// heuristic, not a legal determination.
func IsViral(text string) bool {
	return strings.Contains(strings.ToLower(text), "gpl")
}

// DefaultVariant returns the variant flagged as default, or the first one.
func (l *KnownLicense) DefaultVariant() *TextVariant {
	for _, v := range l.Variants {
		if v.Default {
			return v
		}
	}
	if len(l.Variants) > 0 {
		return l.Variants[0]
	}
	return nil
}

// NewAdditionalTerms mints an ad-hoc license for text that no known
// variant accounted for in the archive at archivePath. The license is
// scoped to that archive so unrelated archives never share it.
func NewAdditionalTerms(archivePath, text string) *KnownLicense {
	v := &TextVariant{
		ID:      DefaultVariantID,
		Default: true,
		Text:    regexp.QuoteMeta(text),
	}
	// Quoted text always compiles.
	_ = v.Compile()
	return &KnownLicense{
		ID:       archivePath + AdditionalTermsSuffix,
		Name:     "Additional license terms from " + archivePath,
		Viral:    IsViral(text),
		Variants: []*TextVariant{v},
		Text:     text,
		AdHoc:    true,
	}
}

// NewDeclared mints an ad-hoc license for a license an archive's
// descriptor names but the registry does not know. name is the declared
// name, text the name and URL as declared. Like [NewAdditionalTerms] the
// license is scoped to the archive at archivePath.
func NewDeclared(archivePath, name, text string) *KnownLicense {
	id := archivePath + DeclaredSuffix
	if slug := strings.ToLower(strings.Join(strings.Fields(name), "-")); slug != "" {
		id += "-" + slug
	}
	display := name
	if display == "" {
		display = text
	}
	v := &TextVariant{
		ID:      DefaultVariantID,
		Default: true,
		Text:    regexp.QuoteMeta(text),
	}
	_ = v.Compile()
	return &KnownLicense{
		ID:       id,
		Name:     display + " (declared by " + archivePath + ")",
		Viral:    IsViral(text),
		Variants: []*TextVariant{v},
		Text:     text,
		AdHoc:    true,
	}
}
