package licenses

import (
	"sync"

	classifierLib "github.com/google/licenseclassifier/v2"
	"github.com/google/licenseclassifier/v2/assets"

	"github.com/matzehuels/legalscan/pkg/errors"
)

// DefaultSuggestThreshold is the minimum confidence a suggestion needs.
const DefaultSuggestThreshold = 0.8

// Suggester names the SPDX license a text most resembles, using the
// licenseclassifier corpus. The corpus is loaded on first use.
type Suggester struct {
	threshold float64
	paths     []string

	once       sync.Once
	classifier *classifierLib.Classifier
	err        error
}

// NewSuggester returns a suggester accepting matches at or above
// threshold. When paths are given the classifier is built from those
// license directories instead of the bundled corpus.
func NewSuggester(threshold float64, paths ...string) *Suggester {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSuggestThreshold
	}
	return &Suggester{threshold: threshold, paths: paths}
}

func (s *Suggester) load() {
	if len(s.paths) == 0 {
		s.classifier, s.err = assets.DefaultClassifier()
		if s.err != nil {
			s.err = errors.Wrap(errors.ErrCodeInternal, s.err, "load license corpus")
		}
		return
	}
	c := classifierLib.NewClassifier(s.threshold)
	for _, p := range s.paths {
		if err := c.LoadLicenses(p); err != nil {
			s.err = errors.Wrap(errors.ErrCodeInvalidRegistry, err, "load license texts from %s", p)
			return
		}
	}
	s.classifier = c
}

// Suggest returns the name of the best license match in text with its
// confidence. ok is false when nothing reaches the threshold.
func (s *Suggester) Suggest(text string) (name string, confidence float64, ok bool, err error) {
	s.once.Do(s.load)
	if s.err != nil {
		return "", 0, false, s.err
	}
	results := s.classifier.Match([]byte(text))
	for _, m := range results.Matches {
		if m.MatchType != "License" || m.Confidence < s.threshold {
			continue
		}
		if m.Confidence > confidence {
			name, confidence, ok = m.Name, m.Confidence, true
		}
	}
	return name, confidence, ok, nil
}
