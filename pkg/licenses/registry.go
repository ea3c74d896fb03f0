package licenses

import (
	"sort"
	"strings"

	"github.com/matzehuels/legalscan/pkg/errors"
)

// Registry holds the known licenses of a run. It is not safe for
// concurrent mutation; a scan owns exactly one.
type Registry struct {
	licenses map[string]*KnownLicense
	// bySize caches every variant ordered longest first; nil when stale.
	bySize []variantRef
}

type variantRef struct {
	variant *TextVariant
	license *KnownLicense
}

// NewRegistry returns a registry holding ls. Every variant is compiled.
func NewRegistry(ls ...*KnownLicense) (*Registry, error) {
	r := &Registry{licenses: make(map[string]*KnownLicense, len(ls))}
	for _, l := range ls {
		if err := r.Add(l); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers l, replacing any license with the same id.
func (r *Registry) Add(l *KnownLicense) error {
	if l == nil || l.ID == "" {
		return errors.New(errors.ErrCodeInvalidRegistry, "license id cannot be empty")
	}
	for _, v := range l.Variants {
		if v.Pattern() == nil {
			if err := v.Compile(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidRegistry, err, "license %q", l.ID)
			}
		}
	}
	r.licenses[l.ID] = l
	r.bySize = nil
	return nil
}

// Get returns the license with id.
func (r *Registry) Get(id string) (*KnownLicense, bool) {
	l, ok := r.licenses[id]
	return l, ok
}

// ByName finds a license whose name or alias equals name. Exact matches
// win over case-insensitive ones. Surrounding whitespace is ignored.
func (r *Registry) ByName(name string) (*KnownLicense, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	all := r.Licenses()
	for _, l := range all {
		if l.Name == name || contains(l.Aliases, name) {
			return l, true
		}
	}
	for _, l := range all {
		if strings.EqualFold(l.Name, name) || containsFold(l.Aliases, name) {
			return l, true
		}
	}
	return nil, false
}

// Licenses returns every license ordered by id.
func (r *Registry) Licenses() []*KnownLicense {
	out := make([]*KnownLicense, 0, len(r.licenses))
	for _, l := range r.licenses {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AdHoc returns the licenses minted during this run, ordered by id.
func (r *Registry) AdHoc() []*KnownLicense {
	var out []*KnownLicense
	for _, l := range r.Licenses() {
		if l.AdHoc {
			out = append(out, l)
		}
	}
	return out
}

// Len returns the number of licenses.
func (r *Registry) Len() int { return len(r.licenses) }

// variantsBySize orders every variant by text length, longest first.
// Ties are broken by license id and variant id.
func (r *Registry) variantsBySize() []variantRef {
	if r.bySize != nil {
		return r.bySize
	}
	refs := make([]variantRef, 0, len(r.licenses))
	for _, l := range r.licenses {
		for _, v := range l.Variants {
			refs = append(refs, variantRef{variant: v, license: l})
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if len(a.variant.Text) != len(b.variant.Text) {
			return len(a.variant.Text) > len(b.variant.Text)
		}
		if a.license.ID != b.license.ID {
			return a.license.ID < b.license.ID
		}
		return a.variant.ID < b.variant.ID
	})
	r.bySize = refs
	return refs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.TrimSpace(v) == s {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
