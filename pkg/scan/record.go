package scan

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/descriptor"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/legal"
	"github.com/matzehuels/legalscan/pkg/licenses"
	"github.com/matzehuels/legalscan/pkg/observability"
)

// recordNotice stores n under the owner's project key. Notices are unique
// across the whole run.
func (a *Aggregator) recordNotice(st *archive, n *legal.Notice) {
	owner := st.owner()
	if n.Empty() {
		st.satisfyNotice("")
		return
	}
	if a.notices[n.Hash()] {
		a.log.Debug("duplicate notice", "archive", owner.path)
		a.res.Diagnostics.DuplicateNotices = append(a.res.Diagnostics.DuplicateNotices, owner.path)
		st.satisfyNotice(n.Text())
		return
	}
	a.notices[n.Hash()] = true
	key := coordinate.ProjectKey(owner.inferred.Name)
	a.res.Notices[key] = append(a.res.Notices[key], n)
	a.res.Diagnostics.UniqueNotices++
	st.satisfyNotice(n.Text())
}

// recordLicense classifies text found for st and stores the result.
func (a *Aggregator) recordLicense(ctx context.Context, st *archive, text string) {
	owner := st.owner()
	if strings.TrimSpace(text) == "" {
		a.log.Debug("empty license file", "archive", owner.path)
		st.satisfyLicense(nil)
		return
	}
	f := legal.NewLicenseFile(owner.path, text)
	minted, err := a.opts.Registry.ClassifyFile(f)
	if err != nil {
		a.fail(owner.path, err)
		return
	}
	if minted != nil && len(f.Licenses) == 1 {
		a.review(st, "license text matched no known license", a.hints(owner, f.Text))
	}
	a.addLicenseFile(ctx, st, f)
}

// declaredLicenses records the licenses a descriptor names.
func (a *Aggregator) declaredLicenses(ctx context.Context, st *archive, d *descriptor.Descriptor) {
	owner := st.owner()
	for _, dl := range d.Licenses {
		l, ok := a.opts.Registry.ByName(dl.Name)
		if !ok && dl.URL != "" {
			l, ok = a.opts.Registry.ByName(dl.URL)
		}
		if ok {
			text := l.Text
			if v := l.DefaultVariant(); text == "" && v != nil && v.Literal {
				text = v.Text
			}
			if text == "" {
				text = l.Name
			}
			f := legal.NewLicenseFile(owner.path, text)
			f.Licenses = []string{l.ID}
			f.Declared = dl.Name
			a.addLicenseFile(ctx, st, f)
			continue
		}

		if dl.URL != "" && a.opts.Fetcher != nil {
			text, err := a.opts.Fetcher.FetchText(ctx, dl.URL)
			if err == nil && strings.TrimSpace(text) != "" {
				a.recordLicense(ctx, st, text)
				continue
			}
			if err != nil {
				a.log.Warn("could not fetch declared license", "archive", owner.path, "url", dl.URL, "err", errors.UserMessage(err))
			}
		}

		text := declaredText(dl)
		minted := licenses.NewDeclared(owner.path, dl.Name, text)
		if err := a.opts.Registry.Add(minted); err != nil {
			a.fail(owner.path, err)
			continue
		}
		f := legal.NewLicenseFile(owner.path, text)
		f.Licenses = []string{minted.ID}
		f.Declared = dl.Name
		a.review(st, "declared license not recognized", joinHints(text, scmHint(owner.scm)))
		a.addLicenseFile(ctx, st, f)
	}
}

func declaredText(dl descriptor.License) string {
	switch {
	case dl.Name != "" && dl.URL != "":
		return dl.Name + "\n" + dl.URL
	case dl.Name != "":
		return dl.Name
	default:
		return dl.URL
	}
}

func (a *Aggregator) addLicenseFile(ctx context.Context, st *archive, f *legal.LicenseFile) {
	observability.Scan().OnClassify(ctx, f.ArchivePath, f.Licenses)
	for _, id := range f.Licenses {
		set, ok := a.res.Licenses[id]
		if !ok {
			set = &legal.LicenseFileSet{}
			a.res.Licenses[id] = set
		}
		set.Add(f)
	}
	sum := fmt.Sprintf("%x", sha256.Sum256([]byte(f.Text)))
	if a.licenses[sum] {
		a.res.Diagnostics.DuplicateLicenses = append(a.res.Diagnostics.DuplicateLicenses, f.ArchivePath)
	} else {
		a.licenses[sum] = true
		a.res.Diagnostics.UniqueLicenses++
	}
	st.satisfyLicense(f.Licenses)
}

// hints collects what might help a human classify text.
func (a *Aggregator) hints(owner *archive, text string) string {
	var hints []string
	if l, dist, ok := a.opts.Registry.Closest(text, a.opts.ClosestMaxDistance); ok {
		hints = append(hints, fmt.Sprintf("closest known license %s (distance %d)", l.ID, dist))
	}
	if a.opts.Suggester != nil {
		name, conf, ok, err := a.opts.Suggester.Suggest(text)
		switch {
		case err != nil:
			a.log.Debug("license suggestion failed", "err", err)
		case ok:
			hints = append(hints, fmt.Sprintf("resembles %s (%.0f%% confidence)", name, conf*100))
		}
	}
	return joinHints(append(hints, scmHint(owner.scm))...)
}

func scmHint(scm string) string {
	if scm == "" {
		return ""
	}
	return "check sources at " + scm
}

func joinHints(hints ...string) string {
	var out []string
	for _, h := range hints {
		if h != "" {
			out = append(out, h)
		}
	}
	return strings.Join(out, "; ")
}

func (a *Aggregator) review(st *archive, reason, hint string) {
	owner := st.owner()
	a.log.Debug("manual review", "archive", owner.path, "reason", reason, "hint", hint)
	a.res.Diagnostics.ManualReview = append(a.res.Diagnostics.ManualReview, Review{
		Archive: owner.path,
		Reason:  reason,
		Hint:    hint,
	})
}

func (a *Aggregator) fail(p string, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	a.log.Warn("skipping", "path", p, "err", err)
	a.res.Diagnostics.Failures = append(a.res.Diagnostics.Failures, Failure{
		Archive: p,
		Code:    code,
		Message: errors.UserMessage(err),
	})
}

// report records what st ended up with.
func (a *Aggregator) report(st *archive) {
	diag := &a.res.Diagnostics
	if st.wantsNotice() {
		diag.MissingNotices = append(diag.MissingNotices, st.path)
	}
	if st.wantsLicense() {
		diag.MissingLicenses = append(diag.MissingLicenses, st.path)
	}

	c := st.coordinate()
	copyright, _ := legal.ParseCopyright(st.noticeText)
	var licenseKey string
	if len(st.licenses) > 0 {
		licenseKey = st.licenses[0]
	}
	pkgs := make([]string, 0, len(st.packages))
	for p := range st.packages {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)

	name := coordinate.BaseName(st.path)
	for _, p := range pkgs {
		a.res.Packages[name] = append(a.res.Packages[name], legal.PackageInfo{
			ArchivePath:        st.path,
			Package:            p,
			LicenseKey:         licenseKey,
			Version:            c.Version,
			CopyrightStartYear: copyright.StartYear,
			CopyrightEndYear:   copyright.EndYear,
			CopyrightOwner:     copyright.Owner,
		})
	}

	a.res.Archives = append(a.res.Archives, Archive{
		Path:       st.path,
		Coordinate: c,
		SCM:        st.scm,
		Licenses:   st.licenses,
		HasNotice:  st.foundNotice,
	})
}
