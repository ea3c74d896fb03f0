package scan

import (
	"context"
	"strings"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/descriptor"
	"github.com/matzehuels/legalscan/pkg/errors"
)

// finalize runs after everything an archive scheduled. Archives without a
// descriptor that still miss a text get one fallback attempt first.
func (a *Aggregator) finalize(ctx context.Context, st *archive) {
	if st.origin != nil {
		return
	}
	missing := st.wantsNotice() || st.wantsLicense()
	if missing && !st.hadDescriptor && !st.fellBack {
		st.fellBack = true
		a.push(
			func(ctx context.Context) { a.fallback(ctx, st) },
			func(ctx context.Context) { a.finalize(ctx, st) },
		)
		return
	}
	a.report(st)
}

// fallback searches the package index for the coordinate inferred from
// the archive's file name.
func (a *Aggregator) fallback(ctx context.Context, st *archive) {
	inf, err := coordinate.Infer(coordinate.BaseName(st.path))
	if err != nil {
		a.review(st, err.Error(), "")
		return
	}
	if a.opts.Index == nil {
		a.review(st, "package index lookup disabled", inf.String())
		return
	}

	results, err := a.opts.Index.Search(ctx, inf.Name, inf.Version, inf.Classifier)
	switch {
	case err != nil:
		a.log.Warn("package index search failed", "archive", st.path, "err", errors.UserMessage(err))
		a.review(st, "package index search failed", errors.UserMessage(err))
		return
	case len(results) == 0:
		a.review(st, "no package index match", inf.String())
		return
	case len(results) > 1:
		names := make([]string, len(results))
		for i, c := range results {
			names[i] = c.String()
		}
		a.review(st, "ambiguous package index match", strings.Join(names, ", "))
		return
	}

	c := results[0]
	a.log.Debug("package index match", "archive", st.path, "coordinate", c)
	if st.coord.Name == "" {
		st.coord = c
	}
	if !c.IsSources() {
		sc := c.WithClassifier(coordinate.ClassifierSources)
		if !a.walkResolved(ctx, st, sc) {
			a.review(st, "could not resolve sources archive", sc.String())
		}
		return
	}

	pc := c.WithType(coordinate.TypePOM)
	file, ok := a.resolve(ctx, st, pc)
	if !ok {
		a.review(st, "could not resolve descriptor", pc.String())
		return
	}
	d, err := descriptor.ParseFile(file)
	if err != nil {
		a.fail(pc.String(), err)
		return
	}
	a.processDescriptor(ctx, st, d, descriptorRun{})
}
