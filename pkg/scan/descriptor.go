package scan

import (
	"context"
	"maps"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/descriptor"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/observability"
)

// descriptorRun carries the context of one descriptor visit.
type descriptorRun struct {
	// missing lists embedded archives whose bytes were not captured.
	missing []embedded
	// depth counts parent hops from the archive's own descriptor.
	depth int
	// sources enables the sources archive lookup.
	sources bool
	// chain holds the descriptors visited on the way up the parents.
	chain map[string]bool
}

func descriptorKey(d *descriptor.Descriptor) string {
	return d.EffectiveGroup() + ":" + d.ArtifactID + ":" + d.EffectiveVersion()
}

// processDescriptor interprets d on behalf of st: declared licenses,
// parent chain, embedded dependencies and finally the sources archive.
func (a *Aggregator) processDescriptor(ctx context.Context, st *archive, d *descriptor.Descriptor, run descriptorRun) {
	key := descriptorKey(d)
	if run.chain[key] {
		a.log.Warn("descriptor cycle", "archive", st.path, "descriptor", key)
		return
	}
	chain := maps.Clone(run.chain)
	if chain == nil {
		chain = make(map[string]bool)
	}
	chain[key] = true

	if run.depth == 0 {
		st.coord = d.Coordinate()
	}
	if st.scm == "" {
		st.scm = d.SCMConnection()
	}

	var tasks []task
	if st.wantsLicense() {
		switch pc, hasParent := d.ParentCoordinate(); {
		case len(d.Licenses) > 0:
			a.declaredLicenses(ctx, st, d)
		case hasParent && run.depth < a.opts.MaxParentDepth:
			next := descriptorRun{depth: run.depth + 1, chain: chain}
			tasks = append(tasks, func(ctx context.Context) { a.parent(ctx, st, pc, next) })
		case hasParent:
			a.log.Debug("parent depth exhausted", "archive", st.path, "parent", pc)
		}
	}
	for _, e := range run.missing {
		tasks = append(tasks, func(ctx context.Context) { a.dependency(ctx, st, d, e) })
	}
	if run.sources {
		tasks = append(tasks, func(ctx context.Context) { a.sources(ctx, st, d) })
	}
	a.push(tasks...)
}

func (a *Aggregator) parent(ctx context.Context, st *archive, pc coordinate.Coordinate, run descriptorRun) {
	if !st.wantsLicense() {
		return
	}
	file, ok := a.resolve(ctx, st, pc)
	if !ok {
		return
	}
	d, err := descriptor.ParseFile(file)
	if err != nil {
		a.fail(pc.String(), err)
		return
	}
	a.log.Debug("following parent descriptor", "archive", st.path, "parent", pc, "depth", run.depth)
	a.processDescriptor(ctx, st, d, run)
}

// dependency resolves an embedded archive that was too large to buffer
// through the dependency declared for it and walks the resolved file.
func (a *Aggregator) dependency(ctx context.Context, st *archive, d *descriptor.Descriptor, e embedded) {
	dep, ok := d.LookupDependency(e.coord.Name)
	if !ok {
		for _, dep := range d.Dependencies {
			if !descriptor.Resolved(dep.ArtifactID) {
				a.log.Debug("dependency artifact id not expanded", "archive", st.path, "artifact", dep.ArtifactID)
			}
		}
		a.review(st, "embedded archive is not a declared dependency", e.entry)
		return
	}
	c := dep.Coordinate(e.coord.Version)
	file, ok := a.resolve(ctx, st, c)
	if !ok {
		a.review(st, "could not resolve embedded dependency", c.String())
		return
	}
	child := newArchive(st.path+"!/"+e.entry, st.level+1, nil)
	child.file = file
	child.processDescriptor = true
	a.walk(ctx, child)
}

// sources looks for the missing texts in the sources archive of d. An
// archive that already is a sources archive gets its descriptor instead.
func (a *Aggregator) sources(ctx context.Context, st *archive, d *descriptor.Descriptor) {
	if !st.wantsNotice() && !st.wantsLicense() {
		return
	}
	if st.inferred.IsSources() {
		pc := d.Coordinate().WithType(coordinate.TypePOM)
		file, ok := a.resolve(ctx, st, pc)
		if !ok {
			return
		}
		pd, err := descriptor.ParseFile(file)
		if err != nil {
			a.fail(pc.String(), err)
			return
		}
		a.processDescriptor(ctx, st, pd, descriptorRun{})
		return
	}

	sc := coordinate.New(d.EffectiveGroup(), d.ArtifactID, d.EffectiveVersion()).
		WithClassifier(coordinate.ClassifierSources)
	if err := sc.Validate(); err != nil || !sc.HasVersion() || sc.Group == "" {
		a.log.Debug("descriptor does not name a resolvable sources archive", "archive", st.path)
		return
	}
	a.walkResolved(ctx, st, sc)
}

// walkResolved resolves c and walks it on behalf of st without looking at
// its descriptor.
func (a *Aggregator) walkResolved(ctx context.Context, st *archive, c coordinate.Coordinate) bool {
	file, ok := a.resolve(ctx, st, c)
	if !ok {
		return false
	}
	child := newArchive(c.FileName(), st.level+1, st)
	child.file = file
	a.walk(ctx, child)
	return true
}

// resolve turns c into a local file. Failures are logged and reported to
// the caller, never raised.
func (a *Aggregator) resolve(ctx context.Context, st *archive, c coordinate.Coordinate) (string, bool) {
	if a.opts.Resolver == nil {
		a.log.Debug("artifact resolution disabled", "archive", st.path, "coordinate", c)
		return "", false
	}
	file, err := a.opts.Resolver.Resolve(ctx, c)
	observability.Scan().OnResolve(ctx, c.String(), err)
	if err != nil {
		a.log.Warn("could not resolve artifact", "archive", st.path, "coordinate", c, "err", errors.UserMessage(err))
		return "", false
	}
	return file, true
}
