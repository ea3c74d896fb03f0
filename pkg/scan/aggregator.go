package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/legal"
)

// task is one pending unit of work on the stack.
type task func(ctx context.Context)

// Aggregator runs scans. An Aggregator is not safe for concurrent use;
// each [Aggregator.Run] starts from empty collections but shares the
// registry, which keeps the licenses minted by earlier runs.
type Aggregator struct {
	opts Options
	log  *log.Logger

	stack    []task
	visited  map[string]*archive
	roots    []*archive
	notices  map[string]bool
	licenses map[string]bool
	res      *Result
}

// New returns an aggregator for opts.
func New(opts Options) (*Aggregator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{opts: opts, log: opts.Logger}, nil
}

// Run scans root, which is either a directory searched recursively for
// "*.jar" files or a single archive. Archive paths in the result are
// relative to root. Run returns the context's error when cancelled.
func (a *Aggregator) Run(ctx context.Context, root string) (*Result, error) {
	files, base, err := collect(root)
	if err != nil {
		return nil, err
	}
	a.reset()
	a.log.Info("scanning archives", "root", root, "count", len(files))

	tasks := make([]task, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(base, f)
		if err != nil {
			rel = f
		}
		st := newArchive(filepath.ToSlash(rel), 0, nil)
		st.file = f
		st.processDescriptor = true
		tasks = append(tasks, func(ctx context.Context) { a.walk(ctx, st) })
	}
	a.push(tasks...)

	for len(a.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := a.pop()
		t(ctx)
	}
	return a.finish(), nil
}

func (a *Aggregator) reset() {
	a.stack = a.stack[:0]
	a.visited = make(map[string]*archive)
	a.roots = nil
	a.notices = make(map[string]bool)
	a.licenses = make(map[string]bool)
	a.res = &Result{
		Notices:  make(map[string][]*legal.Notice),
		Licenses: make(map[string]*legal.LicenseFileSet),
		Packages: make(map[string][]legal.PackageInfo),
		Registry: a.opts.Registry,
	}
}

// push schedules tasks so that they run in the given order.
func (a *Aggregator) push(tasks ...task) {
	for i := len(tasks) - 1; i >= 0; i-- {
		a.stack = append(a.stack, tasks[i])
	}
}

func (a *Aggregator) pop() task {
	n := len(a.stack) - 1
	t := a.stack[n]
	a.stack[n] = nil
	a.stack = a.stack[:n]
	return t
}

func (a *Aggregator) finish() *Result {
	res := a.res
	sort.Slice(res.Archives, func(i, j int) bool { return res.Archives[i].Path < res.Archives[j].Path })
	for k := range res.Packages {
		legal.SortPackages(res.Packages[k])
	}
	return res
}

// collect lists the archives below root, sorted. base is the directory
// archive paths are made relative to.
func collect(root string) (files []string, base string, err error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "scan root %s", root)
	}
	if !info.IsDir() {
		if !isArchive(abs) {
			return nil, "", errors.New(errors.ErrCodeInvalidPath, "%s is not a jar archive", root)
		}
		return []string{abs}, filepath.Dir(abs), nil
	}

	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isArchive(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root)
	}
	sort.Strings(files)
	return files, abs, nil
}

func isArchive(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".jar")
}

// archive is the walk state of one archive.
//
// An archive with an origin is searched on behalf of that origin (a
// sources archive standing in for a binary one): what it finds satisfies
// the origin, and it is never reported on its own.
type archive struct {
	path string
	// file is the archive on disk; data holds embedded archive bytes.
	file string
	data []byte

	inferred coordinate.Coordinate
	coord    coordinate.Coordinate
	level    int
	origin   *archive

	processDescriptor bool
	needNotice        bool
	needLicense       bool
	foundNotice       bool
	foundLicense      bool
	hadDescriptor     bool
	fellBack          bool

	scm        string
	noticeText string
	licenses   []string
	packages   map[string]struct{}
}

func newArchive(p string, level int, origin *archive) *archive {
	inferred, _ := coordinate.Infer(coordinate.BaseName(p))
	st := &archive{
		path:        p,
		inferred:    inferred,
		level:       level,
		origin:      origin,
		needNotice:  true,
		needLicense: true,
		packages:    make(map[string]struct{}),
	}
	if origin != nil {
		st.needNotice = origin.wantsNotice()
		st.needLicense = origin.wantsLicense()
	}
	return st
}

// owner returns the archive at the end of the origin chain.
func (st *archive) owner() *archive {
	for st.origin != nil {
		st = st.origin
	}
	return st
}

func (st *archive) wantsNotice() bool {
	if !st.needNotice || st.foundNotice {
		return false
	}
	return st.origin == nil || st.origin.wantsNotice()
}

func (st *archive) wantsLicense() bool {
	if !st.needLicense || st.foundLicense {
		return false
	}
	return st.origin == nil || st.origin.wantsLicense()
}

// satisfyNotice marks st and its origins as having a notice.
func (st *archive) satisfyNotice(text string) {
	for s := st; s != nil; s = s.origin {
		s.foundNotice = true
		if s.noticeText == "" {
			s.noticeText = text
		}
	}
}

// satisfyLicense marks st and its origins as having a license.
func (st *archive) satisfyLicense(ids []string) {
	for s := st; s != nil; s = s.origin {
		s.foundLicense = true
		for _, id := range ids {
			if !slices.Contains(s.licenses, id) {
				s.licenses = append(s.licenses, id)
			}
		}
	}
}

// coordinate returns the descriptor coordinate when known, else the
// inferred one.
func (st *archive) coordinate() coordinate.Coordinate {
	if st.coord.Name != "" {
		return st.coord
	}
	return st.inferred
}
