package scan

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/descriptor"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/legal"
	"github.com/matzehuels/legalscan/pkg/observability"
)

const manifestName = "META-INF/MANIFEST.MF"

// embedded is an archive found inside another one.
type embedded struct {
	entry string
	coord coordinate.Coordinate
	data  []byte
}

// walk scans one archive and schedules its follow-up work. A resolved
// file on disk is walked at most once per run, however it was reached.
func (a *Aggregator) walk(ctx context.Context, st *archive) {
	if !st.wantsNotice() && !st.wantsLicense() {
		a.log.Debug("nothing left to look for", "archive", st.path)
		return
	}
	if st.file != "" {
		// Roots are always walked so that each one is reported.
		if prev, ok := a.visited[st.file]; ok && st.level > 0 {
			a.log.Debug("archive already walked", "archive", st.path)
			if prev.foundNotice {
				st.satisfyNotice(prev.noticeText)
			}
			if prev.foundLicense {
				st.satisfyLicense(prev.licenses)
			}
			return
		}
		a.visited[st.file] = st
	}

	a.log.Debug("walking archive", "archive", st.path, "level", st.level)
	start := time.Now()
	observability.Scan().OnArchiveStart(ctx, st.path, st.level)
	tasks, err := a.readArchive(ctx, st)
	observability.Scan().OnArchiveComplete(ctx, st.path, time.Since(start), err)
	if err != nil {
		a.fail(st.path, err)
		return
	}
	a.push(tasks...)
}

func (a *Aggregator) open(st *archive) (*zip.Reader, func() error, error) {
	if st.data != nil {
		zr, err := zip.NewReader(bytes.NewReader(st.data), int64(len(st.data)))
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeArchiveIO, err, "open %s", st.path)
		}
		return zr, func() error { return nil }, nil
	}
	rc, err := zip.OpenReader(st.file)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeArchiveIO, err, "open %s", st.path)
	}
	return &rc.Reader, rc.Close, nil
}

// readArchive streams the entries of st once and returns the tasks that
// continue its walk: embedded archives, the descriptor, then finalize.
func (a *Aggregator) readArchive(ctx context.Context, st *archive) ([]task, error) {
	zr, closeFn, err := a.open(st)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var (
		first, preferred *zip.File
		children         []embedded
		oversized        []embedded
	)
	wantDescriptor := "META-INF/maven/*/" + st.inferred.Name + "/" + descriptor.FileName

	for _, f := range zr.File {
		name := f.Name
		if f.FileInfo().IsDir() {
			continue
		}
		switch {
		case st.wantsNotice() && legal.IsNotice(name):
			a.extractNotice(st, f)
		case st.processDescriptor && path.Base(name) == descriptor.FileName:
			if first == nil {
				first = f
			}
			if ok, _ := path.Match(wantDescriptor, name); ok && preferred == nil {
				preferred = f
			}
		case st.wantsLicense() && legal.IsLicense(name):
			a.extractLicense(ctx, st, f)
		case isArchive(name):
			e := embedded{entry: name}
			e.coord, _ = coordinate.Infer(coordinate.BaseName(name))
			if int64(f.UncompressedSize64) > a.opts.MaxEmbeddedSize {
				a.log.Debug("embedded archive exceeds size cap", "archive", st.path, "entry", name, "size", f.UncompressedSize64)
				oversized = append(oversized, e)
				continue
			}
			data, err := readEntry(f, a.opts.MaxEmbeddedSize)
			if err != nil {
				a.fail(st.path+"!/"+name, err)
				continue
			}
			e.data = data
			children = append(children, e)
		case strings.HasSuffix(name, ".class"):
			if strings.HasPrefix(name, "META-INF/") {
				continue
			}
			if pkg, ok := legal.PackageName(name); ok {
				st.packages[pkg] = struct{}{}
			}
		default:
			a.inspect(st, f)
		}
	}

	tasks := make([]task, 0, len(children)+2)
	for _, e := range children {
		child := newArchive(st.path+"!/"+e.entry, st.level+1, nil)
		child.data = e.data
		child.processDescriptor = true
		tasks = append(tasks, func(ctx context.Context) { a.walk(ctx, child) })
	}

	if chosen := pick(preferred, first); chosen != nil {
		d, err := parseEntry(chosen)
		if err != nil {
			a.fail(st.path+"!/"+chosen.Name, err)
		} else {
			st.hadDescriptor = true
			tasks = append(tasks, func(ctx context.Context) {
				a.processDescriptor(ctx, st, d, descriptorRun{missing: oversized, sources: true})
			})
		}
	}
	if !st.hadDescriptor {
		for _, e := range oversized {
			a.review(st, "embedded archive exceeds size cap", e.entry)
		}
	}

	tasks = append(tasks, func(ctx context.Context) { a.finalize(ctx, st) })
	return tasks, nil
}

func pick(preferred, first *zip.File) *zip.File {
	if preferred != nil {
		return preferred
	}
	return first
}

func (a *Aggregator) extractNotice(st *archive, f *zip.File) {
	rc, err := f.Open()
	if err != nil {
		a.fail(st.path+"!/"+f.Name, errors.Wrap(errors.ErrCodeArchiveIO, err, "open %s", f.Name))
		return
	}
	defer rc.Close()
	n, err := legal.ReadNotice(rc)
	if err != nil {
		a.fail(st.path+"!/"+f.Name, errors.Wrap(errors.ErrCodeArchiveIO, err, "read %s", f.Name))
		return
	}
	a.log.Debug("found notice", "archive", st.path, "entry", f.Name)
	a.recordNotice(st, n)
}

func (a *Aggregator) extractLicense(ctx context.Context, st *archive, f *zip.File) {
	data, err := readEntry(f, 0)
	if err != nil {
		a.fail(st.path+"!/"+f.Name, err)
		return
	}
	a.log.Debug("found license", "archive", st.path, "entry", f.Name)
	a.recordLicense(ctx, st, string(data))
}

// inspect handles entries no rule claimed.
func (a *Aggregator) inspect(st *archive, f *zip.File) {
	name := f.Name
	switch {
	case legal.IsNotice(name) || legal.IsLicense(name):
		a.log.Debug("ignoring additional legal file", "archive", st.path, "entry", name)
	case legal.Recognize(name, legal.KindNotice) == legal.Potential,
		legal.Recognize(name, legal.KindLicense) == legal.Potential:
		a.log.Debug("potential legal file not handled", "archive", st.path, "entry", name)
		a.res.Diagnostics.PotentialFiles = append(a.res.Diagnostics.PotentialFiles, st.path+"!/"+name)
	case name == manifestName:
		data, err := readEntry(f, 0)
		if err != nil {
			return
		}
		if v := manifestAttr(data, "Bundle-License"); v != "" {
			a.log.Debug("manifest declares license", "archive", st.path, "bundle_license", v)
		}
	}
}

// readEntry reads an entry completely. A positive limit caps the bytes read.
func readEntry(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchiveIO, err, "open %s", f.Name)
	}
	defer rc.Close()
	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchiveIO, err, "read %s", f.Name)
	}
	return data, nil
}

func parseEntry(f *zip.File) (*descriptor.Descriptor, error) {
	data, err := readEntry(f, 0)
	if err != nil {
		return nil, err
	}
	return descriptor.Parse(data)
}

// manifestAttr returns a main-section attribute of a JAR manifest,
// joining continuation lines.
func manifestAttr(data []byte, key string) string {
	var (
		value   strings.Builder
		reading bool
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if reading {
			if !strings.HasPrefix(line, " ") {
				break
			}
			value.WriteString(line[1:])
			continue
		}
		if line == "" {
			break
		}
		if k, v, ok := strings.Cut(line, ":"); ok && strings.EqualFold(k, key) {
			value.WriteString(strings.TrimSpace(v))
			reading = true
		}
	}
	return value.String()
}
