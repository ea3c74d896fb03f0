package report

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/scan"
)

// Output file names.
const (
	NoticeFile   = "NOTICE-aggregated"
	LicenseFile  = "LICENSE-aggregated"
	SPDXFile     = "legalscan.spdx.json"
	RegistryDir  = "known-licenses"
	DefaultTitle = "legalscan"
)

// Options selects what [Export] writes.
type Options struct {
	// Dir is the output directory. It is created when missing.
	Dir string
	// Format is the inventory encoding; empty means JSON.
	Format Format
	// SPDX enables the SPDX document.
	SPDX bool
	// Name names the SPDX document. Defaults to DefaultTitle.
	Name string
	// UpdateRegistry writes the registry, ad-hoc licenses included.
	UpdateRegistry bool
	// Diagnostics is a file name, relative to Dir unless absolute, for
	// the JSON diagnostics. Empty disables it.
	Diagnostics string
	// RunID tags the SPDX namespace and diagnostics. Generated when empty.
	RunID string

	Logger *log.Logger
}

func (o *Options) defaults() {
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if o.Name == "" {
		o.Name = DefaultTitle
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Export writes the selected outputs for res into opts.Dir concurrently
// and returns the paths written. Any failure carries the OUTPUT_WRITE code.
func Export(ctx context.Context, res *scan.Result, opts Options) ([]string, error) {
	opts.defaults()
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputWrite, err, "create output directory %s", opts.Dir)
	}

	type output struct {
		path  string
		write func(io.Writer) error
	}
	outputs := []output{
		{NoticeFile, func(w io.Writer) error { return WriteNotices(w, res) }},
		{LicenseFile, func(w io.Writer) error { return WriteLicenses(w, res) }},
		{InventoryFile(opts.Format), func(w io.Writer) error { return WriteInventory(w, res, opts.Format) }},
	}
	if opts.SPDX {
		spdxOpts := SPDXOptions{Name: opts.Name, RunID: opts.RunID}
		outputs = append(outputs, output{SPDXFile, func(w io.Writer) error { return WriteSPDX(w, res, spdxOpts) }})
	}
	if opts.Diagnostics != "" {
		outputs = append(outputs, output{opts.Diagnostics, func(w io.Writer) error { return WriteDiagnostics(w, res, opts.RunID) }})
	}

	paths := make([]string, len(outputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, out := range outputs {
		p := out.path
		if !filepath.IsAbs(p) {
			p = filepath.Join(opts.Dir, p)
		}
		paths[i] = p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := writeFile(p, out.write); err != nil {
				return err
			}
			opts.Logger.Debug("wrote output", "path", p)
			return nil
		})
	}
	if opts.UpdateRegistry && res.Registry != nil {
		dir := filepath.Join(opts.Dir, RegistryDir)
		paths = append(paths, dir)
		g.Go(func() error {
			if err := res.Registry.Save(dir); err != nil {
				return errors.Wrap(errors.ErrCodeOutputWrite, err, "save registry")
			}
			opts.Logger.Debug("wrote registry", "path", dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeOutputWrite, err, "write outputs")
		}
		return nil, err
	}
	return paths, nil
}

// writeFile writes through a temporary file renamed into place.
func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create directory for %s", path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "chmod %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "rename %s", path)
	}
	return nil
}
