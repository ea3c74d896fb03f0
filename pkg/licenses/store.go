package licenses

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/legalscan/pkg/errors"
)

// RegistryFileName is the name of the registry document inside a
// registry directory.
const RegistryFileName = "known-licenses.toml"

// filePrefix marks a text stored in a companion file, relative to the
// registry document.
const filePrefix = "file:"

//go:embed defaults
var defaultsFS embed.FS

type registryFile struct {
	Licenses map[string]*licenseEntry `toml:"licenses"`
}

type licenseEntry struct {
	Name     string         `toml:"name"`
	Version  string         `toml:"version,omitempty"`
	SPDX     string         `toml:"spdx,omitempty"`
	Viral    bool           `toml:"viral,omitempty"`
	AdHoc    bool           `toml:"ad_hoc,omitempty"`
	Aliases  []string       `toml:"aliases,omitempty"`
	Text     string         `toml:"text,omitempty"`
	Variants []variantEntry `toml:"variants"`
}

type variantEntry struct {
	ID      string `toml:"id"`
	Default bool   `toml:"default,omitempty"`
	Literal bool   `toml:"literal,omitempty"`
	Text    string `toml:"text"`
}

// LoadDefaults loads the registry bundled with legalscan.
func LoadDefaults() (*Registry, error) {
	return Load(defaultsFS, path.Join("defaults", RegistryFileName))
}

// LoadFile loads a registry document from disk. Companion texts are
// resolved relative to the document's directory.
func LoadFile(file string) (*Registry, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRegistry, err, "resolve %s", file)
	}
	return Load(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
}

// Load reads the registry document name from fsys.
func Load(fsys fs.FS, name string) (*Registry, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRegistry, err, "read registry %s", name)
	}
	var doc registryFile
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRegistry, err, "parse registry %s", name)
	}

	base := path.Dir(name)
	read := func(text string) (string, error) {
		rel, ok := strings.CutPrefix(text, filePrefix)
		if !ok {
			return text, nil
		}
		if err := errors.ValidatePath(rel); err != nil {
			return "", err
		}
		b, err := fs.ReadFile(fsys, path.Join(base, rel))
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidRegistry, err, "read companion text %s", rel)
		}
		return strings.ReplaceAll(string(b), "\r\n", "\n"), nil
	}

	r := &Registry{licenses: make(map[string]*KnownLicense, len(doc.Licenses))}
	for id, e := range doc.Licenses {
		l := &KnownLicense{
			ID:      id,
			Name:    e.Name,
			Version: e.Version,
			SPDX:    e.SPDX,
			AdHoc:   e.AdHoc,
			Aliases: e.Aliases,
		}
		if l.Text, err = read(e.Text); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRegistry, err, "license %q", id)
		}
		l.Viral = e.Viral || IsViral(l.Text)
		for _, ve := range e.Variants {
			v := &TextVariant{ID: ve.ID, Default: ve.Default, Literal: ve.Literal}
			if v.Text, err = read(ve.Text); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidRegistry, err, "license %q variant %q", id, ve.ID)
			}
			l.Variants = append(l.Variants, v)
		}
		if err := r.Add(l); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Save writes the registry into dir: the registry document plus one
// LICENSE.txt and one variants/<id>.txt companion file per license.
// Texts in the document are replaced by file: references.
func (r *Registry) Save(dir string) error {
	doc := registryFile{Licenses: make(map[string]*licenseEntry, len(r.licenses))}
	write := func(rel, text string) (string, error) {
		if err := errors.ValidatePath(rel); err != nil {
			return "", err
		}
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			return "", err
		}
		return filePrefix + rel, nil
	}

	for _, l := range r.Licenses() {
		d := dirName(l.ID)
		e := &licenseEntry{
			Name:    l.Name,
			Version: l.Version,
			SPDX:    l.SPDX,
			Viral:   l.Viral,
			AdHoc:   l.AdHoc,
			Aliases: l.Aliases,
		}
		var err error
		if l.Text != "" {
			if e.Text, err = write(path.Join(d, "LICENSE.txt"), l.Text); err != nil {
				return errors.Wrap(errors.ErrCodeOutputWrite, err, "write license %q", l.ID)
			}
		}
		for _, v := range l.Variants {
			ve := variantEntry{ID: v.ID, Default: v.Default, Literal: v.Literal}
			if ve.Text, err = write(path.Join(d, "variants", dirName(v.ID)+".txt"), v.Text); err != nil {
				return errors.Wrap(errors.ErrCodeOutputWrite, err, "write license %q variant %q", l.ID, v.ID)
			}
			e.Variants = append(e.Variants, ve)
		}
		doc.Licenses[l.ID] = e
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "encode registry")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, RegistryFileName), buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write registry")
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// dirName turns an id into a single safe path segment. Ids that had to be
// rewritten get a hash suffix so distinct ids never collide.
func dirName(id string) string {
	s := unsafeName.ReplaceAllString(id, "_")
	s = strings.ReplaceAll(s, "..", "_")
	s = strings.Trim(s, "._")
	if s == id && s != "" {
		return s
	}
	sum := sha256.Sum256([]byte(id))
	if s == "" {
		s = "license"
	}
	return s + "-" + hex.EncodeToString(sum[:4])
}
