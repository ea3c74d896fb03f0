package coordinate

import (
	"errors"
	"path"
	"strings"
)

// ErrNoVersion is returned by [Infer] when the file name carries no
// digit-led version. Such artifacts cannot be looked up in a package index.
var ErrNoVersion = errors.New("cannot resolve without a version")

// Infer derives a coordinate from a bare file name (no directory, no
// extension). The version starts after the first "-" that is immediately
// followed by a digit. A trailing "-sources" or "-javadoc" becomes the
// classifier; otherwise the segment after the last "-" of the version does.
//
// When no version can be found the returned coordinate still carries the
// whole file name as its name, and the error is [ErrNoVersion].
func Infer(fileName string) (Coordinate, error) {
	c := Coordinate{Name: fileName, Type: TypeJar}

	start := versionStart(fileName)
	if start < 0 {
		return c, ErrNoVersion
	}
	c.Name = fileName[:start-1]
	version := fileName[start:]

	switch {
	case strings.HasSuffix(version, "-"+ClassifierSources):
		c.Classifier = ClassifierSources
		version = strings.TrimSuffix(version, "-"+ClassifierSources)
	case strings.HasSuffix(version, "-"+ClassifierJavadoc):
		c.Classifier = ClassifierJavadoc
		version = strings.TrimSuffix(version, "-"+ClassifierJavadoc)
	default:
		if i := strings.LastIndexByte(version, '-'); i > 0 {
			c.Classifier = version[i+1:]
			version = version[:i]
		}
	}
	c.Version = version
	return c, nil
}

// versionStart returns the index of the first digit that directly follows
// a dash, or -1. A dash at position zero ends the search.
func versionStart(s string) int {
	dash := strings.IndexByte(s, '-')
	for dash > 0 && dash+1 < len(s) {
		if isDigit(s[dash+1]) {
			return dash + 1
		}
		next := strings.IndexByte(s[dash+1:], '-')
		if next < 0 {
			return -1
		}
		dash += next + 1
	}
	return -1
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ProjectKey returns the grouping key for an artifact name.
//
// Names in reverse-domain form ("tld.host.project.module") are keyed by
// their first three dot segments. Everything else, including reverse-domain
// names without a fourth segment, is keyed by the text before the first
// dash, or the whole name when there is none.
//
//	ProjectKey("org.apache.commons.lang3") // "org.apache.commons"
//	ProjectKey("org.apache.commons-io")    // "org.apache.commons"
//	ProjectKey("commons-io")               // "commons"
func ProjectKey(name string) string {
	if dot := strings.IndexByte(name, '.'); dot > 0 {
		if host := strings.IndexByte(name[dot+1:], '.'); host >= 0 {
			host += dot + 1
			if proj := strings.IndexByte(name[host+1:], '.'); proj >= 0 {
				return name[:host+1+proj]
			}
		}
	}
	return dashProject(name)
}

func dashProject(name string) string {
	if dash := strings.IndexByte(name, '-'); dash > 0 {
		return name[:dash]
	}
	return name
}

// BaseName strips the directory (including nested "outer.jar!/" prefixes)
// and the extension from an archive path.
//
//	BaseName("lib/outer.jar!/WEB-INF/lib/commons-io-2.4.jar") // "commons-io-2.4"
func BaseName(p string) string {
	if i := strings.LastIndex(p, "!/"); i >= 0 {
		p = p[i+2:]
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Base(p)
	if ext := path.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	return p
}
