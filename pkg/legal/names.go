package legal

import "strings"

// Kind names a legal file category.
type Kind string

const (
	KindNotice  Kind = "notice"
	KindLicense Kind = "license"
)

// Recognition is the outcome of matching an archive entry name against
// one [Kind].
type Recognition int

const (
	// NotRecognized means the name does not mention the kind at all.
	NotRecognized Recognition = iota
	// Recognized means the entry is a notice or license file.
	Recognized
	// Potential means the name mentions the kind but fails the naming
	// rule. Such entries are reported for manual inspection only.
	Potential
)

// Recognize classifies an archive entry name. A name is recognized when
// it ends with the upper-case token ("NOTICE", "LICENSE"), or when its
// final path segment, lowercased, starts with the token and is not a
// compiled class. The final segment is split on "\" when the name contains
// one, otherwise on "/".
func Recognize(name string, kind Kind) Recognition {
	token := string(kind)
	if strings.HasSuffix(name, strings.ToUpper(token)) {
		return Recognized
	}
	lower := strings.ToLower(name)
	sep := "/"
	if strings.Contains(lower, "\\") {
		sep = "\\"
	}
	last := lower
	if i := strings.LastIndex(lower, sep); i >= 0 {
		last = lower[i+len(sep):]
	}
	if strings.HasPrefix(last, token) && !strings.HasSuffix(last, ".class") {
		return Recognized
	}
	if strings.Contains(lower, token) {
		return Potential
	}
	return NotRecognized
}

// IsNotice reports whether name is a notice file.
func IsNotice(name string) bool { return Recognize(name, KindNotice) == Recognized }

// IsLicense reports whether name is a license file.
func IsLicense(name string) bool { return Recognize(name, KindLicense) == Recognized }

// PackageName derives the Java package of a compiled class entry, e.g.
// "org/apache/commons/io/IOUtils.class" gives "org.apache.commons.io".
// Classes in the default package and non-class entries report false.
func PackageName(entry string) (string, bool) {
	if !strings.HasSuffix(entry, ".class") {
		return "", false
	}
	class := strings.ReplaceAll(strings.TrimSuffix(entry, ".class"), "/", ".")
	i := strings.LastIndexByte(class, '.')
	if i <= 0 {
		return "", false
	}
	return class[:i], true
}
