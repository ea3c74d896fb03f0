package integrations

import (
	"errors"
	"net/url"
	"strings"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"ssh://git@github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// NormalizeSCM turns a Maven SCM connection such as
// "scm:git:git@github.com:org/repo.git" into a browsable URL.
func NormalizeSCM(conn string) string {
	s := strings.TrimSpace(conn)
	if rest, ok := strings.CutPrefix(s, "scm:"); ok {
		// scm:<provider>:<url>, where some providers use | as separator.
		if i := strings.IndexAny(rest, ":|"); i >= 0 {
			rest = rest[i+1:]
		}
		s = rest
	}
	return NormalizeRepoURL(s)
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
