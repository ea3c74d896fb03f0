package errors

import (
	"strings"
	"unicode"
)

// ValidateSegment validates one coordinate segment (group, name, version,
// classifier or type) before it is used to build a repository path.
// Descriptors are untrusted input, so segments may not escape the
// repository layout.
//
// Validation rules:
//   - Segment cannot be empty
//   - Maximum length of 256 characters
//   - No null bytes or control characters
//   - No path separators or traversal sequences (..)
func ValidateSegment(s string) error {
	if s == "" {
		return New(ErrCodeInvalidCoordinate, "coordinate segment cannot be empty")
	}

	if len(s) > 256 {
		return New(ErrCodeInvalidCoordinate, "coordinate segment too long (max 256 characters)")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "coordinate segment contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(s, pattern) {
			return New(ErrCodeInvalidCoordinate, "coordinate segment contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a relative path inside an output tree.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with a separator)")
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
