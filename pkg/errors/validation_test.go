package errors

import (
	"strings"
	"testing"
)

func TestValidateSegment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid group", "org.apache.commons", false},
		{"valid name", "commons-io", false},
		{"valid version", "2.4", false},
		{"valid qualifier version", "9.4.51.v20230217", false},
		{"valid classifier", "sources", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"path traversal", "..", true},
		{"embedded traversal", "a..b", true},
		{"slash", "org/apache", true},
		{"backslash", "org\\apache", true},
		{"colon", "org:apache", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSegment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSegment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinate) {
				t.Errorf("ValidateSegment(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidCoordinate)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "LICENSE.txt", false},
		{"valid nested", "apache-2.0/variants/default.txt", false},
		{"valid dotted name", "a..b/LICENSE.txt", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"absolute windows", "\\share\\x", true},
		{"traversal", "../LICENSE.txt", true},
		{"nested traversal", "a/../../b", true},
		{"control char", "a\x01b", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://www.apache.org/licenses/LICENSE-2.0.txt", false},
		{"HTTP://opensource.org/licenses/MIT", false},
		{"", true},
		{"ftp://example.com/LICENSE", true},
		{"file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
