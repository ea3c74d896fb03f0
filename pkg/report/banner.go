package report

import (
	"strings"
	"unicode/utf8"
)

// Width is the column width of banners.
const Width = 78

// Title returns the opening banner "---[ title ]" padded with dashes.
func Title(title string) string {
	s := "---[ " + title + " ]"
	return s + dashes(Width-utf8.RuneCountInString(s))
}

// EndTitle returns the closing banner, dashes followed by "[ title ]---".
func EndTitle(title string) string {
	return dashes(Width-utf8.RuneCountInString(title)-2-5) + "[ " + title + " ]---"
}

func dashes(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("-", n)
}
