package legal

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
)

// apacheBoilerplate starts the two-line attribution clause that Apache
// projects repeat in every NOTICE file.
const apacheBoilerplate = "This product includes software developed"

// Notice is a normalized notice text. Two notices are equal when their
// normalized text is byte-identical; compare them with [Notice.Hash].
type Notice struct {
	text string
	hash string
}

// NewNotice normalizes raw notice lines. Blank lines and lines starting
// with "/" or "=" are dropped. A line starting with the Apache
// attribution boilerplate is dropped together with the line after it.
func NewNotice(lines []string) *Notice {
	var b strings.Builder
	skip := false
	for _, line := range lines {
		if skip {
			skip = false
			continue
		}
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.TrimSpace(line) == "", strings.HasPrefix(line, "/"), strings.HasPrefix(line, "="):
		case strings.HasPrefix(line, apacheBoilerplate):
			skip = true
		default:
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	text := b.String()
	sum := sha256.Sum256([]byte(text))
	return &Notice{text: text, hash: hex.EncodeToString(sum[:])}
}

// ReadNotice reads r line by line and normalizes the result.
func ReadNotice(r io.Reader) (*Notice, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return NewNotice(lines), nil
}

// Text returns the normalized text, one "\n" after every kept line.
func (n *Notice) Text() string { return n.text }

// Hash identifies the normalized text.
func (n *Notice) Hash() string { return n.hash }

// Empty reports whether normalization dropped every line.
func (n *Notice) Empty() bool { return n.text == "" }

// Equal reports whether both notices carry the same normalized text.
func (n *Notice) Equal(o *Notice) bool {
	return o != nil && n.hash == o.hash
}

// ReadLines splits r into lines without their terminators. Lines of any
// length are accepted.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
