package helper

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest sanitized path component, counted in characters.
const MaxNameLength = 120

var (
	forbiddenRun  = regexp.MustCompile(`[\\/:*?"<>|\r\n\t]+`)
	whitespaceRun = regexp.MustCompile(`[\s\v]+`)
)

// Sanitize turns untrusted text into a single safe path component.
// Runs of forbidden characters and runs of whitespace each become one
// underscore, and the result is cut to MaxNameLength characters.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(in string) string {
	s := strings.ToValidUTF8(in, "_")
	s = forbiddenRun.ReplaceAllString(s, "_")
	s = whitespaceRun.ReplaceAllString(s, "_")
	return truncate(s, MaxNameLength)
}

// SafeFilename sanitizes an attachment name and refuses names that would
// resolve to the folder itself or its parent.
func SafeFilename(in string) string {
	s := Sanitize(in)
	switch s {
	case "", ".", "..":
		return "file"
	}
	return s
}

// Underscore trims text and joins internal whitespace runs with underscores.
func Underscore(in string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(in), "_")
}

// TruncateName cuts s to at most max characters without splitting a rune.
func TruncateName(s string, max int) string {
	return truncate(s, max)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
