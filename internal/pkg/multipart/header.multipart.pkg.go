package multipart

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// decodeHeader reads a header block as ISO-8859-1, one byte per character.
func decodeHeader(raw []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// headerValue returns the value of the first header line whose name
// matches key, ignoring case.
func headerValue(header, key string) (string, bool) {
	prefix := key + ":"
	for _, line := range strings.Split(header, "\r\n") {
		if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
			continue
		}
		return strings.TrimSpace(line[len(prefix):]), true
	}
	return "", false
}

// param returns the named parameter from a `value; k=v; k="v"` header
// value. Keys match case-insensitively and surrounding quotes are removed.
func param(value, key string) (string, bool) {
	for _, p := range splitParams(value) {
		eq := strings.IndexByte(p, '=')
		if eq < 0 {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(p[:eq]), key) {
			continue
		}
		return unquote(strings.TrimSpace(p[eq+1:])), true
	}
	return "", false
}

// splitParams splits on semicolons that are not inside double quotes.
func splitParams(value string) []string {
	var parts []string
	inQuotes := false
	start := 0
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				parts = append(parts, strings.TrimSpace(value[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(value[start:]))
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// Boundary extracts the boundary token from a request Content-Type header.
func Boundary(contentType string) (string, error) {
	if !strings.Contains(strings.ToLower(contentType), mediaTypeFormData) {
		return "", ErrNotMultipart
	}
	boundary, ok := param(contentType, paramBoundary)
	if !ok || boundary == "" {
		return "", ErrMissingBoundary
	}
	return boundary, nil
}
