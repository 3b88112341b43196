package submission

import (
	"encoding/hex"
	"fmt"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// ResolveFilenames returns the on-disk name of every attachment, in order.
// The first attachment keeps its sanitized name; later ones whose name is
// already taken (or is data.json or data.txt) get `_<hash>` inserted before
// the extension, hash being the first 8 hex digits of the BLAKE2b-256 of
// their content, and then `_2`, `_3`, ... if that is still not unique.
func ResolveFilenames(attachments []_type.Attachment) []string {
	taken := map[string]struct{}{DataJSON: {}, DataTXT: {}}
	names := make([]string, len(attachments))

	for i := range attachments {
		name := helper.SafeFilename(attachments[i].Filename)
		if _, dup := taken[name]; dup {
			name = disambiguate(name, attachments[i].Content, taken)
		}
		taken[name] = struct{}{}
		names[i] = name
	}
	return names
}

func disambiguate(name string, content []byte, taken map[string]struct{}) string {
	sum := blake2b.Sum256(content)
	tag := "_" + hex.EncodeToString(sum[:4])

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// dotfile such as ".env"
		stem, ext = name, ""
	}

	candidate := withSuffix(stem, tag, ext)
	for n := 2; ; n++ {
		if _, dup := taken[candidate]; !dup {
			return candidate
		}
		candidate = withSuffix(stem, fmt.Sprintf("%s_%d", tag, n), ext)
	}
}

// withSuffix joins stem, suffix and ext, shortening stem so the result
// stays within MaxNameLength characters.
func withSuffix(stem, suffix, ext string) string {
	room := helper.MaxNameLength - utf8.RuneCountInString(suffix) - utf8.RuneCountInString(ext)
	if room < 1 {
		stem, ext = stem+ext, ""
		room = helper.MaxNameLength - utf8.RuneCountInString(suffix)
	}
	return helper.TruncateName(stem, room) + suffix + ext
}
