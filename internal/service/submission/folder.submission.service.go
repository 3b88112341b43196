package submission

import (
	"errors"
	"fmt"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"
)

const (
	folderSuffixLength = 6
	maxFolderRetries   = 5
)

// FolderName derives `<name>_<ideaName>_<yyyyMMdd_HHmmss>` from the
// submitted fields, sanitized to a single path component.
func FolderName(fields *_type.Fields, now time.Time) string {
	name := helper.Underscore(fields.GetOrDefault("name", defaultName))
	idea := helper.Underscore(fields.GetOrDefault("ideaName", defaultIdea))
	return helper.Sanitize(name + "_" + idea + "_" + now.Format(FolderTimestampLayout))
}

// createFolder creates base under the base directory. When that name is
// taken it retries with a random suffix; an existing folder is never reused.
func (s *Service) createFolder(base string) (string, string, error) {
	if err := os.MkdirAll(s.baseDir, folderPerm); err != nil {
		return "", "", fmt.Errorf("%w: create base directory: %w", ErrIOFailure, err)
	}

	name := base
	for attempt := 0; ; attempt++ {
		path := filepath.Join(s.baseDir, name)
		err := os.Mkdir(path, folderPerm)
		if err == nil {
			return name, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", fmt.Errorf("%w: create folder %s: %w", ErrIOFailure, name, err)
		}
		if attempt == maxFolderRetries {
			return "", "", fmt.Errorf("%w: folder %s still taken after %d retries", ErrIOFailure, base, maxFolderRetries)
		}

		suffix, err := s.suffix()
		if err != nil {
			return "", "", fmt.Errorf("%w: folder suffix: %w", ErrIOFailure, err)
		}
		suffix = helper.Sanitize(suffix)
		name = helper.TruncateName(base, helper.MaxNameLength-utf8.RuneCountInString(suffix)-1) + "_" + suffix
	}
}
