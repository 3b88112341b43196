package model

import (
	_type "idea-inbox/internal/common/type"
	"time"
)

// StoredFile is an attachment as written to disk. Filename is the final
// on-disk name after collision handling.
type StoredFile struct {
	Filename    string `json:"filename"`
	Field       string `json:"field"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// Record describes one persisted submission folder.
type Record struct {
	Folder    string
	Path      string
	Timestamp time.Time
	Fields    *_type.Fields
	Files     []StoredFile
}
