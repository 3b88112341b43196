package submission

import (
	"bytes"
	"idea-inbox/internal/pkg/jsondoc"
	"idea-inbox/internal/service/submission/model"
)

// EncodeDocument renders data.json: the timestamp, every field in
// submission order, then the attachment list when there is one.
func EncodeDocument(record *model.Record) []byte {
	doc := jsondoc.NewObject()
	doc.SetString("timestamp", record.Timestamp.Format(TimestampLayout))
	record.Fields.Range(func(key, value string) bool {
		doc.SetString(key, value)
		return true
	})

	if len(record.Files) > 0 {
		files := make([]jsondoc.Value, 0, len(record.Files))
		for _, f := range record.Files {
			entry := jsondoc.NewObject().
				SetString("filename", f.Filename).
				SetString("field", f.Field).
				SetString("contentType", f.ContentType)
			files = append(files, jsondoc.ObjectValue(entry))
		}
		doc.Set("files", jsondoc.Array(files...))
	}

	return jsondoc.Marshal(jsondoc.ObjectValue(doc))
}

// EncodeLog renders data.txt.
func EncodeLog(record *model.Record) []byte {
	var buf bytes.Buffer
	buf.WriteString("Submission Date: " + record.Timestamp.Format(TimestampLayout) + "\n\n")
	record.Fields.Range(func(key, value string) bool {
		buf.WriteString(key + ": " + value + "\n")
		return true
	})

	if len(record.Files) > 0 {
		buf.WriteString("\nSubmitted Files:\n")
		for _, f := range record.Files {
			buf.WriteString("- " + f.Filename + " (" + f.ContentType + ")\n")
		}
	}
	return buf.Bytes()
}
