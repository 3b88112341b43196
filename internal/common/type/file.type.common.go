package types

// Attachment is one file part of a submission. Filename is already sanitized.
type Attachment struct {
	FieldName   string `json:"field"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}

func (a *Attachment) Size() int {
	return len(a.Content)
}

// BufferedFile is a file read from the local disk, ready to be sent in a form.
type BufferedFile struct {
	FieldName    string
	OriginalName string
	MimeType     string
	Buffer       []byte
}

// FormField is a single text value sent in a form.
type FormField struct {
	Name  string
	Value string
}

// FormBody is an outgoing multipart form; fields keep their order.
type FormBody struct {
	Fields []FormField
	Files  []BufferedFile
}
