package enum

type HTTPContentTypeEnum string

const (
	ApplicationJSON HTTPContentTypeEnum = "application/json"
	MultipartForm   HTTPContentTypeEnum = "multipart/form-data"
	TextPlain       HTTPContentTypeEnum = "text/plain"
	OctetStream     HTTPContentTypeEnum = "application/octet-stream"
)

func (e HTTPContentTypeEnum) ToString() string {
	switch e {
	case ApplicationJSON, MultipartForm, TextPlain, OctetStream:
		return string(e)
	default:
		return ""
	}
}

// WithCharset appends a utf-8 charset parameter.
func (e HTTPContentTypeEnum) WithCharset() string {
	return e.ToString() + "; charset=utf-8"
}
