package multipart

import "errors"

var (
	// ErrNotMultipart means the request Content-Type is not multipart/form-data.
	ErrNotMultipart = errors.New("content type must be multipart/form-data")
	// ErrMissingBoundary means the Content-Type carries no usable boundary parameter.
	ErrMissingBoundary = errors.New("boundary not found")
	// ErrMalformedMultipart means the delimiter occurs fewer than two times in the body.
	ErrMalformedMultipart = errors.New("no multipart parts found")
	// ErrNoParts means delimiters were found but no part could be classified.
	ErrNoParts = errors.New("no decodable multipart parts")
)

// IsMalformedRequest reports whether err is a client-side request problem.
func IsMalformedRequest(err error) bool {
	return errors.Is(err, ErrNotMultipart) ||
		errors.Is(err, ErrMissingBoundary) ||
		errors.Is(err, ErrMalformedMultipart) ||
		errors.Is(err, ErrNoParts)
}

const (
	headerContentDisposition = "Content-Disposition"
	headerContentType        = "Content-Type"
	paramName                = "name"
	paramFilename            = "filename"
	paramBoundary            = "boundary"
	mediaTypeFormData        = "multipart/form-data"
)

var (
	crlf            = []byte("\r\n")
	headerSeparator = []byte("\r\n\r\n")
)

// rawPart is one section between two delimiters, split into its header
// block and its body.
type rawPart struct {
	index  int
	header string
	body   []byte
}
