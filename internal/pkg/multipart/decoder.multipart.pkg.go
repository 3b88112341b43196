package multipart

import (
	"bytes"
	"fmt"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// Decode splits a fully buffered multipart/form-data body into text fields
// and file attachments.
//
// Parts that have no blank line between headers and body, or that carry
// neither a name nor a filename, are skipped and the rest of the body is
// still decoded. Decode fails only when the delimiter occurs fewer than two
// times or when nothing at all could be decoded.
func Decode(body []byte, boundary string) (*_type.Submission, error) {
	if boundary == "" {
		return nil, ErrMissingBoundary
	}

	delimiter := []byte("--" + boundary)
	offsets := indexAll(body, delimiter)
	if len(offsets) < 2 {
		return nil, fmt.Errorf("%w: delimiter found %d time(s)", ErrMalformedMultipart, len(offsets))
	}

	submission := _type.NewSubmission()
	for i := 0; i < len(offsets)-1; i++ {
		start := offsets[i] + len(delimiter)
		if start+2 < len(body) && bytes.HasPrefix(body[start:], crlf) {
			start += 2
		}
		// the CRLF before the next delimiter belongs to it
		end := offsets[i+1] - 2
		if end <= start {
			continue
		}

		part, ok := splitPart(i, body[start:end])
		if !ok {
			logger.Debug.WithFields(logrus.Fields{"part": i}).Println("skipping multipart part without header separator")
			continue
		}
		classify(submission, part)
	}

	if submission.IsEmpty() {
		return nil, ErrNoParts
	}
	return submission, nil
}

// indexAll returns every offset at which sep starts in data, overlapping
// matches included.
func indexAll(data, sep []byte) []int {
	var offsets []int
	for i := 0; i+len(sep) <= len(data); {
		j := bytes.Index(data[i:], sep)
		if j < 0 {
			break
		}
		offsets = append(offsets, i+j)
		i += j + 1
	}
	return offsets
}

func splitPart(index int, raw []byte) (rawPart, bool) {
	sep := bytes.Index(raw, headerSeparator)
	if sep < 0 {
		return rawPart{}, false
	}
	return rawPart{
		index:  index,
		header: decodeHeader(raw[:sep]),
		body:   raw[sep+len(headerSeparator):],
	}, true
}

func classify(submission *_type.Submission, part rawPart) {
	disposition, _ := headerValue(part.header, headerContentDisposition)
	name, hasName := param(disposition, paramName)
	filename, _ := param(disposition, paramFilename)

	switch {
	case filename != "":
		contentType, _ := headerValue(part.header, headerContentType)
		if contentType == "" {
			contentType = mimetype.Detect(part.body).String()
		}
		submission.Attachments = append(submission.Attachments, _type.Attachment{
			FieldName:   name,
			Filename:    helper.SafeFilename(filename),
			ContentType: contentType,
			Content:     part.body,
		})
	case hasName:
		value := strings.ToValidUTF8(string(part.body), "\uFFFD")
		submission.Fields.Set(name, strings.TrimSpace(value))
	default:
		logger.Debug.WithFields(logrus.Fields{"part": part.index}).Println("dropping multipart part without name or filename")
	}
}
