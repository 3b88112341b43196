package middleware

import (
	"errors"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/multipart"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FieldOpts bounds how many attachments a form field may carry. Max <= 0
// means no upper bound.
type FieldOpts struct {
	Name string
	Max  int
	Min  int
}

// MultipartFormMiddleware buffers the whole body (at most maxBodyBytes),
// decodes it and stores the *types.Submission under "submission".
func MultipartFormMiddleware(maxBodyBytes int64, fields []FieldOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))

		boundary, err := multipart.Boundary(c.GetHeader("Content-Type"))
		if err != nil {
			send(decodeFailure(err))
			return
		}

		reader := io.Reader(c.Request.Body)
		if maxBodyBytes > 0 {
			reader = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				send(helper.ParseResponse(&_type.Response{
					Code:  http.StatusRequestEntityTooLarge,
					Error: err,
				}))
				return
			}
			send(helper.ParseResponse(&_type.Response{
				Code:    http.StatusBadRequest,
				Message: "Failed reading request body",
				Error:   err,
			}))
			return
		}

		submission, err := multipart.Decode(body, boundary)
		if err != nil {
			send(decodeFailure(err))
			return
		}

		for _, field := range fields {
			count := submission.AttachmentCount(field.Name)
			if count < field.Min {
				send(helper.ParseResponse(&_type.Response{
					Code:    http.StatusBadRequest,
					Message: "Minimum " + field.Name + " is " + strconv.Itoa(field.Min),
				}))
				return
			}
			if field.Max > 0 && count > field.Max {
				send(helper.ParseResponse(&_type.Response{
					Code:    http.StatusBadRequest,
					Message: "Maximum " + field.Name + " is " + strconv.Itoa(field.Max),
				}))
				return
			}
		}

		c.Set("submission", submission)
		c.Next()
	}
}

// decodeFailure answers 400 for request problems and 500 for anything else.
func decodeFailure(err error) *_type.Response {
	if !multipart.IsMalformedRequest(err) {
		return helper.ParseResponse(&_type.Response{Code: http.StatusInternalServerError, Error: err})
	}

	message := "No multipart parts found"
	switch {
	case errors.Is(err, multipart.ErrNotMultipart):
		message = "Content-Type must be multipart/form-data"
	case errors.Is(err, multipart.ErrMissingBoundary):
		message = "Boundary not found"
	}
	return helper.ParseResponse(&_type.Response{Code: http.StatusBadRequest, Message: message, Error: err})
}
