package helper

import (
	_type "idea-inbox/internal/common/type"
	"net/http"
)

func ParseResponse(r *_type.Response) *_type.Response {
	if r.Code < 200 || r.Code >= 599 {
		r.Code = http.StatusInternalServerError
	}
	if r.Message == "" {
		generateMessage(r)
	}
	return r
}

func generateMessage(r *_type.Response) {
	switch r.Code {
	case http.StatusOK:
		r.Message = "Success"
	case http.StatusNoContent:
		r.Message = ""
	case http.StatusBadRequest:
		r.Message = "Bad Request"
	case http.StatusNotFound:
		r.Message = "Not Found"
	case http.StatusMethodNotAllowed:
		r.Message = "Method not allowed"
	case http.StatusRequestEntityTooLarge:
		r.Message = "Request body too large"
	case http.StatusInternalServerError:
		r.Message = "Internal Server Error"
	case http.StatusServiceUnavailable:
		r.Message = "Service Unavailable"
	default:
		r.Message = http.StatusText(r.Code)
	}
}
