package submission

import (
	"errors"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	submissionservice "idea-inbox/internal/service/submission"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service submissionservice.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, opts RouteOptions)
	Submit(c *gin.Context)
	Preflight(c *gin.Context)
}

func NewHandler(service submissionservice.IService) IHandler {
	return &Handler{service: service}
}

// Submit stores the submission decoded by MultipartFormMiddleware.
func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	submission := c.MustGet("submission").(*_type.Submission)

	record, err := h.service.Persist(c.Request.Context(), submission)
	if err != nil {
		fields := logrus.Fields{"request_id": c.GetString("requestId")}
		logger.Error.WithFields(fields).WithField("error", err.Error()).Println("submission not stored")

		message := "Failed to store idea"
		if !errors.Is(err, submissionservice.ErrIOFailure) {
			message = ""
		}
		send(helper.ParseResponse(&_type.Response{
			Code:    http.StatusInternalServerError,
			Message: message,
			Error:   err,
		}))
		return
	}

	send(&_type.Response{
		Code:    http.StatusOK,
		Message: "Idea stored: " + record.Folder,
	})
}

// Preflight answers CORS pre-flight requests; the headers come from the
// CORS middleware.
func (h *Handler) Preflight(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	send(helper.ParseResponse(&_type.Response{Code: http.StatusNoContent}))
}
