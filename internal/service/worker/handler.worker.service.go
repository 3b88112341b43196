package worker

import (
	"context"
	"errors"
	"fmt"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"idea-inbox/internal/service/notify/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var ErrInvalidEvent = errors.New("invalid submission event")

// DecodeEvent parses a submission.stored message body.
func DecodeEvent(body []byte) (*model.Event, error) {
	var event model.Event
	if err := helper.ByteToStruct(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if event.ID == "" || event.Folder == "" {
		return nil, fmt.Errorf("%w: id and folder are required", ErrInvalidEvent)
	}
	return &event, nil
}

func handleSubmissionStored(_ context.Context, msg *amqp.Delivery) error {
	if msg.Type != "" && msg.Type != model.EventSubmissionStored {
		return fmt.Errorf("%w: unexpected type %q", ErrInvalidEvent, msg.Type)
	}

	event, err := DecodeEvent(msg.Body)
	if err != nil {
		return err
	}

	logger.Info.WithFields(logrus.Fields{
		"event_id":  event.ID,
		"folder":    event.Folder,
		"path":      event.Path,
		"submitted": event.Timestamp,
		"submitter": event.Fields["name"],
		"idea":      event.Fields["ideaName"],
		"files":     len(event.Files),
	}).Println("new idea received")
	return nil
}
