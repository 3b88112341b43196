package notify

import (
	"context"
	"idea-inbox/internal/pkg/rabbitmq"
	"idea-inbox/internal/service/notify/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitNotifier publishes events as persistent JSON messages to a queue.
type RabbitNotifier struct {
	connManager *rabbitmq.ConnectionManager
	publisher   *rabbitmq.Publisher
	opts        *rabbitmq.PublishOptions
}

func NewRabbitNotifier(connManager *rabbitmq.ConnectionManager, queue string) *RabbitNotifier {
	return &RabbitNotifier{
		connManager: connManager,
		publisher:   rabbitmq.NewPublisher(connManager),
		opts:        rabbitmq.DefaultPublishOptions(queue),
	}
}

func (n *RabbitNotifier) Notify(ctx context.Context, event *model.Event) error {
	msg, err := rabbitmq.NewMessage(model.EventSubmissionStored, event, amqp.Table{"folder": event.Folder})
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, msg, n.opts)
}

func (n *RabbitNotifier) Close() error {
	if err := n.publisher.Close(); err != nil {
		return err
	}
	return n.connManager.Close()
}
