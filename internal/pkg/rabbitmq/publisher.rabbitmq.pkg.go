package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"idea-inbox/internal/pkg/logger"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var ErrNotConfirmed = errors.New("broker did not confirm the message")

type PublishOptions struct {
	QueueOpts    *QueueConfig
	QueueName    string
	Exchange     string
	Mandatory    bool
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultPublishOptions routes straight to queueName via the default exchange.
func DefaultPublishOptions(queueName string) *PublishOptions {
	return &PublishOptions{
		QueueName:    queueName,
		MaxRetries:   3,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// Publisher sends messages on a confirm-mode channel and waits for the
// broker acknowledgement of each one.
type Publisher struct {
	channelManager *ChannelManager
}

func NewPublisher(connManager *ConnectionManager) *Publisher {
	return &Publisher{channelManager: NewChannelManager(connManager, true)}
}

// Publish retries with linear backoff until the broker confirms msg, the
// retries run out or ctx ends.
func (p *Publisher) Publish(ctx context.Context, msg *Message, opts *PublishOptions) error {
	if opts == nil {
		return errors.New("publish options are required")
	}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("publish canceled: %w", ctx.Err())
			case <-time.After(opts.RetryBackoff * time.Duration(attempt)):
			}
		}

		if lastErr = p.publishOnce(ctx, msg, opts); lastErr == nil {
			return nil
		}
		logger.Warning.WithFields(logrus.Fields{
			"message_id": msg.ID,
			"queue":      opts.QueueName,
			"attempt":    attempt + 1,
		}).WithField("error", lastErr.Error()).Println("publish attempt failed")
	}

	return fmt.Errorf("failed to publish message after %d attempts: %w", opts.MaxRetries+1, lastErr)
}

func (p *Publisher) publishOnce(ctx context.Context, msg *Message, opts *PublishOptions) error {
	var (
		ch  *amqp.Channel
		err error
	)
	if opts.QueueName != "" {
		ch, err = p.channelManager.DeclareQueue(opts.QueueName, opts.QueueOpts)
	} else {
		ch, err = p.channelManager.Channel()
	}
	if err != nil {
		return err
	}

	confirmation, err := ch.PublishWithDeferredConfirmWithContext(
		ctx,
		opts.Exchange,
		opts.QueueName,
		opts.Mandatory,
		false,
		msg.Publishing(),
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	if confirmation == nil {
		return nil
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("waiting for confirm: %w", err)
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.channelManager.Close()
}
