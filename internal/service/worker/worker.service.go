package worker

import (
	"context"
	"idea-inbox/internal/pkg/logger"
	"idea-inbox/internal/pkg/rabbitmq"
	"time"
)

// Service consumes submission.stored events from RabbitMQ.
type Service struct {
	subscriber *rabbitmq.Subscriber
}

type IService interface {
	Start() error
	Stop(timeout time.Duration) error
}

func NewService(ctx context.Context, manager *rabbitmq.ConnectionManager, queue string, workers int) (IService, error) {
	opts := rabbitmq.DefaultSubscribeOptions(queue)
	opts.WorkerCount = workers

	subscriber, err := rabbitmq.NewSubscriber(ctx, manager, handleSubmissionStored, opts)
	if err != nil {
		return nil, err
	}
	return &Service{subscriber: subscriber}, nil
}

func (s *Service) Start() error {
	if err := s.subscriber.Start(); err != nil {
		logger.Error.WithError(err).Println("failed to start subscriber")
		return err
	}
	return nil
}

func (s *Service) Stop(timeout time.Duration) error {
	err := s.subscriber.Stop(timeout)
	logger.Info.WithField("processed", s.subscriber.Processed()).Println("subscriber stopped")
	return err
}
