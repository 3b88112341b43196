package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"idea-inbox/internal/pkg/logger"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// MessageHandler processes one delivery. A nil error acks the delivery;
// an error rejects it, requeueing it once before it is dropped.
type MessageHandler func(ctx context.Context, msg *amqp.Delivery) error

type SubscribeOptions struct {
	QueueOpts     *QueueConfig
	QueueName     string
	ConsumerName  string
	WorkerCount   int
	PrefetchCount int
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:     queueName,
		ConsumerName:  queueName,
		WorkerCount:   4,
		PrefetchCount: 16,
	}
}

// Subscriber consumes one queue and runs the handler for each delivery on
// an ants worker pool.
type Subscriber struct {
	channelManager *ChannelManager
	handler        MessageHandler
	opts           *SubscribeOptions
	pool           *ants.Pool

	ctx       context.Context
	cancel    context.CancelFunc
	running   atomic.Bool
	loop      sync.WaitGroup
	inflight  sync.WaitGroup
	processed atomic.Int64
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	if handler == nil {
		return nil, errors.New("message handler is required")
	}
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 1
	}

	pool, err := ants.NewPool(opts.WorkerCount, ants.WithOptions(ants.Options{
		ExpiryDuration: time.Minute,
		PanicHandler: func(p interface{}) {
			logger.Error.Printf("subscriber worker panic: %v", p)
		},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Subscriber{
		channelManager: NewChannelManager(connManager, false),
		handler:        handler,
		opts:           opts,
		pool:           pool,
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

func (s *Subscriber) Start() error {
	if s.running.Swap(true) {
		return errors.New("subscriber is already running")
	}

	s.loop.Add(1)
	go s.run()
	return nil
}

func (s *Subscriber) run() {
	defer s.loop.Done()

	backoff := &exponentialBackoff{min: 100 * time.Millisecond, max: 30 * time.Second, factor: 2}
	for s.ctx.Err() == nil {
		err := s.consume()
		if err == nil || s.ctx.Err() != nil {
			return
		}
		logger.Error.WithError(err).WithField("queue", s.opts.QueueName).Println("consume loop failed")
		backoff.sleep(s.ctx)
	}
}

func (s *Subscriber) consume() error {
	ch, err := s.channelManager.DeclareQueue(s.opts.QueueName, s.opts.QueueOpts)
	if err != nil {
		return err
	}
	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	consumer := fmt.Sprintf("%s-%d", s.opts.ConsumerName, time.Now().Unix())
	deliveries, err := ch.ConsumeWithContext(s.ctx, s.opts.QueueName, consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", s.opts.QueueName, err)
	}

	for {
		select {
		case <-s.ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			s.dispatch(d)
		}
	}
}

func (s *Subscriber) dispatch(d amqp.Delivery) {
	s.inflight.Add(1)
	err := s.pool.Submit(func() {
		defer s.inflight.Done()
		s.process(&d)
	})
	if err != nil {
		s.inflight.Done()
		logger.Error.WithError(err).Println("worker pool rejected delivery")
		_ = d.Reject(true)
	}
}

func (s *Subscriber) process(d *amqp.Delivery) {
	fields := logrus.Fields{"message_id": d.MessageId, "queue": s.opts.QueueName}

	if err := s.handler(s.ctx, d); err != nil {
		requeue := !d.Redelivered
		logger.Error.WithFields(fields).WithField("requeue", requeue).WithField("error", err.Error()).
			Println("message handler failed")
		if rejectErr := d.Reject(requeue); rejectErr != nil {
			logger.Error.WithFields(fields).WithError(rejectErr).Println("failed to reject message")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		logger.Error.WithFields(fields).WithError(err).Println("failed to acknowledge message")
		return
	}
	s.processed.Add(1)
}

// Stop cancels consumption and waits up to timeout for running handlers.
func (s *Subscriber) Stop(timeout time.Duration) error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()
	s.loop.Wait()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-time.After(timeout):
		err = errors.New("timeout waiting for message handlers to finish")
	}

	if closeErr := s.channelManager.Close(); closeErr != nil {
		logger.Error.WithError(closeErr).Println("failed to close subscriber channel")
	}
	s.pool.Release()
	return err
}

// Processed is the number of acknowledged deliveries.
func (s *Subscriber) Processed() int64 {
	return s.processed.Load()
}

func (s *Subscriber) IsRunning() bool {
	return s.running.Load()
}

type exponentialBackoff struct {
	min    time.Duration
	max    time.Duration
	factor float64
	curr   time.Duration
}

func (b *exponentialBackoff) next() time.Duration {
	if b.curr == 0 {
		b.curr = b.min
	} else {
		b.curr = time.Duration(float64(b.curr) * b.factor)
		if b.curr > b.max {
			b.curr = b.max
		}
	}
	return b.curr
}

func (b *exponentialBackoff) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(b.next()):
	}
}
