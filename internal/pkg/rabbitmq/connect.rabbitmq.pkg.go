package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"idea-inbox/internal/pkg/logger"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var ErrNotConnected = errors.New("rabbitmq connection is not available")

type Config struct {
	URL           string
	RetryInterval time.Duration
}

// QueueConfig mirrors the arguments of QueueDeclare.
type QueueConfig struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

// DefaultQueueConfig is a durable, shared queue.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{Durable: true}
}

// ConnectionManager owns one AMQP connection and redials it in the
// background whenever the broker closes it.
type ConnectionManager struct {
	mu            sync.Mutex
	conn          *amqp.Connection
	url           string
	retryInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewConnectionManager(ctx context.Context, config *Config) (*ConnectionManager, error) {
	ctx, cancel := context.WithCancel(ctx)

	retry := config.RetryInterval
	if retry <= 0 {
		retry = 2 * time.Second
	}
	cm := &ConnectionManager{
		url:           config.URL,
		retryInterval: retry,
		ctx:           ctx,
		cancel:        cancel,
	}

	conn, err := cm.dial()
	if err != nil {
		cancel()
		return nil, err
	}
	go cm.watch(conn)

	return cm, nil
}

func (cm *ConnectionManager) dial() (*amqp.Connection, error) {
	if err := cm.ctx.Err(); err != nil {
		return nil, fmt.Errorf("connection manager stopped: %w", err)
	}

	conn, err := amqp.Dial(cm.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	cm.mu.Lock()
	cm.conn = conn
	cm.mu.Unlock()
	return conn, nil
}

// watch blocks until conn closes and then redials until it succeeds or the
// manager is closed.
func (cm *ConnectionManager) watch(conn *amqp.Connection) {
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-cm.ctx.Done():
		return
	case amqpErr, ok := <-closed:
		if !ok || amqpErr == nil {
			// graceful close
			return
		}
		logger.Warning.WithFields(logrus.Fields{"reason": amqpErr.Reason, "code": amqpErr.Code}).
			Println("rabbitmq connection lost, reconnecting")
	}

	cm.mu.Lock()
	cm.conn = nil
	cm.mu.Unlock()

	ticker := time.NewTicker(cm.retryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-cm.ctx.Done():
			return
		case <-ticker.C:
			next, err := cm.dial()
			if err != nil {
				logger.Warning.WithError(err).Printf("reconnect failed, retrying in %v", cm.retryInterval)
				continue
			}
			logger.Info.Println("rabbitmq reconnected")
			go cm.watch(next)
			return
		}
	}
}

// Connection returns the live connection or ErrNotConnected.
func (cm *ConnectionManager) Connection() (*amqp.Connection, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ctx.Err() != nil || cm.conn == nil || cm.conn.IsClosed() {
		return nil, ErrNotConnected
	}
	return cm.conn, nil
}

func (cm *ConnectionManager) IsClosed() bool {
	_, err := cm.Connection()
	return err != nil
}

func (cm *ConnectionManager) Close() error {
	cm.cancel()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.conn == nil {
		return nil
	}
	err := cm.conn.Close()
	cm.conn = nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}
