package rabbitmq

import (
	"errors"
	"fmt"
	"idea-inbox/internal/pkg/logger"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errChannelManagerClosed = errors.New("channel manager is closed")

// ChannelManager lazily opens one channel on the shared connection and
// reopens it after the broker closes it. Queues declared through it are
// remembered per channel so they are declared only once.
type ChannelManager struct {
	connManager   *ConnectionManager
	confirm       bool
	maxRetries    int
	retryInterval time.Duration

	mu       sync.Mutex
	channel  *amqp.Channel
	declared map[string]struct{}
	closed   bool
}

func NewChannelManager(connManager *ConnectionManager, confirm bool) *ChannelManager {
	return &ChannelManager{
		connManager:   connManager,
		confirm:       confirm,
		maxRetries:    5,
		retryInterval: time.Second,
		declared:      make(map[string]struct{}),
	}
}

// Channel returns the open channel, opening a new one if needed.
func (cm *ChannelManager) Channel() (*amqp.Channel, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return nil, errChannelManagerClosed
	}
	if cm.channel != nil && !cm.channel.IsClosed() {
		return cm.channel, nil
	}

	var err error
	for attempt := 1; attempt <= cm.maxRetries; attempt++ {
		if cm.channel, err = cm.open(); err == nil {
			return cm.channel, nil
		}
		logger.Warning.WithError(err).Printf("opening channel failed (attempt %d/%d)", attempt, cm.maxRetries)
		if attempt < cm.maxRetries {
			time.Sleep(cm.retryInterval)
		}
	}
	return nil, fmt.Errorf("failed to open channel after %d attempts: %w", cm.maxRetries, err)
}

func (cm *ChannelManager) open() (*amqp.Channel, error) {
	conn, err := cm.connManager.Connection()
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if cm.confirm {
		if err := ch.Confirm(false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
		}
	}

	cm.declared = make(map[string]struct{})
	return ch, nil
}

// DeclareQueue declares name on the current channel unless it already was.
func (cm *ChannelManager) DeclareQueue(name string, config *QueueConfig) (*amqp.Channel, error) {
	ch, err := cm.Channel()
	if err != nil {
		return nil, err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	if _, ok := cm.declared[name]; ok {
		return ch, nil
	}

	if config == nil {
		config = DefaultQueueConfig()
	}
	if _, err := ch.QueueDeclare(name, config.Durable, config.AutoDelete, config.Exclusive, config.NoWait, config.Args); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	cm.declared[name] = struct{}{}
	return ch, nil
}

func (cm *ChannelManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return nil
	}
	cm.closed = true

	if cm.channel == nil {
		return nil
	}
	err := cm.channel.Close()
	cm.channel = nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return nil
}
