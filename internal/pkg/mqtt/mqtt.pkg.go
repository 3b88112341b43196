package mqtt

import (
	"errors"
	"fmt"
	"idea-inbox/internal/pkg/logger"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

var ErrTimeout = errors.New("mqtt operation timed out")

// NewClientOptions maps Config onto paho options with automatic reconnect.
func NewClientOptions(config *Config) *mqtt.ClientOptions {
	connectTimeout := config.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.URL)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	opts.OnConnect = func(mqtt.Client) {
		logger.Info.WithFields(logrus.Fields{"broker": config.URL}).Println("connected to mqtt broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warning.WithError(err).Println("mqtt connection lost")
	}
	return opts
}

func Setup(config *Config) (IMqtt, error) {
	opts := NewClientOptions(config)
	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("connect to %s: %w", config.URL, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", err)
	}

	return &Client{client: client}, nil
}

func (m *Client) Publish(topic string, qos byte, retained bool, payload []byte, timeout time.Duration) error {
	token := m.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish to %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (m *Client) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) error {
	token := m.client.Subscribe(topic, qos, callback)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return nil
}

func (m *Client) IsConnected() bool {
	return m.client.IsConnectionOpen()
}

func (m *Client) Close() {
	m.client.Disconnect(250)
}
