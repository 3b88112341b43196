package mqtt

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	URL            string
	ClientID       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
}

type Client struct {
	client mqtt.Client
}

type IMqtt interface {
	Publish(topic string, qos byte, retained bool, payload []byte, timeout time.Duration) error
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) error
	IsConnected() bool
	Close()
}
