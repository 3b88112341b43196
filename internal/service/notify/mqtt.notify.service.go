package notify

import (
	"context"
	"encoding/json"
	"idea-inbox/internal/pkg/mqtt"
	"idea-inbox/internal/service/notify/model"
	"time"
)

// MqttNotifier publishes events as JSON to one topic.
type MqttNotifier struct {
	client mqtt.IMqtt
	topic  string
	qos    byte
}

func NewMqttNotifier(client mqtt.IMqtt, topic string, qos byte) *MqttNotifier {
	return &MqttNotifier{client: client, topic: topic, qos: qos}
}

func (n *MqttNotifier) Notify(ctx context.Context, event *model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	return n.client.Publish(n.topic, n.qos, false, payload, timeout)
}

func (n *MqttNotifier) Close() error {
	n.client.Close()
	return nil
}
