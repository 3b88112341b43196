package rabbitmq

import (
	"encoding/json"
	"fmt"
	"idea-inbox/internal/common/enum"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is an outgoing AMQP message before it is turned into a Publishing.
type Message struct {
	ID          string
	Type        string
	Body        []byte
	ContentType string
	Headers     amqp.Table
	Timestamp   time.Time
}

// NewMessage wraps payload. Strings are sent as text, byte slices as-is
// and everything else as JSON.
func NewMessage(msgType string, payload interface{}, headers amqp.Table) (*Message, error) {
	gid, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	now := time.Now()

	var (
		body        []byte
		contentType string
	)
	switch v := payload.(type) {
	case string:
		body = []byte(v)
		contentType = enum.TextPlain.ToString()
	case []byte:
		body = v
		contentType = enum.OctetStream.ToString()
	default:
		body, err = json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode message body: %w", err)
		}
		contentType = enum.ApplicationJSON.ToString()
	}

	h := amqp.Table{}
	for k, v := range headers {
		h[k] = v
	}

	return &Message{
		ID:          fmt.Sprintf("msg_%s_%d", gid, now.Unix()),
		Type:        msgType,
		Body:        body,
		ContentType: contentType,
		Headers:     h,
		Timestamp:   now,
	}, nil
}

// Publishing builds the persistent AMQP publishing for m.
func (m *Message) Publishing() amqp.Publishing {
	headers := amqp.Table{"id": m.ID}
	for k, v := range m.Headers {
		headers[k] = v
	}

	return amqp.Publishing{
		ContentType:  m.ContentType,
		Body:         m.Body,
		MessageId:    m.ID,
		Type:         m.Type,
		Timestamp:    m.Timestamp,
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
	}
}
