package notify

import (
	"context"
	"encoding/json"
	"errors"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/service/notify/model"
	submissionmodel "idea-inbox/internal/service/submission/model"
	"sync"
	"testing"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu     sync.Mutex
	events []*model.Event
	err    error
	closed bool
}

func (f *fakeNotifier) Notify(ctx context.Context, event *model.Event) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeNotifier) Close() error {
	f.closed = true
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestNewEvent(t *testing.T) {
	fields := _type.NewFields()
	fields.Set("name", "Ann")
	record := &submissionmodel.Record{
		Folder:    "Ann_idea_20240305_140709",
		Path:      "/tmp/Ann_idea_20240305_140709",
		Timestamp: time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local),
		Fields:    fields,
		Files:     []submissionmodel.StoredFile{{Filename: "a.png", Field: "photo", ContentType: "image/png", Size: 4}},
	}

	event, err := NewEvent(record)
	require.NoError(t, err)
	assert.Len(t, event.ID, 16)
	assert.Equal(t, "2024-03-05T14:07:09", event.Timestamp)
	assert.Equal(t, map[string]string{"name": "Ann"}, event.Fields)
	assert.Equal(t, []model.File{{Filename: "a.png", Field: "photo", ContentType: "image/png", Size: 4}}, event.Files)

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"folder":"Ann_idea_20240305_140709"`)
	assert.Contains(t, string(raw), `"contentType":"image/png"`)
}

func TestDispatcherDeliversAll(t *testing.T) {
	notifier := &fakeNotifier{}
	d, err := NewDispatcher(notifier, 2, time.Second)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		d.Dispatch(&model.Event{ID: "e", Folder: "f"})
	}
	require.NoError(t, d.Close(5*time.Second))

	assert.Equal(t, 20, notifier.count())
	assert.True(t, notifier.closed)
}

func TestDispatcherSwallowsNotifyErrors(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("broker down")}
	d, err := NewDispatcher(notifier, 1, time.Second)
	require.NoError(t, err)

	d.Dispatch(&model.Event{ID: "e"})
	require.NoError(t, d.Close(5*time.Second))
	assert.Equal(t, 1, notifier.count())
}

func TestNewDispatcherRequiresNotifier(t *testing.T) {
	_, err := NewDispatcher(nil, 1, time.Second)
	assert.Error(t, err)
}

type fakeMqtt struct {
	topic   string
	qos     byte
	payload []byte
	timeout time.Duration
	closed  bool
}

func (f *fakeMqtt) Publish(topic string, qos byte, _ bool, payload []byte, timeout time.Duration) error {
	f.topic, f.qos, f.payload, f.timeout = topic, qos, payload, timeout
	return nil
}

func (f *fakeMqtt) Subscribe(string, byte, mqttlib.MessageHandler) error { return nil }
func (f *fakeMqtt) IsConnected() bool                                    { return true }
func (f *fakeMqtt) Close()                                               { f.closed = true }

func TestMqttNotifier(t *testing.T) {
	client := &fakeMqtt{}
	n := NewMqttNotifier(client, "ideas/submissions", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, n.Notify(ctx, &model.Event{ID: "abc", Folder: "Ann_idea"}))

	assert.Equal(t, "ideas/submissions", client.topic)
	assert.Equal(t, byte(1), client.qos)
	assert.Greater(t, client.timeout, time.Duration(0))
	assert.LessOrEqual(t, client.timeout, 3*time.Second)

	var decoded model.Event
	require.NoError(t, json.Unmarshal(client.payload, &decoded))
	assert.Equal(t, "Ann_idea", decoded.Folder)

	require.NoError(t, n.Close())
	assert.True(t, client.closed)
}
