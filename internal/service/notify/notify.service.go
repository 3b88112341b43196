package notify

import (
	"context"
	"errors"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"idea-inbox/internal/service/notify/model"
	submissionmodel "idea-inbox/internal/service/submission/model"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

const TimestampLayout = "2006-01-02T15:04:05"

// INotifier delivers one event to a broker.
type INotifier interface {
	Notify(ctx context.Context, event *model.Event) error
	Close() error
}

// IDispatcher hands events off without blocking on delivery.
type IDispatcher interface {
	Dispatch(event *model.Event)
}

// NewEvent describes a stored record.
func NewEvent(record *submissionmodel.Record) (*model.Event, error) {
	id, err := helper.GenerateID()
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, record.Fields.Len())
	record.Fields.Range(func(key, value string) bool {
		fields[key] = value
		return true
	})

	files := make([]model.File, 0, len(record.Files))
	for _, f := range record.Files {
		files = append(files, model.File{
			Filename:    f.Filename,
			Field:       f.Field,
			ContentType: f.ContentType,
			Size:        f.Size,
		})
	}

	return &model.Event{
		ID:        id,
		Folder:    record.Folder,
		Path:      record.Path,
		Timestamp: record.Timestamp.Format(TimestampLayout),
		Fields:    fields,
		Files:     files,
	}, nil
}

// Dispatcher delivers events through a notifier on an ants pool so the
// request that produced them does not wait for the broker.
type Dispatcher struct {
	notifier INotifier
	pool     *ants.Pool
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(notifier INotifier, workers int, timeout time.Duration) (*Dispatcher, error) {
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p interface{}) {
		logger.Error.Printf("notify worker panic: %v", p)
	}))
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		notifier: notifier,
		pool:     pool,
		timeout:  timeout,
	}, nil
}

func (d *Dispatcher) Dispatch(event *model.Event) {
	fields := logrus.Fields{"event_id": event.ID, "folder": event.Folder}

	d.wg.Add(1)
	err := d.pool.Submit(func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Notify(ctx, event); err != nil {
			logger.Error.WithFields(fields).WithField("error", err.Error()).Println("submission notification failed")
			return
		}
		logger.Debug.WithFields(fields).Println("submission notification sent")
	})
	if err != nil {
		d.wg.Done()
		logger.Error.WithFields(fields).WithField("error", err.Error()).Println("notification dropped")
	}
}

// Close waits up to timeout for pending deliveries and closes the notifier.
func (d *Dispatcher) Close(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-time.After(timeout):
		err = errors.New("timeout waiting for pending notifications")
	}

	d.pool.Release()
	return errors.Join(err, d.notifier.Close())
}
