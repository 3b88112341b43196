package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Channel is a leveled view over the shared logrus logger.
type Channel struct {
	entry *logrus.Entry
	level logrus.Level
}

var (
	base *logrus.Logger

	Debug   *Channel
	Info    *Channel
	Warning *Channel
	Error   *Channel
	HTTP    *Channel
)

func init() {
	Setup()
}

func Setup() {
	base = logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	HTTP = newChannel("http", logrus.InfoLevel)
	Info = newChannel("info", logrus.InfoLevel)
	Warning = newChannel("warning", logrus.WarnLevel)
	Debug = newChannel("debug", logrus.DebugLevel)
	Error = newChannel("error", logrus.ErrorLevel)
}

// Configure applies level ("debug", "info", "warn", "error") and format ("text", "json").
func Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	base.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

// Base exposes the underlying logger, e.g. to redirect output in tests.
func Base() *logrus.Logger {
	return base
}

func newChannel(name string, level logrus.Level) *Channel {
	return &Channel{
		entry: base.WithField("channel", name),
		level: level,
	}
}

func (c *Channel) Println(args ...interface{}) {
	c.entry.Logln(c.level, args...)
}

func (c *Channel) Printf(format string, args ...interface{}) {
	c.entry.Logf(c.level, format, args...)
}

func (c *Channel) WithFields(fields logrus.Fields) *Entry {
	return &Entry{entry: c.entry.WithFields(fields), level: c.level}
}

func (c *Channel) WithField(key string, value interface{}) *Entry {
	return &Entry{entry: c.entry.WithField(key, value), level: c.level}
}

func (c *Channel) WithError(err error) *Entry {
	return &Entry{entry: c.entry.WithError(err), level: c.level}
}

// Entry is a Channel with structured fields attached.
type Entry struct {
	entry *logrus.Entry
	level logrus.Level
}

func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{entry: e.entry.WithField(key, value), level: e.level}
}

func (e *Entry) WithFields(fields logrus.Fields) *Entry {
	return &Entry{entry: e.entry.WithFields(fields), level: e.level}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{entry: e.entry.WithError(err), level: e.level}
}

func (e *Entry) Println(args ...interface{}) {
	e.entry.Logln(e.level, args...)
}

func (e *Entry) Printf(format string, args ...interface{}) {
	e.entry.Logf(e.level, format, args...)
}
