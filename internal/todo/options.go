package todo

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultKey = "tasks"

type options struct {
	key      string
	now      func() time.Time
	newID    func() string
	logger   logrus.FieldLogger
	messages Messages
}

type Option func(*options)

// WithKey sets the storage key holding the serialized list.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMessages(messages Messages) Option {
	return func(o *options) {
		o.messages = messages
	}
}

func buildOptions(opts []Option) options {
	o := options{
		key:      DefaultKey,
		now:      Now,
		newID:    func() string { return uuid.NewString() },
		logger:   discardLogger(),
		messages: French,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Now returns the current UTC time at millisecond precision, the resolution
// timestamps are stored with.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
