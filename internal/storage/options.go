package storage

import (
	"github.com/sirupsen/logrus"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/logging"
)

// Clock supplies write timestamps.
type Clock interface {
	Now() fields.Timestamp
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() fields.Timestamp {
	return fields.Now()
}

// Options are the collaborators shared by every backend.
type Options struct {
	Logger logrus.FieldLogger
	Clock  Clock
}

// Option configures Options.
type Option func(*Options)

// WithLogger sets the logger. Backends log opens and writes at Info and
// reads at Debug.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithClock sets the clock used to stamp writes.
func WithClock(c Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

// NewOptions applies opts over the defaults: a discarding logger and the
// system clock.
func NewOptions(opts ...Option) Options {
	o := Options{Clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	return o
}
