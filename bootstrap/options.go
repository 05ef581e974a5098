package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/iocboot/ioc"
	"github.com/kbukum/iocboot/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	iocOptions      []ioc.Option
	private         bool
	summaryOut      io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithContainerOptions passes extra options to the application's
// ioc.Bootstrapper, after those derived from the config.
func WithContainerOptions(opts ...ioc.Option) Option {
	return func(o *appOptions) {
		o.iocOptions = append(o.iocOptions, opts...)
	}
}

// WithPrivateContainer keeps the application's container out of the ioc
// package-level facade. Useful when several apps share a process, as in tests.
func WithPrivateContainer() Option {
	return func(o *appOptions) {
		o.private = true
	}
}

// WithSummaryOutput redirects the startup summary. Defaults to stdout.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}
