package knn

import (
	"github.com/gomatting/knn/index/kdtree"
)

type options struct {
	leafSize   int
	numWorkers int
	logger     *Logger
}

// Option configures the batch KNN driver.
type Option func(*options)

// WithLeafSize sets the maximum number of points per leaf bucket of the
// underlying spatial index. Values < 1 are clamped to 1.
func WithLeafSize(leafSize int) Option {
	return func(o *options) {
		o.leafSize = leafSize
	}
}

// WithNumWorkers sets the number of goroutines the batch driver spreads
// queries across. The built index is read-only during querying, so workers
// share it without locking and the output is identical to a sequential
// run. Values <= 1 keep the driver sequential (the default).
func WithNumWorkers(numWorkers int) Option {
	return func(o *options) {
		o.numWorkers = numWorkers
	}
}

// WithLogger configures structured logging for the driver.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		leafSize:   kdtree.DefaultLeafSize,
		numWorkers: 1,
		logger:     NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
