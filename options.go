package sstid

import "go.uber.org/zap"

// Option is a functional option for configuring batch ID computation.
type Option func(*batchConfig)

type batchConfig struct {
	workers           int
	extended          bool
	temporaryFallback bool
	logger            *zap.Logger
}

func defaultBatchConfig() *batchConfig {
	return &batchConfig{
		workers: 1, // Default to single-threaded; use WithWorkers(n) to parallelize
		logger:  zap.NewNop(),
	}
}

// WithWorkers sets the number of parallel workers. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(c *batchConfig) {
		c.workers = max(n, 1)
	}
}

// WithExtended makes the batch produce 24-byte extended IDs instead of
// 16-byte IDs.
func WithExtended() Option {
	return func(c *batchConfig) {
		c.extended = true
	}
}

// WithTemporaryFallback fills in a TemporaryUniqueID for records whose
// properties cannot produce a stable ID. Such results are marked Temporary
// and still carry the original failure in Status.
func WithTemporaryFallback() Option {
	return func(c *batchConfig) {
		c.temporaryFallback = true
	}
}

// WithLogger sets the logger used to report records that could not get a
// stable ID. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *batchConfig) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}
