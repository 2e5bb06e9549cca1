package sstid

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/sstid/status"
)

// ctxCheckInterval is how many records a worker processes between
// cancellation checks.
const ctxCheckInterval = 256

// UniqueIDResult is the outcome for one record of a batch.
type UniqueIDResult struct {
	// ID is the encoded external ID (16 or 24 bytes). Nil when the record
	// failed and no temporary fallback was requested.
	ID []byte
	// Temporary is set when ID came from TemporaryUniqueID.
	Temporary bool
	// Status is OK for stable IDs and holds the failure otherwise.
	Status status.Status
}

// UniqueIDs computes the external unique ID of every record in props.
// Results are returned in input order. A record that cannot produce an ID
// does not stop the batch; its failure is reported in its result. The only
// error returned is the context's, if it is cancelled before completion.
func UniqueIDs(ctx context.Context, props []TableProperties, opts ...Option) ([]UniqueIDResult, error) {
	cfg := defaultBatchConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	results := make([]UniqueIDResult, len(props))
	if len(props) == 0 {
		return results, ctx.Err()
	}

	workers := min(cfg.workers, len(props))
	chunk := (len(props) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(props); start += chunk {
		end := min(start+chunk, len(props))
		g.Go(func() error {
			return computeRange(gctx, cfg, props[start:end], results[start:end], start)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func computeRange(ctx context.Context, cfg *batchConfig, props []TableProperties, out []UniqueIDResult, base int) error {
	for i := range props {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		out[i] = computeOne(cfg, &props[i], base+i)
	}
	return nil
}

func computeOne(cfg *batchConfig, p *TableProperties, index int) UniqueIDResult {
	var (
		id  []byte
		err error
	)
	if cfg.extended {
		id, err = GetExtendedUniqueIDFromTableProperties(*p)
	} else {
		id, err = GetUniqueIDFromTableProperties(*p)
	}
	if err == nil {
		return UniqueIDResult{ID: id}
	}

	st := status.FromError(err)
	if !cfg.temporaryFallback {
		cfg.logger.Warn("no stable unique id for table file",
			zap.Int("index", index),
			zap.Uint64("file_number", p.OrigFileNumber),
			zap.Stringer("status", st))
		return UniqueIDResult{Status: st}
	}

	id = TemporaryUniqueID(*p).EncodeBytes()
	if !cfg.extended {
		id = id[:16]
	}
	cfg.logger.Debug("using temporary unique id",
		zap.Int("index", index),
		zap.Uint64("file_number", p.OrigFileNumber),
		zap.Stringer("status", st))
	return UniqueIDResult{ID: id, Temporary: true, Status: st}
}
