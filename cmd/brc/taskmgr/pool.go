// Package taskmgr runs the aggregation workers.
package taskmgr

import (
	"context"
	"errors"
	"fmt"

	"brc/mapreduce/types"

	"golang.org/x/sync/errgroup"
)

// HandlerFunc folds one chunk into the worker's private shard.
type HandlerFunc func(chunk types.Chunk, shard *types.Shard) error

var errNoWorkers = errors.New("worker count must be positive")

// Pool is a fixed set of workers draining one chunk channel. Every worker
// owns its shard exclusively, so handlers never need locking.
type Pool struct {
	workers int
	handler HandlerFunc
	shards  []*types.Shard
	handled []uint64
}

// NewPool creates a pool of the given size.
func NewPool(workers int, handler HandlerFunc) (*Pool, error) {
	if workers < 1 {
		return nil, errNoWorkers
	}
	return &Pool{
		workers: workers,
		handler: handler,
		shards:  make([]*types.Shard, workers),
		handled: make([]uint64, workers),
	}, nil
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Go starts the workers in g. Each worker returns when chunks is closed and
// drained, when its handler fails or when ctx is done.
func (p *Pool) Go(ctx context.Context, g *errgroup.Group, chunks <-chan types.Chunk) {
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			return p.work(ctx, i, chunks)
		})
	}
}

// Shards returns the worker shards in spawn order. Only valid after every
// worker has returned.
func (p *Pool) Shards() []*types.Shard {
	return p.shards
}

// Handled returns how many chunks each worker processed, in spawn order.
// Only valid after every worker has returned.
func (p *Pool) Handled() []uint64 {
	return p.handled
}

func (p *Pool) work(ctx context.Context, id int, chunks <-chan types.Chunk) error {
	shard := types.NewShard()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				p.shards[id] = shard
				return nil
			}
			if err := p.handler(chunk, shard); err != nil {
				return fmt.Errorf("worker %d, chunk %d: %w", id, chunk.Seq, err)
			}
			p.handled[id]++
		}
	}
}
