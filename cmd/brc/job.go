package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"brc/cmd/brc/pfile"
	"brc/cmd/brc/taskmgr"
	"brc/mapreduce/functions"
	"brc/mapreduce/types"
	"brc/utils"

	"golang.org/x/sync/errgroup"
)

// ChannelCapacity is how many chunks may wait for a worker before the reader
// blocks.
const ChannelCapacity = 1000

// Config sizes a run.
type Config struct {
	ReadBufSize     int
	ChannelCapacity int
	Workers         int
}

// DefaultConfig returns the configuration used by the command.
func DefaultConfig() Config {
	return Config{
		ReadBufSize:     pfile.DefaultBufSize,
		ChannelCapacity: ChannelCapacity,
		Workers:         runtime.NumCPU(),
	}
}

// Validate checks that every size is positive.
func (c Config) Validate() error {
	var errs []error
	if c.ReadBufSize < 1 {
		errs = append(errs, fmt.Errorf("invalid read buffer size %d", c.ReadBufSize))
	}
	if c.ChannelCapacity < 1 {
		errs = append(errs, fmt.Errorf("invalid channel capacity %d", c.ChannelCapacity))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("invalid worker count %d", c.Workers))
	}
	return errors.Join(errs...)
}

// job is one aggregation run over one input.
type job struct {
	cfg    Config
	logger *log.Logger
}

// run reads r to the end and returns the merged result. The first failure
// of the reader or of any worker aborts the whole run.
func (j *job) run(ctx context.Context, r io.Reader) (*types.Result, error) {
	if err := j.cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	pool, err := taskmgr.NewPool(j.cfg.Workers, func(chunk types.Chunk, shard *types.Shard) error {
		return functions.StatsMap(chunk.Data, shard)
	})
	if err != nil {
		return nil, err
	}
	reader := pfile.NewChunkReader(r, j.cfg.ReadBufSize)
	chunks := make(chan types.Chunk, j.cfg.ChannelCapacity)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return reader.Produce(gctx, chunks)
	})
	pool.Go(gctx, g, chunks)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	read := reader.Stats()
	j.logger.Printf("read %d bytes in %d chunks (xxh3 %s), %d workers handled %v chunks, aggregated in %v",
		read.Bytes, read.Chunks, utils.FormatDigest(read.Digest), pool.Workers(), pool.Handled(), time.Since(start))

	res := functions.StatsReduce(pool.Shards())
	j.logger.Printf("merged %d distinct keys", res.Len())
	return res, nil
}

// runFile opens filename and runs the job over its content.
func (j *job) runFile(ctx context.Context, filename string) (*types.Result, error) {
	f, err := pfile.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return j.run(ctx, f)
}
