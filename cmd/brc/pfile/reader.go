// Package pfile turns an input file into line-aligned chunks.
package pfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"brc/mapreduce/types"

	"github.com/zeebo/xxh3"
)

// DefaultBufSize is the size of the read buffer. No record may be longer.
const DefaultBufSize = 128 * 1024

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

var ErrRecordTooLong = errors.New("no line terminator in the whole read buffer")

// ReadStats describes what a ChunkReader has emitted so far.
type ReadStats struct {
	Bytes  uint64
	Chunks uint64
	// Digest is the xxh3 of every emitted byte, in emission order.
	Digest uint64
}

// ChunkReader reads r block by block and cuts the stream after the last
// line feed of each block. The tail of a block is carried over to the front
// of the buffer for the next read.
type ChunkReader struct {
	r       io.Reader
	buf     []byte
	pending int
	eof     bool
	err     error

	seq    uint64
	bytes  uint64
	digest *xxh3.Hasher
}

// NewChunkReader creates a reader with a bufSize byte buffer.
func NewChunkReader(r io.Reader, bufSize int) *ChunkReader {
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	return &ChunkReader{
		r:      r,
		buf:    make([]byte, bufSize),
		digest: xxh3.New(),
	}
}

// Next returns the next chunk, or io.EOF once the input is exhausted.
// Bytes returned together with a read error are chunked before the error
// is reported.
func (c *ChunkReader) Next() (types.Chunk, error) {
	empty := 0
	for !c.eof {
		if c.err != nil {
			return types.Chunk{}, c.err
		}
		n, err := c.r.Read(c.buf[c.pending:])
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			c.eof = true
		case isInterrupted(err):
			// retried by the next iteration
		default:
			c.err = fmt.Errorf("read input: %w", err)
		}
		if n == 0 {
			if err == nil {
				empty++
				if empty >= maxEmptyReads {
					return types.Chunk{}, io.ErrNoProgress
				}
			}
			continue
		}
		empty = 0

		valid := c.pending + n
		last := bytes.LastIndexByte(c.buf[:valid], '\n')
		if last < 0 {
			c.pending = valid
			if c.pending == len(c.buf) {
				return types.Chunk{}, fmt.Errorf("%w (%d bytes)", ErrRecordTooLong, len(c.buf))
			}
			continue
		}
		chunk := c.emit(c.buf[:last+1])
		c.pending = copy(c.buf, c.buf[last+1:valid])
		return chunk, nil
	}

	if c.pending > 0 {
		chunk := c.emit(c.buf[:c.pending])
		c.pending = 0
		return chunk, nil
	}
	return types.Chunk{}, io.EOF
}

// Produce sends every chunk to out and closes it. A send blocks while out is
// full. It returns early with the context error if ctx is done.
func (c *ChunkReader) Produce(ctx context.Context, out chan<- types.Chunk) error {
	defer close(out)
	for {
		chunk, err := c.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case out <- chunk:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stats returns the counters of the chunks emitted so far.
func (c *ChunkReader) Stats() ReadStats {
	return ReadStats{
		Bytes:  c.bytes,
		Chunks: c.seq,
		Digest: c.digest.Sum64(),
	}
}

func (c *ChunkReader) emit(data []byte) types.Chunk {
	owned := make([]byte, len(data))
	copy(owned, data)
	c.digest.Write(owned)
	c.bytes += uint64(len(owned))
	chunk := types.Chunk{Seq: c.seq, Data: owned}
	c.seq++
	return chunk
}
