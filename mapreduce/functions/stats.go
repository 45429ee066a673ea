package functions

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"unsafe"

	"brc/mapreduce/types"
)

const (
	// ValueSeparator splits a record into key and value.
	ValueSeparator = ';'
	lineFeed       = '\n'
	carriageReturn = '\r'
)

var (
	ErrMissingSeparator = errors.New("separator not found")
	ErrInvalidValue     = errors.New("value is not a number")
)

// RecordError reports a record that could not be parsed.
type RecordError struct {
	Record []byte
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %v", e.Record, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// TrimNewLine strips one trailing "\n" and, under it, one "\r".
func TrimNewLine(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == lineFeed {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == carriageReturn {
			line = line[:n-1]
		}
	}
	return line
}

// SplitRecord cuts a trimmed line at the first separator.
func SplitRecord(line []byte) (key, value []byte, ok bool) {
	return bytes.Cut(line, []byte{ValueSeparator})
}

// ParseValue parses a decimal record value as a float64 without copying it.
// Out of range values saturate to ±Inf or 0 and are accepted. Hexadecimal
// floats are rejected.
func ParseValue(value []byte) (float64, error) {
	if isHex(value) {
		return 0, ErrInvalidValue
	}
	s := unsafe.String(unsafe.SliceData(value), len(value))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, ErrInvalidValue
	}
	return v, nil
}

func isHex(value []byte) bool {
	if len(value) > 0 && (value[0] == '+' || value[0] == '-') {
		value = value[1:]
	}
	return len(value) > 1 && value[0] == '0' && (value[1] == 'x' || value[1] == 'X')
}

// ParseRecord splits and parses one raw line, terminator included or not.
func ParseRecord(line []byte) (key []byte, value float64, err error) {
	line = TrimNewLine(line)
	key, raw, ok := SplitRecord(line)
	if !ok {
		return nil, 0, &RecordError{Record: bytes.Clone(line), Err: ErrMissingSeparator}
	}
	value, err = ParseValue(raw)
	if err != nil {
		return nil, 0, &RecordError{Record: bytes.Clone(line), Err: err}
	}
	return key, value, nil
}

// StatsMap is the map step: it folds every record of chunk into shard.
// It stops at the first malformed record.
func StatsMap(chunk []byte, shard *types.Shard) error {
	for len(chunk) > 0 {
		var line []byte
		if i := bytes.IndexByte(chunk, lineFeed); i >= 0 {
			line, chunk = chunk[:i+1], chunk[i+1:]
		} else {
			line, chunk = chunk, nil
		}
		key, value, err := ParseRecord(line)
		if err != nil {
			return err
		}
		shard.Add(key, value)
	}
	return nil
}

// StatsReduce is the reduce step: it merges the shards, in the order given,
// into one key-ordered result. The first shard is taken as is.
func StatsReduce(shards []*types.Shard) *types.Result {
	merged := make(map[string]types.Stats)
	for i, shard := range shards {
		if shard == nil {
			continue
		}
		if i == 0 {
			for k, s := range shard.All() {
				merged[k] = s
			}
			continue
		}
		for k, s := range shard.All() {
			if cur, ok := merged[k]; ok {
				cur.Merge(s)
				merged[k] = cur
			} else {
				merged[k] = s
			}
		}
	}
	return types.NewResult(merged)
}
