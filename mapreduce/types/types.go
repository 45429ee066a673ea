package types

import (
	"iter"

	"brc/utils"

	"github.com/dolthub/swiss"
)

// Stats is the running aggregate of every value observed for one key.
type Stats struct {
	Count uint64
	Sum   float64
	Min   float64
	Max   float64
}

// NewStats seeds a Stats from the first value seen for a key.
func NewStats(first float64) Stats {
	return Stats{
		Count: 1,
		Sum:   first,
		Min:   first,
		Max:   first,
	}
}

// Update folds one more value into s.
func (s *Stats) Update(v float64) {
	s.Count++
	s.Sum += v
	s.Min = min(s.Min, v)
	s.Max = max(s.Max, v)
}

// Merge folds another aggregate of the same key into s.
func (s *Stats) Merge(other Stats) {
	s.Count += other.Count
	s.Sum += other.Sum
	s.Min = min(s.Min, other.Min)
	s.Max = max(s.Max, other.Max)
}

// Mean returns Sum/Count. It is only meaningful once Count > 0.
func (s Stats) Mean() float64 {
	return s.Sum / float64(s.Count)
}

// Chunk is a line-aligned piece of the input. Data is owned by whoever
// received the chunk last; the reader never touches it again after sending.
type Chunk struct {
	Seq  uint64
	Data []byte
}

// Shard is the private key -> Stats table of a single worker.
// It is not safe for concurrent use.
type Shard struct {
	m *swiss.Map[string, *Stats]
}

const shardSizeHint = 1024

// NewShard creates an empty shard.
func NewShard() *Shard {
	return &Shard{
		m: swiss.NewMap[string, *Stats](shardSizeHint),
	}
}

// Add records value v for key. The key bytes are copied on first insertion
// only, so the caller may reuse the backing array afterwards.
func (sh *Shard) Add(key []byte, v float64) {
	if s, ok := sh.m.Get(string(key)); ok {
		s.Update(v)
		return
	}
	s := NewStats(v)
	sh.m.Put(string(key), &s)
}

// Get returns the aggregate for key.
func (sh *Shard) Get(key string) (Stats, bool) {
	s, ok := sh.m.Get(key)
	if !ok {
		return Stats{}, false
	}
	return *s, true
}

// Len returns the number of distinct keys in the shard.
func (sh *Shard) Len() int {
	return sh.m.Count()
}

// All iterates the shard in unspecified order.
func (sh *Shard) All() iter.Seq2[string, Stats] {
	return func(yield func(string, Stats) bool) {
		sh.m.Iter(func(k string, s *Stats) (stop bool) {
			return !yield(k, *s)
		})
	}
}

// Result is the merged, key-ordered outcome of a run.
type Result struct {
	keys  *utils.OrderedList[string]
	stats map[string]Stats
}

// NewResult builds a Result from merged per-key stats. Keys are ordered
// byte-wise, which is how Go compares strings.
func NewResult(stats map[string]Stats) *Result {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	return &Result{
		keys:  utils.NewOrderedListFrom(keys),
		stats: stats,
	}
}

// Len returns the number of distinct keys.
func (r *Result) Len() int {
	return r.keys.Len()
}

// Get returns the aggregate for key.
func (r *Result) Get(key string) (Stats, bool) {
	s, ok := r.stats[key]
	return s, ok
}

// Keys returns the ordered keys. The slice must not be modified.
func (r *Result) Keys() []string {
	return r.keys.GetUnderlyingList()
}

// All iterates the result in ascending key order.
func (r *Result) All() iter.Seq2[string, Stats] {
	return func(yield func(string, Stats) bool) {
		for _, k := range r.keys.GetUnderlyingList() {
			if !yield(k, r.stats[k]) {
				return
			}
		}
	}
}
