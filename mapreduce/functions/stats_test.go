package functions

import (
	"errors"
	"math"
	"slices"
	"testing"

	"brc/mapreduce/types"
)

func TestTrimNewLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a;1\n", "a;1"},
		{"a;1\r\n", "a;1"},
		{"a;1", "a;1"},
		{"a;1\r", "a;1\r"},
		{"a;1\n\n", "a;1\n"},
		{"a;1\r\r\n", "a;1\r"},
		{"\n", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := string(TrimNewLine([]byte(tt.in))); got != tt.want {
			t.Errorf("TrimNewLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		value float64
	}{
		{"Paris;10.0\n", "Paris", 10},
		{"London;-5.5\r\n", "London", -5.5},
		{"A;3", "A", 3},
		{";1.5\n", "", 1.5},
		{"big;1e400\n", "big", math.Inf(1)},
		{"zero;0\n", "zero", 0},
		{"lead;-0.5\n", "lead", -0.5},
	}
	for _, tt := range tests {
		key, value, err := ParseRecord([]byte(tt.line))
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.line, err)
			continue
		}
		if string(key) != tt.key || value != tt.value {
			t.Errorf("%q: got (%q, %v), want (%q, %v)", tt.line, key, value, tt.key, tt.value)
		}
	}
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"Paris10.0\n", ErrMissingSeparator},
		{"\n", ErrMissingSeparator},
		{"Paris;\n", ErrInvalidValue},
		{"Paris;ten\n", ErrInvalidValue},
		{"Paris; 1.0\n", ErrInvalidValue},
		{"a;b;1\n", ErrInvalidValue},
		{"A;0x1p3\n", ErrInvalidValue},
		{"A;-0X1P-2\n", ErrInvalidValue},
		{"A;+0x10\n", ErrInvalidValue},
	}
	for _, tt := range tests {
		_, _, err := ParseRecord([]byte(tt.line))
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.line, err, tt.want)
			continue
		}
		var recErr *RecordError
		if !errors.As(err, &recErr) {
			t.Errorf("%q: error %T is not a *RecordError", tt.line, err)
			continue
		}
		if want := string(TrimNewLine([]byte(tt.line))); string(recErr.Record) != want {
			t.Errorf("%q: record %q, want %q", tt.line, recErr.Record, want)
		}
	}
}

func TestStatsMap(t *testing.T) {
	shard := types.NewShard()
	if err := StatsMap([]byte("Paris;10.0\nParis;20.0\nLondon;5.5\r\nParis;12"), shard); err != nil {
		t.Fatal(err)
	}
	paris, _ := shard.Get("Paris")
	if want := (types.Stats{Count: 3, Sum: 42, Min: 10, Max: 20}); paris != want {
		t.Errorf("Paris: got %+v, want %+v", paris, want)
	}
	london, _ := shard.Get("London")
	if want := types.NewStats(5.5); london != want {
		t.Errorf("London: got %+v, want %+v", london, want)
	}
}

func TestStatsMapStopsAtFirstBadRecord(t *testing.T) {
	shard := types.NewShard()
	err := StatsMap([]byte("A;1\nB2\nC;3\n"), shard)
	if !errors.Is(err, ErrMissingSeparator) {
		t.Fatalf("got %v, want ErrMissingSeparator", err)
	}
	if _, ok := shard.Get("C"); ok {
		t.Error("records after the malformed one were aggregated")
	}
}

func TestStatsMapRejectsHexFloat(t *testing.T) {
	shard := types.NewShard()
	if err := StatsMap([]byte("A;0x1p3\n"), shard); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("got %v, want ErrInvalidValue", err)
	}
	if shard.Len() != 0 {
		t.Errorf("hex value was aggregated")
	}
}

func TestStatsReduce(t *testing.T) {
	first := types.NewShard()
	second := types.NewShard()
	third := types.NewShard()
	for _, chunk := range []struct {
		shard *types.Shard
		data  string
	}{
		{first, "b;1\na;4\n"},
		{second, "a;-2\nc;8\n"},
		{third, "a;10\nb;3\n"},
	} {
		if err := StatsMap([]byte(chunk.data), chunk.shard); err != nil {
			t.Fatal(err)
		}
	}

	res := StatsReduce([]*types.Shard{first, second, nil, third})

	if got, want := res.Keys(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("keys: got %v, want %v", got, want)
	}
	expect := map[string]types.Stats{
		"a": {Count: 3, Sum: 12, Min: -2, Max: 10},
		"b": {Count: 2, Sum: 4, Min: 1, Max: 3},
		"c": {Count: 1, Sum: 8, Min: 8, Max: 8},
	}
	for k, want := range expect {
		if got, _ := res.Get(k); got != want {
			t.Errorf("%s: got %+v, want %+v", k, got, want)
		}
	}
}

func TestStatsReduceOrderIndependent(t *testing.T) {
	a := types.NewShard()
	b := types.NewShard()
	StatsMap([]byte("x;1\ny;2\nx;7\n"), a)
	StatsMap([]byte("y;-4\nz;0.5\nx;3\n"), b)

	ab := StatsReduce([]*types.Shard{a, b})
	ba := StatsReduce([]*types.Shard{b, a})
	for k, s := range ab.All() {
		if other, _ := ba.Get(k); other != s {
			t.Errorf("%s: %+v vs %+v", k, s, other)
		}
	}
	if ab.Len() != ba.Len() {
		t.Errorf("len: %d vs %d", ab.Len(), ba.Len())
	}
}
