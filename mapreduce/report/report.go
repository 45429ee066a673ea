// Package report renders a merged result as the final one-line summary:
//
//	{key1=min/avg/max, key2=min/avg/max}
package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"brc/mapreduce/types"
)

const recordSeparator = ", "

// Write renders res to w. Every number has exactly one fractional digit.
// Keys are written as the raw bytes they were read as.
func Write(w io.Writer, res *types.Result) error {
	bw := bufio.NewWriter(w)
	bw.WriteByte('{')
	var num []byte
	i := 0
	for key, s := range res.All() {
		if i > 0 {
			bw.WriteString(recordSeparator)
		}
		i++
		bw.WriteString(key)
		bw.WriteByte('=')
		num = appendValue(num[:0], s.Min)
		num = append(num, '/')
		num = appendValue(num, s.Mean())
		num = append(num, '/')
		num = appendValue(num, s.Max)
		bw.Write(num)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// Format is Write into a string.
func Format(res *types.Result) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = Write(&sb, res)
	return sb.String()
}

func appendValue(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, v, 'f', 1, 64)
}
