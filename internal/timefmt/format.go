// Package timefmt renders elapsed milliseconds as compact strings such as
// "1s 500ms" or "250µs".
package timefmt

import (
	"math"
	"strconv"
	"strings"
)

// Format converts elapsed milliseconds into seconds, milliseconds and
// microseconds, keeping only the non-zero parts. Zero yields "". Negative
// values are formatted by magnitude with a leading "-".
func Format(ms float64) string {
	if ms < 0 {
		if s := Format(-ms); s != "" {
			return "-" + s
		}
		return ""
	}

	// ms*1000 can land just under a whole microsecond
	micro := int64(math.Floor(ms*1000 + 1e-6))
	seconds := micro / 1_000_000
	micro -= seconds * 1_000_000
	millis := micro / 1000
	micro -= millis * 1000

	parts := make([]string, 0, 3)
	if seconds != 0 {
		parts = append(parts, strconv.FormatInt(seconds, 10)+"s")
	}
	if millis != 0 {
		parts = append(parts, strconv.FormatInt(millis, 10)+"ms")
	}
	if micro != 0 {
		parts = append(parts, strconv.FormatInt(micro, 10)+"µs")
	}
	return strings.Join(parts, " ")
}
