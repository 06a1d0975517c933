package timefmt

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		ms   float64
		want string
	}{
		{name: "zero", ms: 0, want: ""},
		{name: "seconds and millis", ms: 1500, want: "1s 500ms"},
		{name: "sub-millisecond", ms: 0.25, want: "250µs"},
		{name: "all parts", ms: 2003.25, want: "2s 3ms 250µs"},
		{name: "seconds only", ms: 4000, want: "4s"},
		{name: "seconds and micros", ms: 1000.5, want: "1s 500µs"},
		{name: "sub-microsecond dropped", ms: 0.0004, want: ""},
		{name: "large epoch value", ms: 1414975166997, want: "1414975166s 997ms"},
		{name: "exact microsecond", ms: float64(1001) / 1000, want: "1ms 1µs"},
		{name: "millis and micros", ms: 1.001, want: "1ms 1µs"},
		{name: "all parts from fraction", ms: 1234.567, want: "1s 234ms 567µs"},
		{name: "negative", ms: -4000, want: "-4s"},
		{name: "negative mixed", ms: -500, want: "-500ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.ms); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}
