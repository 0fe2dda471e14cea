package indicator

import (
	"math"
	"strconv"
)

// Value is an indicator reading that may be undefined.
type Value struct {
	V  float64
	OK bool
}

// Of wraps a defined reading. NaN and infinities are treated as missing.
func Of(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing()
	}
	return Value{V: v, OK: true}
}

// Missing returns an undefined reading.
func Missing() Value {
	return Value{}
}

func (v Value) String() string {
	if !v.OK {
		return "n/a"
	}
	return strconv.FormatFloat(v.V, 'f', 6, 64)
}
