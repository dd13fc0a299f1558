package billing

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumber matches the longest numeric prefix of a string, the way a
// browser number field is read back.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseLenient reads the numeric prefix of s.
// Anything without a finite numeric prefix yields 0, so NaN, Infinity
// and out of range values like 1e400 all read as 0.
func ParseLenient(s string) float64 {
	match := leadingNumber.FindString(strings.TrimLeft(s, " \t\r\n\f\v\u00a0\ufeff"))
	if match == "" {
		return 0
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// LenientNumber decodes a JSON number or numeric string.
// Values that cannot be read as a number decode to 0 instead of failing.
type LenientNumber float64

// Float returns the value as float64
func (n LenientNumber) Float() float64 {
	return float64(n)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *LenientNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = LenientNumber(ParseLenient(s))
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = LenientNumber(finite(v))
	}

	return nil
}
