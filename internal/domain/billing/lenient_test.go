package billing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLenient(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"  3.5", 3.5},
		{"-2", -2},
		{".5", 0.5},
		{"1e3", 1000},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{"NaN", 0},
		{"1,000", 1},
		{"Infinity", 0},
		{"-Infinity", 0},
		{"1e400", 0},
		{"-1e400", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLenient(tt.in))
		})
	}
}

func TestLenientNumber_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A LenientNumber `json:"a"`
		B LenientNumber `json:"b"`
		C LenientNumber `json:"c"`
		D LenientNumber `json:"d"`
		E LenientNumber `json:"e"`
	}

	err := json.Unmarshal([]byte(`{"a": 10.5, "b": "7", "c": "oops", "d": null, "e": true}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, 10.5, payload.A.Float())
	assert.Equal(t, 7.0, payload.B.Float())
	assert.Equal(t, 0.0, payload.C.Float())
	assert.Equal(t, 0.0, payload.D.Float())
	assert.Equal(t, 0.0, payload.E.Float())
}

func TestLenientNumber_OutOfRangeReadsAsZero(t *testing.T) {
	var payload struct {
		Literal LenientNumber `json:"literal"`
		Text    LenientNumber `json:"text"`
		Inf     LenientNumber `json:"inf"`
	}

	err := json.Unmarshal([]byte(`{"literal": 1e400, "text": "1e400", "inf": "Infinity"}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, 0.0, payload.Literal.Float())
	assert.Equal(t, 0.0, payload.Text.Float())
	assert.Equal(t, 0.0, payload.Inf.Float())
}
