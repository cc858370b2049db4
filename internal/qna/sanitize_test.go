package qna

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeNonFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "object value", input: `{"a": NaN}`, expected: `{"a": null}`},
		{name: "no space after colon", input: `{"a":Infinity,"b":1}`, expected: `{"a":null,"b":1}`},
		{name: "negative infinity", input: `{"a": -Infinity }`, expected: `{"a": null }`},
		{name: "array elements", input: `[NaN, 1, Infinity]`, expected: `[null, 1, null]`},
		{name: "array after comma", input: `[1,NaN]`, expected: `[1,null]`},
		{name: "inside string untouched", input: `{"a": "is NaN here"}`, expected: `{"a": "is NaN here"}`},
		{name: "escaped quote in string", input: `{"a": "say \" NaN ", "b": NaN}`, expected: `{"a": "say \" NaN ", "b": null}`},
		{name: "identifier prefix untouched", input: `{"a": NaNa}`, expected: `{"a": NaNa}`},
		{name: "end of input", input: `NaN`, expected: `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, string(sanitizeNonFinite([]byte(tc.input))))
		})
	}
}

func TestNormalize(t *testing.T) {
	// decomposed jamo compose to the precomposed syllable
	decomposed := "\u1100\u1161\u11a8"
	assert.Equal(t, "\uac01", Normalize(decomposed))

	assert.Equal(t, "pressure vessel 검사", Normalize("  Pressure\t\nVessel   검사 "))
	assert.Equal(t, "", Normalize(""))
}
