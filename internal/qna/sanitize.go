package qna

import "bytes"

var nonFiniteTokens = [][]byte{
	[]byte("-Infinity"),
	[]byte("Infinity"),
	[]byte("NaN"),
}

var nullToken = []byte("null")

// sanitizeNonFinite rewrites the bare NaN, Infinity and -Infinity literals
// that spreadsheet exports emit into JSON null. Only tokens in value position
// outside string literals are touched; the same words inside answer text are
// left alone.
func sanitizeNonFinite(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))

	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]

		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			out.WriteByte(c)
			continue
		}

		if tok := matchNonFinite(data, i); tok > 0 {
			out.Write(nullToken)
			i += tok - 1
			continue
		}

		out.WriteByte(c)
	}

	return out.Bytes()
}

// matchNonFinite returns the length of the non-finite token starting at i, or
// 0 when none starts there or it is not delimited as a standalone value.
func matchNonFinite(data []byte, i int) int {
	if i > 0 && !isValueStart(data[i-1]) {
		return 0
	}
	for _, tok := range nonFiniteTokens {
		if !bytes.HasPrefix(data[i:], tok) {
			continue
		}
		end := i + len(tok)
		if end == len(data) || isValueEnd(data[end]) {
			return len(tok)
		}
		return 0
	}
	return 0
}

func isValueStart(b byte) bool {
	return b == ':' || b == '[' || b == ',' || isJSONSpace(b)
}

func isValueEnd(b byte) bool {
	return b == ',' || b == ']' || b == '}' || isJSONSpace(b)
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
