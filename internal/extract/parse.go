package extract

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/elena2notti/theatreNet/internal/normalize"
)

// ParseList decodes an embedded collection cell. JSON is attempted first,
// then a Python-literal rendering (single-quoted strings, None/True/False).
// Any failure yields nil: a malformed cell never aborts the row.
func ParseList(raw string) []map[string]any {
	v := ParseValue(raw)
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return coerceItems(t)
	case map[string]any:
		return []map[string]any{t}
	}
	return nil
}

// ParseValue decodes an embedded cell into generic JSON values, with the same
// JSON-then-Python-literal fallback as ParseList.
func ParseValue(raw string) any {
	s := strings.TrimSpace(raw)
	if normalize.IsBlank(s) {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	converted, ok := pythonLiteralToJSON(s)
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(converted), &v); err == nil {
		return v
	}
	return nil
}

// pythonLiteralToJSON rewrites a Python literal rendering (repr output) into
// JSON: single-quoted strings become double-quoted, and the bare words None,
// True, and False become their JSON spellings. Structural characters inside
// strings are left alone.
func pythonLiteralToJSON(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s) + 8)
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\'' || r == '"':
			quote := r
			var content strings.Builder
			i++
			closed := false
			for i < len(runes) {
				c := runes[i]
				if c == '\\' && i+1 < len(runes) {
					content.WriteRune(c)
					content.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if c == quote {
					closed = true
					i++
					break
				}
				content.WriteRune(c)
				i++
			}
			if !closed {
				return "", false
			}
			encoded, err := json.Marshal(unescapePython(content.String()))
			if err != nil {
				return "", false
			}
			b.Write(encoded)
		case unicode.IsLetter(r):
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			word := string(runes[start:i])
			switch word {
			case "None":
				b.WriteString("null")
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			default:
				return "", false
			}
		default:
			b.WriteRune(r)
			i++
		}
	}
	return b.String(), true
}

func unescapePython(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			i++
			switch runes[i] {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '\'', '"', '\\':
				b.WriteRune(runes[i])
			default:
				b.WriteRune('\\')
				b.WriteRune(runes[i])
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
