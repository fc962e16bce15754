package utils

import (
	"regexp"
	"strings"
)

var (
	countPrefix = map[byte]*regexp.Regexp{
		's': regexp.MustCompile(`(?s)^s:[0-9]+:`),
		'a': regexp.MustCompile(`(?s)^a:[0-9]+:`),
		'O': regexp.MustCompile(`(?s)^O:[0-9]+:`),
		'E': regexp.MustCompile(`(?s)^E:[0-9]+:`),
	}
	scalarLoose = map[byte]*regexp.Regexp{
		'b': regexp.MustCompile(`^b:[0-9.E+-]+;`),
		'i': regexp.MustCompile(`^i:[0-9.E+-]+;`),
		'd': regexp.MustCompile(`^d:[0-9.E+-]+;`),
	}
	scalarStrict = map[byte]*regexp.Regexp{
		'b': regexp.MustCompile(`^b:[0-9.E+-]+;$`),
		'i': regexp.MustCompile(`^i:[0-9.E+-]+;$`),
		'd': regexp.MustCompile(`^d:[0-9.E+-]+;$`),
	}
)

// IsSerializedValue is IsSerialized for values of unknown type. Anything
// that is not a string is reported as not serialized.
func IsSerializedValue(v any, strict bool) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return IsSerialized(s, strict)
}

// IsSerialized reports whether data looks like a PHP serialize() value such
// as `s:5:"hello";`, `a:1:{...}`, `i:42;` or `N;`. Only the outer envelope is
// checked. Strict mode wants the terminator as the final byte, non-strict
// mode accepts trailing bytes after it.
func IsSerialized(data string, strict bool) bool {
	data = strings.TrimSpace(data)
	if data == "N;" {
		return true
	}
	if len(data) < 4 || data[1] != ':' {
		return false
	}
	if strict {
		last := data[len(data)-1]
		if last != ';' && last != '}' {
			return false
		}
	} else {
		semicolon := strings.IndexByte(data, ';')
		brace := strings.IndexByte(data, '}')
		if semicolon == -1 && brace == -1 {
			return false
		}
		// shortest payloads: "i:0;" and "a:0:{}"
		if semicolon != -1 && semicolon < 3 {
			return false
		}
		if brace != -1 && brace < 4 {
			return false
		}
	}
	token := data[0]
	switch token {
	case 's':
		if strict {
			if data[len(data)-2] != '"' {
				return false
			}
		} else if !strings.Contains(data, `"`) {
			return false
		}
		fallthrough
	case 'a', 'O', 'E':
		return countPrefix[token].MatchString(data)
	case 'b', 'i', 'd':
		if strict {
			return scalarStrict[token].MatchString(data)
		}
		return scalarLoose[token].MatchString(data)
	}
	return false
}
