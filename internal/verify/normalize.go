package verify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// extractor is one strategy for pulling a JSON object out of model text.
type extractor struct {
	name string
	fn   func(text string) (map[string]any, bool)
}

// extractors run in order; the first success wins.
var extractors = []extractor{
	{name: "direct", fn: extractDirect},
	{name: "fenced", fn: extractFenced},
	{name: "braces", fn: extractBraces},
}

var fencePattern = regexp.MustCompile("(?s)```[\\w+-]*[ \\t]*\\r?\\n?(.*?)```")

// Normalize extracts the structured payload from raw classifier output.
// It tries a direct parse, then fenced code blocks, then the first balanced
// brace-delimited object, and fails with a ParseError if none decode.
func Normalize(raw string) (map[string]any, error) {
	obj, _, err := normalize(raw)
	return obj, err
}

func normalize(raw string) (map[string]any, string, error) {
	for _, ex := range extractors {
		if obj, ok := ex.fn(raw); ok {
			return obj, ex.name, nil
		}
	}
	return nil, "", &ParseError{Reason: "no valid structured data found"}
}

func decodeObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func extractDirect(text string) (map[string]any, bool) {
	return decodeObject(text)
}

func extractFenced(text string) (map[string]any, bool) {
	for _, match := range fencePattern.FindAllStringSubmatch(text, -1) {
		if obj, ok := decodeObject(match[1]); ok {
			return obj, true
		}
	}
	return nil, false
}

// extractBraces tries each '{' in turn, cutting at its balanced closing brace.
// Braces inside JSON strings are ignored while balancing.
func extractBraces(text string) (map[string]any, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchingBrace(text, start); end > start {
			if obj, ok := decodeObject(text[start : end+1]); ok {
				return obj, true
			}
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// matchingBrace returns the index of the brace closing text[start], or -1.
func matchingBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
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

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
