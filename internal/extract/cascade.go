package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// The model reliably produces JSON-like text but not reliably parseable
// JSON: fenced blocks, surrounding prose, minor syntax slips. The cascade
// recovers most of these locally instead of burning another round-trip.
// Strategies run in order; first success wins.
func RecoverJSON(raw string) (json.RawMessage, error) {
	var lastErr error
	for _, strat := range []func(string) (json.RawMessage, error){
		parseStripped,
		parseBraceSlice,
		parseRepaired,
		parseBalancedScan,
	} {
		obj, err := strat(raw)
		if err == nil {
			return obj, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// tryObject parses text and requires the result to be a JSON object.
func tryObject(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// stripFences removes leading/trailing markdown code-fence markers.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.Trim(s, "`")
	return strings.TrimSpace(s)
}

// Strategy a: strip fences and parse directly.
func parseStripped(raw string) (json.RawMessage, error) {
	return tryObject(stripFences(raw))
}

// Strategy b: parse the substring between the first '{' and the last '}'.
// Handles prose before or after the object.
func parseBraceSlice(raw string) (json.RawMessage, error) {
	s := stripFences(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object delimiters found")
	}
	return tryObject(s[start : end+1])
}

// Strategy c: targeted repairs for common malformed-JSON patterns, then retry.
func parseRepaired(raw string) (json.RawMessage, error) {
	s := stripFences(raw)
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}
	s = escapeRawNewlines(s)
	s = requoteSingleQuotes(s)
	s = dropTrailingCommas(s)
	return tryObject(s)
}

var (
	trailingCommaRe  = regexp.MustCompile(`,\s*([}\]])`)
	singleQuoteKeyRe = regexp.MustCompile(`'([^'\\]*)'(\s*:)`)
	singleQuoteValRe = regexp.MustCompile(`(:\s*)'([^'\\]*)'`)
)

func dropTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func requoteSingleQuotes(s string) string {
	s = singleQuoteKeyRe.ReplaceAllString(s, `"$1"$2`)
	return singleQuoteValRe.ReplaceAllString(s, `$1"$2"`)
}

// escapeRawNewlines escapes literal control characters inside double-quoted
// string values, the most frequent slip in multi-line content fields.
func escapeRawNewlines(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r == '\n':
				b.WriteString(`\n`)
				continue
			case r == '\r':
				b.WriteString(`\r`)
				continue
			case r == '\t':
				b.WriteString(`\t`)
				continue
			}
		} else if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Strategy d: brace-balanced scan over the unfenced text. Collects every
// balanced {...} candidate and tries the longest first, on the heuristic
// that the most complete object is most likely the right one.
func parseBalancedScan(raw string) (json.RawMessage, error) {
	s := stripFences(raw)
	candidates := balancedObjects(s)
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })

	var lastErr error = fmt.Errorf("no balanced JSON object candidates found")
	for _, cand := range candidates {
		obj, err := tryObject(cand)
		if err == nil {
			return obj, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// balancedObjects collects every {...} substring with balanced braces,
// starting a scan at each opening brace so a complete inner object is found
// even when an outer brace never closes.
func balancedObjects(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		if end := balancedEnd(s, i); end > i {
			out = append(out, s[i:end+1])
		}
	}
	return out
}

// balancedEnd returns the index of the brace closing the object opened at
// start, or -1 if it never closes. Braces inside string values are skipped.
func balancedEnd(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
