package oracle

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// extractObject pulls a JSON object out of free model text that may carry
// markdown fencing, surrounding prose or minor syntax damage. Strategy:
// outermost balanced-brace span first, then the substring between the first
// '{' and the last '}', each retried with trailing commas stripped.
func extractObject(text string, out any) bool {
	text = stripFences(text)

	if span, ok := balancedSpan(text); ok && tryUnmarshal(span, out) {
		return true
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		return tryUnmarshal(text[start:end+1], out)
	}
	return false
}

func tryUnmarshal(candidate string, out any) bool {
	if json.Unmarshal([]byte(candidate), out) == nil {
		return true
	}
	repaired := trailingCommaRe.ReplaceAllString(candidate, "$1")
	return json.Unmarshal([]byte(repaired), out) == nil
}

// balancedSpan returns the first top-level {...} span, tracking strings and
// escapes so braces inside values do not break the depth count.
func balancedSpan(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
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
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

func stripFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
