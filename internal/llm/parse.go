package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Layered parsing of LLM responses that were asked for strict JSON but may
// come back wrapped in prose, fenced, or mangled. Callers chain these
// helpers in order and fall through to a deterministic default; the same
// chain backs the intent classifier and the relevance filter.

var intPattern = regexp.MustCompile(`\b(\d+)\b`)

// DecodeObject extracts the outermost JSON object from a response and
// unmarshals it into v. It tolerates surrounding prose by slicing from the
// first '{' to the last '}'.
func DecodeObject(response string, v any) bool {
	s := strings.TrimSpace(response)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return json.Unmarshal([]byte(s), v) == nil
}

// ExtractKeyedObject finds a small JSON object containing the given key
// anywhere in the response and unmarshals it into v. Used when the response
// embeds the object mid-sentence alongside other braces.
func ExtractKeyedObject(response, key string, v any) bool {
	pattern, err := regexp.Compile(`\{[^{}]*"` + regexp.QuoteMeta(key) + `"[^{}]*\}`)
	if err != nil {
		return false
	}
	match := pattern.FindString(response)
	if match == "" {
		return false
	}
	return json.Unmarshal([]byte(match), v) == nil
}

// ExtractInts pulls bare integers out of a response, keeping only values in
// [min, max] and at most limit of them. The last resort before giving up on
// a numeric selection response.
func ExtractInts(response string, min, max, limit int) []int {
	var out []int
	for _, m := range intPattern.FindAllString(response, -1) {
		n, err := strconv.Atoi(m)
		if err != nil || n < min || n > max {
			continue
		}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out
}

// CleanResponse strips markdown code fences and surrounding whitespace from
// a response before parsing.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
