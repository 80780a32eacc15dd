package integration

import (
	"encoding/json"
	"math"
	"strings"

	"biometric-session-analyzer/src/types"
)

// ExtractJSON returns the first balanced {...} span of text that parses as a
// JSON object. Braces inside string literals are ignored.
func ExtractJSON(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchBrace(text, start); end > 0 {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
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

func parseDocument(response string) (map[string]interface{}, error) {
	raw, ok := ExtractJSON(response)
	if !ok {
		return nil, &ResponseError{Reason: "no JSON object found", Response: response}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ResponseError{Reason: "malformed JSON object", Response: response, Err: err}
	}
	return doc, nil
}

// Sanitize removes values a document store cannot represent. Map keys holding
// NaN or an infinity are dropped, the same values inside arrays become nil,
// and nil itself is kept.
func Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			if !representable(item) {
				continue
			}
			out[k] = Sanitize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			if representable(item) {
				out[i] = Sanitize(item)
			}
		}
		return out
	default:
		return v
	}
}

func representable(v interface{}) bool {
	f, ok := v.(float64)
	if !ok {
		return true
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// decodeResult turns a corrected, sanitized document into a result and checks
// the narrative fields are present.
func decodeResult(doc map[string]interface{}) (types.IntegratedResult, error) {
	var result types.IntegratedResult

	raw, err := json.Marshal(doc)
	if err != nil {
		return result, &ResponseError{Reason: "document not serializable", Err: err}
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, &ResponseError{Reason: "document does not match result shape", Response: string(raw), Err: err}
	}

	var missing []string
	if strings.TrimSpace(result.Summary) == "" {
		missing = append(missing, "summary")
	}
	if len(result.KeyFindings) == 0 {
		missing = append(missing, "keyFindings")
	}
	if len(result.Recommendations) == 0 {
		missing = append(missing, "recommendations")
	}
	plan := result.ImprovementPlan
	if len(plan.Immediate)+len(plan.ShortTerm)+len(plan.LongTerm) == 0 {
		missing = append(missing, "improvementPlan")
	}
	if len(missing) > 0 {
		return result, &ResponseError{Reason: "missing or empty " + strings.Join(missing, ", "), Response: string(raw)}
	}
	return result, nil
}
