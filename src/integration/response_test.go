package integration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"surrounded by prose", "Sure!\n{\"a\":{\"b\":2}}\nThanks", `{"a":{"b":2}}`, true},
		{"braces inside strings", `x {"s":"} {","n":1} y`, `{"s":"} {","n":1}`, true},
		{"escaped quote in string", `{"s":"say \"}\" now"}`, `{"s":"say \"}\" now"}`, true},
		{"first object wins", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"skips malformed candidate", `{not json} {"ok":true}`, `{"ok":true}`, true},
		{"markdown fence", "```json\n{\"a\":[1,2]}\n```", `{"a":[1,2]}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no object", "no json here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeDropsUnrepresentableValues(t *testing.T) {
	doc := map[string]interface{}{
		"score":  math.NaN(),
		"keep":   1.5,
		"absent": nil,
		"nested": map[string]interface{}{
			"inf":  math.Inf(1),
			"text": "ok",
		},
		"list": []interface{}{1.0, math.Inf(-1), map[string]interface{}{"x": math.NaN(), "y": 2.0}},
	}

	out, ok := Sanitize(doc).(map[string]interface{})
	require.True(t, ok)

	assert.NotContains(t, out, "score")
	assert.Equal(t, 1.5, out["keep"])
	assert.Contains(t, out, "absent")
	assert.Nil(t, out["absent"])
	assert.Equal(t, map[string]interface{}{"text": "ok"}, out["nested"])
	assert.Equal(t, []interface{}{1.0, nil, map[string]interface{}{"y": 2.0}}, out["list"])

	assert.True(t, math.IsNaN(doc["score"].(float64)), "input must not be modified")
}

func TestParseDocumentErrors(t *testing.T) {
	_, err := parseDocument("nothing")
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "nothing", respErr.Response)
}
