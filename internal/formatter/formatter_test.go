package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_JSONIndent(t *testing.T) {
	value := models.JSONObject{
		{Key: "b", Value: json.Number("1")},
		{Key: "a", Value: models.JSONArray{json.Number("1"), "<x>"}},
		{Key: "e", Value: models.JSONObject{}},
	}

	formatted, err := NewFormatter().Format(value)
	require.NoError(t, err)

	expectedOutput := `{
  "b": 1,
  "a": [
    1,
    "<x>"
  ],
  "e": {}
}
`
	assert.Equal(t, expectedOutput, formatted)
}

func TestFormat_JSONCompactAndWide(t *testing.T) {
	value := models.JSONObject{{Key: "k", Value: models.JSONArray{true, nil}}}

	compact, err := NewFormatterWith(FormatJSON, 0)
	require.NoError(t, err)
	out, err := compact.Format(value)
	require.NoError(t, err)
	assert.Equal(t, "{\"k\":[true,null]}\n", out)

	wide, err := NewFormatterWith(FormatJSON, 4)
	require.NoError(t, err)
	out, err = wide.Format(value)
	require.NoError(t, err)
	assert.Contains(t, out, "\n    \"k\": [\n        true,")
}

func TestFormat_RoundTripsThroughParser(t *testing.T) {
	input := `{"zeta":{"y":[1,2.50,{"q":null}],"x":"s"},"alpha":false}`
	ir, err := parser.ParseString(input)
	require.NoError(t, err)

	out, err := NewFormatter().Format(ir.Root)
	require.NoError(t, err)

	again, err := parser.ParseString(out)
	require.NoError(t, err)
	assert.True(t, models.Equal(ir.Root, again.Root))
	assert.Less(t, strings.Index(out, "zeta"), strings.Index(out, "alpha"))
}

func TestFormat_YAMLKeepsOrder(t *testing.T) {
	ir, err := parser.ParseString(`{"name": "root", "count": 2, "ratio": 0.5, "tags": ["a", "b"], "nested": {"z": 1, "a": 2}}`)
	require.NoError(t, err)

	f, err := NewFormatterWith(FormatYAML, 2)
	require.NoError(t, err)
	out, err := f.Format(ir.Root)
	require.NoError(t, err)

	assert.Contains(t, out, "name: root")
	assert.Contains(t, out, "count: 2")
	assert.Contains(t, out, "ratio: 0.5")
	assert.Contains(t, out, "- a")
	order := []string{"name:", "count:", "ratio:", "tags:", "nested:", "z: 1", "a: 2"}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		require.GreaterOrEqual(t, idx, 0, "missing %s in\n%s", key, out)
		assert.Greater(t, idx, last, "%s out of order in\n%s", key, out)
		last = idx
	}
}

func TestFormat_YAMLKeepsNumberText(t *testing.T) {
	ir, err := parser.ParseString(`{"price": 1.50, "big": 12345678901234567890, "n": -3, "list": [0.10]}`)
	require.NoError(t, err)

	f, err := NewFormatterWith(FormatYAML, 2)
	require.NoError(t, err)
	out, err := f.Format(ir.Root)
	require.NoError(t, err)

	assert.Contains(t, out, "price: 1.50")
	assert.Contains(t, out, "big: 12345678901234567890")
	assert.Contains(t, out, "n: -3")
	assert.Contains(t, out, "- 0.10")
}

func TestNewFormatterWith_Errors(t *testing.T) {
	_, err := NewFormatterWith("toml", 2)
	assert.Error(t, err)

	_, err = NewFormatterWith(FormatJSON, -1)
	assert.Error(t, err)

	f, err := NewFormatterWith("", 2)
	require.NoError(t, err)
	out, err := f.Format("x")
	require.NoError(t, err)
	assert.Equal(t, "\"x\"\n", out)
}

func TestDiff(t *testing.T) {
	before := "{\n  \"a\": 1,\n  \"b\": 2\n}\n"
	after := "{\n  \"a\": 1,\n  \"b\": 3\n}\n"

	diff, err := Diff(before, after, "before.json", "after.json")
	require.NoError(t, err)
	assert.Contains(t, diff, "--- before.json")
	assert.Contains(t, diff, "+++ after.json")
	assert.Contains(t, diff, "-  \"b\": 2")
	assert.Contains(t, diff, "+  \"b\": 3")

	same, err := Diff(before, before, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, same)
}
