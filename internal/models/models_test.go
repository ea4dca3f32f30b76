package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		value    JSONValue
		expected string
	}{
		{nil, "null"},
		{true, "boolean"},
		{json.Number("1.5"), "number"},
		{"x", "string"},
		{JSONArray{}, "array"},
		{JSONObject{}, "object"},
		{3.14, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.value).String())
		})
	}
	assert.True(t, IsContainer(JSONArray{}))
	assert.False(t, IsContainer("x"))
}

func TestJSONObject_WithKeepsPosition(t *testing.T) {
	obj := JSONObject{{Key: "a", Value: json.Number("1")}, {Key: "b", Value: "x"}}

	replaced := obj.With("a", json.Number("2"))
	assert.Equal(t, []string{"a", "b"}, replaced.Keys())
	v, ok := replaced.Get("a")
	require.True(t, ok)
	assert.Equal(t, json.Number("2"), v)

	// the receiver is untouched
	v, _ = obj.Get("a")
	assert.Equal(t, json.Number("1"), v)

	appended := obj.With("c", nil)
	assert.Equal(t, []string{"a", "b", "c"}, appended.Keys())
	assert.Len(t, obj, 2)
}

func TestJSONObject_Without(t *testing.T) {
	obj := JSONObject{{Key: "a", Value: nil}, {Key: "b", Value: nil}, {Key: "c", Value: nil}}

	assert.Equal(t, []string{"a", "c"}, obj.Without("b").Keys())
	assert.Equal(t, []string{"a", "b", "c"}, obj.Without("zzz").Keys())
	assert.Equal(t, -1, obj.Without("b").IndexOf("b"))
}

func TestCloneIsDeep(t *testing.T) {
	orig := JSONObject{{Key: "list", Value: JSONArray{json.Number("1"), JSONObject{{Key: "k", Value: "v"}}}}}

	cp := Clone(orig).(JSONObject)
	list := cp[0].Value.(JSONArray)
	list[0] = json.Number("99")
	list[1].(JSONObject)[0].Value = "changed"

	assert.True(t, Equal(orig, JSONObject{{Key: "list", Value: JSONArray{json.Number("1"), JSONObject{{Key: "k", Value: "v"}}}}}))
	assert.False(t, Equal(orig, cp))
}

func TestEqual(t *testing.T) {
	a := JSONObject{{Key: "x", Value: json.Number("1")}, {Key: "y", Value: JSONArray{true, nil}}}
	b := JSONObject{{Key: "x", Value: json.Number("1")}, {Key: "y", Value: JSONArray{true, nil}}}
	reordered := JSONObject{{Key: "y", Value: JSONArray{true, nil}}, {Key: "x", Value: json.Number("1")}}

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, reordered))
	assert.False(t, Equal(json.Number("1"), "1"))
	assert.False(t, Equal(json.Number("1"), json.Number("1.0")))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(map[string]interface{}{}, map[string]interface{}{}))
}

func TestMarshalJSONPreservesOrder(t *testing.T) {
	obj := JSONObject{
		{Key: "zeta", Value: json.Number("1")},
		{Key: "alpha", Value: "<b>&</b>"},
		{Key: "list", Value: JSONArray{json.Number("2.50"), nil, false, JSONObject{}}},
	}

	out, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"<b>&</b>","list":[2.50,null,false,{}]}`, string(out))
}
