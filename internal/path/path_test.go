package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentAccessors(t *testing.T) {
	idx := Index(3)
	i, ok := idx.Index()
	assert.True(t, ok)
	assert.Equal(t, 3, i)
	_, ok = idx.Key()
	assert.False(t, ok)

	key := Key("name")
	k, ok := key.Key()
	assert.True(t, ok)
	assert.Equal(t, "name", k)
	assert.False(t, key.IsIndex())
}

func TestPath_String(t *testing.T) {
	tests := []struct {
		name     string
		path     Path
		expected string
	}{
		{"root", Path{}, "$"},
		{"identifiers", Of("a", "b"), "$.a.b"},
		{"index", Of("b", 1), "$.b[1]"},
		{"quoted key", Of("first name", 0, "x-y"), `$["first name"][0]["x-y"]`},
		{"numeric key", Of("1"), `$["1"]`},
		{"dollar and underscore", Of("$ref", "_id"), "$.$ref._id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
		})
	}
}

func TestPath_Pointer(t *testing.T) {
	assert.Equal(t, "", Path{}.Pointer())
	assert.Equal(t, "/b/1", Of("b", 1).Pointer())
	assert.Equal(t, "/a~1b/c~0d", Of("a/b", "c~d").Pointer())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected Path
	}{
		{"$", Path{}},
		{"", Path{}},
		{"$.a", Of("a")},
		{".a.b", Of("a", "b")},
		{"$.b[1]", Of("b", 1)},
		{`$["first name"][0]`, Of("first name", 0)},
		{`$["with \"quote\" and ]"]`, Of(`with "quote" and ]`)},
		{"$[0][1].x", Of(0, 1, "x")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(p), "got %s", p)
		})
	}
}

func TestParse_RoundTripsString(t *testing.T) {
	for _, p := range []Path{Of("a", 0, "b c", "$x"), Of(`q"uote`), Of(7)} {
		parsed, err := Parse(p.String())
		require.NoError(t, err)
		assert.True(t, p.Equal(parsed), "%s -> %s", p, parsed)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"$..a", "$[", "$[-1]", "$[x]", `$["open`, `$["a"`, "$a", "$.a]"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestPath_ParentLastAppend(t *testing.T) {
	p := Of("a", 1, "b")

	last, ok := p.Last()
	require.True(t, ok)
	k, _ := last.Key()
	assert.Equal(t, "b", k)
	assert.Equal(t, "$.a[1]", p.Parent().String())

	// appending to a parent must not clobber the original
	sibling := p.Parent().Append(Key("c"))
	assert.Equal(t, "$.a[1].c", sibling.String())
	assert.Equal(t, "$.a[1].b", p.String())

	_, ok = Path{}.Last()
	assert.False(t, ok)
	assert.True(t, Path{}.Parent().IsRoot())
}
