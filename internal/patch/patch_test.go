package patch

import (
	"encoding/json"
	"testing"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/mutator"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPatchMatchesMutator(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		edit mutator.Edit
	}{
		{
			name: "replace nested value",
			doc:  `{"user":{"name":"Ann","age":30}}`,
			edit: mutator.Edit{Path: path.Of("user", "age"), Value: json.Number("31")},
		},
		{
			name: "replace array element",
			doc:  `{"tags":["a","b","c"]}`,
			edit: mutator.Edit{Path: path.Of("tags", 1), Value: "B"},
		},
		{
			name: "rename key",
			doc:  `{"a":1,"b":2}`,
			edit: mutator.Edit{Path: path.Of("a"), Value: json.Number("5"), NewKey: strPtr("c")},
		},
		{
			name: "key with pointer characters",
			doc:  `{"a/b":{"c~d":true}}`,
			edit: mutator.Edit{Path: path.Of("a/b", "c~d"), Value: nil},
		},
		{
			name: "top level array",
			doc:  `[1,{"x":"y"}]`,
			edit: mutator.Edit{Path: path.Of(1, "x"), Value: "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, err := parser.ParseString(tt.doc)
			require.NoError(t, err)

			root, change, err := mutator.New(mutator.Options{}).Apply(ir.Root, tt.edit)
			require.NoError(t, err)

			p, err := FromChange(change)
			require.NoError(t, err)

			patched, err := Apply([]byte(tt.doc), p, 0)
			require.NoError(t, err)

			want, err := json.Marshal(root)
			require.NoError(t, err)
			assert.True(t, Equal(want, patched), "patched %s, mutator %s", patched, want)
		})
	}
}

func TestOperations(t *testing.T) {
	change := mutator.Change{
		Path:     path.Of("b"),
		OldPath:  path.Of("a"),
		Renamed:  true,
		Previous: json.Number("1"),
		Value:    "x",
	}

	raw, err := Encode(change)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"op":"test","path":"/a","value":1},{"op":"remove","path":"/a"},{"op":"add","path":"/b","value":"x"}]`,
		string(raw))

	ops := Operations(mutator.Change{Path: path.Of(0), OldPath: path.Of(0), Previous: true, Value: false})
	require.Len(t, ops, 2)
	assert.Equal(t, "replace", ops[1].(models.JSONObject)[0].Value)
}

func TestApplyStaleDocument(t *testing.T) {
	p, err := Decode([]byte(`[{"op":"test","path":"/a","value":1},{"op":"replace","path":"/a","value":2}]`))
	require.NoError(t, err)

	_, err = Apply([]byte(`{"a":3}`), p, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypePath})
}

func TestApplyIndent(t *testing.T) {
	p, err := Decode([]byte(`[{"op":"replace","path":"/a","value":2}]`))
	require.NoError(t, err)

	out, err := Apply([]byte(`{"a":1}`), p, 2)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"a\": 2")
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte(`{"op":`))
	require.Error(t, err)
	assert.True(t, errors.IsSerialization(err))
}
