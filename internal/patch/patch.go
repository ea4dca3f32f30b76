// Package patch expresses edits as RFC 6902 JSON Patch documents and applies
// such documents to JSON text.
package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/mutator"
)

// Operations returns the patch operations equivalent to c. The first
// operation tests the previous value so the patch refuses to apply to a
// document that has changed since.
func Operations(c mutator.Change) models.JSONArray {
	op := func(name, ptr string, value models.JSONValue, withValue bool) models.JSONObject {
		o := models.JSONObject{{Key: "op", Value: name}, {Key: "path", Value: ptr}}
		if withValue {
			o = append(o, models.Member{Key: "value", Value: value})
		}
		return o
	}

	ops := models.JSONArray{op("test", c.OldPath.Pointer(), c.Previous, true)}
	if c.Renamed {
		return append(ops,
			op("remove", c.OldPath.Pointer(), nil, false),
			op("add", c.Path.Pointer(), c.Value, true),
		)
	}
	return append(ops, op("replace", c.Path.Pointer(), c.Value, true))
}

// Encode renders the operations for c as JSON text.
func Encode(c mutator.Change) ([]byte, error) {
	out, err := json.Marshal(Operations(c))
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch: %w", err)
	}
	return out, nil
}

// FromChange builds an applicable patch from c.
func FromChange(c mutator.Change) (jsonpatch.Patch, error) {
	raw, err := Encode(c)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Decode parses a JSON Patch document.
func Decode(data []byte) (jsonpatch.Patch, error) {
	p, err := jsonpatch.DecodePatch(data)
	if err != nil {
		return nil, errors.NewSerializationError("invalid JSON patch", err)
	}
	return p, nil
}

// Apply applies p to doc and returns the patched document.
func Apply(doc []byte, p jsonpatch.Patch, indent int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if indent > 0 {
		out, err = p.ApplyIndent(doc, fmt.Sprintf("%*s", indent, ""))
	} else {
		out, err = p.Apply(doc)
	}
	if err != nil {
		return nil, errors.NewPathError("patch does not apply", err)
	}
	return out, nil
}

// Equal reports whether two JSON documents are semantically equal.
func Equal(a, b []byte) bool {
	return jsonpatch.Equal(a, b)
}
