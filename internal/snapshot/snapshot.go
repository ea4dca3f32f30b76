// Package snapshot builds the row view of one graph node: the scalar fields
// of an element plus the path that leads to it.
package snapshot

import (
	"fmt"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/mutator"
	"github.com/mcncl/jsonedit/internal/path"
)

// Row is one line of a node: a labeled scalar member of an object, or the
// single unlabeled value of any other element.
type Row struct {
	Key     string
	Labeled bool
	Value   models.JSONValue
	Type    string
}

// Snapshot is the view of a selected element. It is never edited in place;
// an edit produces a new one.
type Snapshot struct {
	Path path.Path
	Rows []Row
}

// Build returns the snapshot of the element at p.
func Build(root models.JSONValue, p path.Path) (Snapshot, error) {
	v, err := mutator.Lookup(root, p)
	if err != nil {
		return Snapshot{}, err
	}
	return FromValue(p, v), nil
}

// FromValue builds the snapshot of v, which lives at p.
func FromValue(p path.Path, v models.JSONValue) Snapshot {
	s := Snapshot{Path: p}

	if obj, ok := v.(models.JSONObject); ok {
		for _, m := range obj {
			if models.IsContainer(m.Value) {
				continue
			}
			s.Rows = append(s.Rows, Row{
				Key:     m.Key,
				Labeled: true,
				Value:   m.Value,
				Type:    models.KindOf(m.Value).String(),
			})
		}
		if len(s.Rows) > 0 {
			return s
		}
	}

	s.Rows = []Row{{Value: v, Type: models.KindOf(v).String()}}
	return s
}

// Editable reports whether the node holds scalars. Nodes whose first row is an
// object or array cannot be edited.
func (s Snapshot) Editable() bool {
	if len(s.Rows) == 0 {
		return false
	}
	t := s.Rows[0].Type
	return t != models.KindObject.String() && t != models.KindArray.String()
}

// FieldPath returns the document path of row i.
func (s Snapshot) FieldPath(i int) (path.Path, error) {
	if i < 0 || i >= len(s.Rows) {
		return nil, fmt.Errorf("row %d out of range (%d rows)", i, len(s.Rows))
	}
	if s.Rows[i].Labeled {
		return s.Path.Append(path.Key(s.Rows[i].Key)), nil
	}
	return s.Path, nil
}

// RowIndex returns the row labeled key, or -1.
func (s Snapshot) RowIndex(key string) int {
	for i, r := range s.Rows {
		if r.Labeled && r.Key == key {
			return i
		}
	}
	return -1
}

// Normalized is the value shown by the inspector.
func (s Snapshot) Normalized() models.JSONValue {
	if len(s.Rows) == 1 && !s.Rows[0].Labeled {
		return s.Rows[0].Value
	}
	obj := make(models.JSONObject, 0, len(s.Rows))
	for _, r := range s.Rows {
		obj = append(obj, models.Member{Key: r.Key, Value: r.Value})
	}
	return obj
}

// JSONPath renders the node path, e.g. $.users[0].
func (s Snapshot) JSONPath() string {
	return s.Path.String()
}

// ForField finds the node and row that display the scalar at p. A member of
// an object is a row of the object's node; an array element is a node of
// its own.
func ForField(root models.JSONValue, p path.Path) (Snapshot, int, error) {
	last, ok := p.Last()
	if !ok {
		return Snapshot{}, -1, &errors.PathError{Path: p.String(), Segment: "$", Reason: "the document root is not a field"}
	}
	v, err := mutator.Lookup(root, p)
	if err != nil {
		return Snapshot{}, -1, err
	}
	if models.IsContainer(v) {
		return Snapshot{}, -1, fmt.Errorf("%s holds %s: %w", p, models.KindOf(v), errors.ErrNotEditable)
	}

	if key, isKey := last.Key(); isKey {
		parent, err := Build(root, p.Parent())
		if err != nil {
			return Snapshot{}, -1, err
		}
		return parent, parent.RowIndex(key), nil
	}
	return FromValue(p, v), 0, nil
}
