// Package mutator replaces a single value inside a JSON document addressed by
// a path, optionally renaming the object key that holds it.
//
// The input tree is never modified. Every container along the path is copied
// and all other subtrees are shared with the input, so an edit either yields a
// complete new root or an error with nothing changed.
package mutator

import (
	"fmt"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/path"
)

// RenamePosition controls where a renamed member ends up in its object.
type RenamePosition string

const (
	// RenameAppend removes the old member and appends the new one at the end.
	RenameAppend RenamePosition = "end"
	// RenamePreserve keeps the renamed member at its original position.
	RenamePreserve RenamePosition = "preserve"
)

// Options configures a Mutator.
type Options struct {
	RenamePosition RenamePosition
}

// Edit describes one change: write Value at Path. NewKey, when set and the
// parent is an object, renames the terminal key. It is ignored for arrays.
type Edit struct {
	Path   path.Path
	Value  models.JSONValue
	NewKey *string
}

// Change records what an applied Edit did.
type Change struct {
	// Path is where the value lives after the edit.
	Path path.Path
	// OldPath is the path the edit was addressed to.
	OldPath    path.Path
	ParentKind models.Kind
	Renamed    bool
	OldKey     string
	NewKey     string
	Previous   models.JSONValue
	Value      models.JSONValue
}

// Mutator applies edits to JSON trees.
type Mutator struct {
	opts Options
}

// New creates a Mutator. An empty RenamePosition means RenameAppend.
func New(opts Options) *Mutator {
	if opts.RenamePosition == "" {
		opts.RenamePosition = RenameAppend
	}
	return &Mutator{opts: opts}
}

var defaultMutator = New(Options{})

// Mutate replaces the value at p with value.
func Mutate(root models.JSONValue, p path.Path, value models.JSONValue) (models.JSONValue, error) {
	out, _, err := defaultMutator.Apply(root, Edit{Path: p, Value: value})
	return out, err
}

// MutateKey replaces the value at p and renames its key to newKey when the
// parent is an object.
func MutateKey(root models.JSONValue, p path.Path, value models.JSONValue, newKey string) (models.JSONValue, error) {
	out, _, err := defaultMutator.Apply(root, Edit{Path: p, Value: value, NewKey: &newKey})
	return out, err
}

// Apply performs e on root and returns the new root.
func (m *Mutator) Apply(root models.JSONValue, e Edit) (models.JSONValue, Change, error) {
	if len(e.Path) == 0 {
		return nil, Change{}, &errors.PathError{
			Path:    e.Path.String(),
			Segment: "$",
			Reason:  "path is empty, the document root cannot be replaced",
		}
	}

	ch := Change{OldPath: e.Path, Path: e.Path, Value: e.Value}
	out, err := m.rewrite(root, e, 0, &ch)
	if err != nil {
		return nil, Change{}, err
	}
	return out, ch, nil
}

func (m *Mutator) rewrite(node models.JSONValue, e Edit, depth int, ch *Change) (models.JSONValue, error) {
	if depth == len(e.Path)-1 {
		return m.replaceTerminal(node, e, ch)
	}

	seg := e.Path[depth]
	child, err := descend(node, e.Path, depth)
	if err != nil {
		return nil, err
	}
	newChild, err := m.rewrite(child, e, depth+1, ch)
	if err != nil {
		return nil, err
	}

	switch container := node.(type) {
	case models.JSONArray:
		i, _ := seg.Index()
		out := make(models.JSONArray, len(container))
		copy(out, container)
		out[i] = newChild
		return out, nil
	default:
		k, _ := seg.Key()
		return node.(models.JSONObject).With(k, newChild), nil
	}
}

func (m *Mutator) replaceTerminal(parent models.JSONValue, e Edit, ch *Change) (models.JSONValue, error) {
	depth := len(e.Path) - 1
	if _, err := descend(parent, e.Path, depth); err != nil {
		return nil, err
	}
	seg := e.Path[depth]
	ch.ParentKind = models.KindOf(parent)

	if arr, ok := parent.(models.JSONArray); ok {
		i, _ := seg.Index()
		ch.Previous = arr[i]
		out := make(models.JSONArray, len(arr))
		copy(out, arr)
		out[i] = e.Value
		return out, nil
	}

	obj := parent.(models.JSONObject)
	key, _ := seg.Key()
	ch.OldKey, ch.NewKey = key, key
	ch.Previous, _ = obj.Get(key)

	if e.NewKey == nil || *e.NewKey == key {
		return obj.With(key, e.Value), nil
	}

	newKey := *e.NewKey
	ch.Renamed = true
	ch.NewKey = newKey
	ch.Path = e.Path.Parent().Append(path.Key(newKey))

	if m.opts.RenamePosition == RenamePreserve {
		out := make(models.JSONObject, 0, len(obj))
		for _, member := range obj {
			switch member.Key {
			case key:
				out = append(out, models.Member{Key: newKey, Value: e.Value})
			case newKey:
				// overwritten by the renamed member
			default:
				out = append(out, member)
			}
		}
		return out, nil
	}

	// An existing member under newKey keeps its slot; otherwise the renamed
	// member goes to the end.
	return obj.Without(key).With(newKey, e.Value), nil
}

// descend resolves e.Path[depth] against node and returns the child.
func descend(node models.JSONValue, p path.Path, depth int) (models.JSONValue, error) {
	seg := p[depth]
	fail := func(expected, reason string) error {
		pe := &errors.PathError{
			Path:     p.String(),
			Position: depth,
			Segment:  seg.String(),
			Reason:   reason,
		}
		if expected != "" {
			pe.Expected = expected
			pe.Found = models.KindOf(node).String()
		}
		return pe
	}

	if i, ok := seg.Index(); ok {
		arr, isArr := node.(models.JSONArray)
		if !isArr {
			return nil, fail(models.KindArray.String(), "")
		}
		if i < 0 || i >= len(arr) {
			return nil, fail("", fmt.Sprintf("index %d out of range (length %d)", i, len(arr)))
		}
		return arr[i], nil
	}

	k, _ := seg.Key()
	obj, isObj := node.(models.JSONObject)
	if !isObj {
		return nil, fail(models.KindObject.String(), "")
	}
	v, found := obj.Get(k)
	if !found {
		return nil, fail("", fmt.Sprintf("key %q not found", k))
	}
	return v, nil
}

// Lookup returns the value at p. The errors match those of Apply.
func Lookup(root models.JSONValue, p path.Path) (models.JSONValue, error) {
	v := root
	for depth := range p {
		next, err := descend(v, p, depth)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}
