// Package editor drives the inspect/edit cycle for one selected node.
//
// A Session moves between Closed, Inspecting, Editing and Saving. Saving a
// field coerces the input, rewrites the document text through the mutator and
// publishes the new text and snapshot to the collaborators. A failed save
// leaves every collaborator untouched and returns the session to Editing.
package editor

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsonedit/internal/coerce"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/keyname"
	"github.com/mcncl/jsonedit/internal/logging"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/mutator"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/patch"
	"github.com/mcncl/jsonedit/internal/snapshot"
)

// Dialog names passed to the VisibilityController.
const (
	DialogNode = "node"
	DialogEdit = "edit"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// current state.
var ErrInvalidTransition = stderrors.New("invalid editor transition")

// State is the phase of a Session.
type State int

const (
	Closed State = iota
	Inspecting
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Inspecting:
		return "inspecting"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var transitions = map[State][]State{
	Closed:     {Inspecting},
	Inspecting: {Inspecting, Editing, Closed},
	Editing:    {Saving, Inspecting, Closed},
	Saving:     {Inspecting, Editing},
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DocumentStore holds the document text.
type DocumentStore interface {
	Text() string
	SetText(text string, dirty bool)
}

// SelectionStore holds the selected node.
type SelectionStore interface {
	Selected() (snapshot.Snapshot, bool)
	SetSelected(snap snapshot.Snapshot)
}

// VisibilityController shows and hides dialogs.
type VisibilityController interface {
	SetVisible(dialog string, visible bool)
}

// Options configures a Session. Zero values select the defaults: appending
// renames, lenient coercion, two-space JSON and no logging.
type Options struct {
	Mutator   *mutator.Mutator
	Coercer   coerce.Coercer
	Formatter *formatter.Formatter
	Logger    *log.Logger
}

// SaveRequest is the user's input for the field being edited. Key is the
// proposed name and is ignored for unlabeled rows. An empty Type keeps the
// field's current type.
type SaveRequest struct {
	Key   string
	Value interface{}
	Type  coerce.Type
}

// Result describes a successful save.
type Result struct {
	Root     models.JSONValue
	Text     string
	Snapshot snapshot.Snapshot
	Change   mutator.Change
	Patch    []byte
}

// Observer is called after every state change.
type Observer func(from, to State)

// Session is the editor for one document.
type Session struct {
	doc DocumentStore
	sel SelectionStore
	vis VisibilityController

	mutator   *mutator.Mutator
	coercer   coerce.Coercer
	formatter *formatter.Formatter
	logger    *log.Logger

	mu        sync.Mutex
	state     State
	snap      snapshot.Snapshot
	row       int
	lastErr   error
	observers []Observer
	pending   [][2]State
}

// NewSession creates a closed session working against the given collaborators.
func NewSession(doc DocumentStore, sel SelectionStore, vis VisibilityController, opts Options) *Session {
	s := &Session{
		doc:       doc,
		sel:       sel,
		vis:       vis,
		mutator:   opts.Mutator,
		coercer:   opts.Coercer,
		formatter: opts.Formatter,
		logger:    opts.Logger,
		row:       -1,
	}
	if s.mutator == nil {
		s.mutator = mutator.New(mutator.Options{})
	}
	if s.formatter == nil {
		s.formatter = formatter.NewFormatter()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// OnTransition registers fn to be called after each state change. Observers
// run outside the session lock and may call back into the session.
func (s *Session) OnTransition(fn Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the most recent failed save, or nil once a
// save succeeds or the session is reopened.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Snapshot returns the node the session shows.
func (s *Session) Snapshot() snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Row returns the row being edited, or -1.
func (s *Session) Row() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row
}

// Open shows snap in the node dialog.
func (s *Session) Open(snap snapshot.Snapshot) error {
	return s.do(func() error {
		if s.state != Closed && s.state != Inspecting {
			return s.invalid(Inspecting)
		}
		if err := s.transition(Inspecting); err != nil {
			return err
		}
		s.snap = snap
		s.row = -1
		s.lastErr = nil
		s.sel.SetSelected(snap)
		s.vis.SetVisible(DialogEdit, false)
		s.vis.SetVisible(DialogNode, true)
		return nil
	})
}

// BeginEdit opens the edit dialog for row of the current node.
func (s *Session) BeginEdit(row int) error {
	return s.do(func() error {
		if !allowed(s.state, Editing) {
			return s.invalid(Editing)
		}
		if !s.snap.Editable() {
			return fmt.Errorf("%s: %w", s.snap.JSONPath(), errors.ErrNotEditable)
		}
		if row < 0 || row >= len(s.snap.Rows) {
			return errors.NewValidationError(fmt.Sprintf("Row %d does not exist", row))
		}
		if err := s.transition(Editing); err != nil {
			return err
		}
		s.row = row
		s.vis.SetVisible(DialogNode, false)
		s.vis.SetVisible(DialogEdit, true)
		return nil
	})
}

// Cancel abandons the edit and returns to the node dialog.
func (s *Session) Cancel() error {
	return s.do(func() error {
		if s.state != Editing {
			return s.invalid(Inspecting)
		}
		if err := s.transition(Inspecting); err != nil {
			return err
		}
		s.row = -1
		s.vis.SetVisible(DialogEdit, false)
		s.vis.SetVisible(DialogNode, true)
		return nil
	})
}

// Close hides both dialogs.
func (s *Session) Close() error {
	return s.do(func() error {
		if err := s.transition(Closed); err != nil {
			return err
		}
		s.row = -1
		s.vis.SetVisible(DialogEdit, false)
		s.vis.SetVisible(DialogNode, false)
		return nil
	})
}

// Save writes the edited field back into the document.
func (s *Session) Save(ctx context.Context, req SaveRequest) (Result, error) {
	var (
		snap snapshot.Snapshot
		row  int
	)
	if err := s.do(func() error {
		if err := s.transition(Saving); err != nil {
			return err
		}
		snap, row = s.snap, s.row
		return nil
	}); err != nil {
		return Result{}, err
	}

	progress := logging.Start(s.logger)
	res, err := s.save(ctx, snap, row, req)

	_ = s.do(func() error {
		if err != nil {
			s.lastErr = err
			s.logger.Warn("save failed", "path", snap.JSONPath(), "err", err)
			return s.transition(Editing)
		}
		s.lastErr = nil
		s.snap = res.Snapshot
		s.row = -1
		if terr := s.transition(Inspecting); terr != nil {
			return terr
		}
		s.vis.SetVisible(DialogEdit, false)
		s.vis.SetVisible(DialogNode, true)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	progress.Done("saved", "path", res.Change.Path.String())
	return res, nil
}

// save computes the new document and publishes it. Nothing is published
// unless every step before SetText succeeds.
func (s *Session) save(ctx context.Context, snap snapshot.Snapshot, row int, req SaveRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	field := snap.Rows[row]
	fieldPath, err := snap.FieldPath(row)
	if err != nil {
		return Result{}, err
	}

	edit := mutator.Edit{Path: fieldPath}
	// Only a proposed rename is validated. Existing keys need not be
	// identifiers.
	if field.Labeled && req.Key != field.Key && strings.TrimSpace(req.Key) != field.Key {
		key, err := keyname.Validate(req.Key)
		if err != nil {
			return Result{}, err
		}
		edit.NewKey = &key
	}

	t := req.Type
	if t == "" {
		t, _ = coerce.TypeOf(field.Value)
	}
	edit.Value, err = s.coercer.Coerce(req.Value, t)
	if err != nil {
		return Result{}, err
	}

	ir, err := parser.ParseString(s.doc.Text())
	if err != nil {
		if !errors.IsSerialization(err) {
			err = errors.NewSerializationError("document text is not valid JSON", err)
		}
		return Result{}, err
	}

	root, change, err := s.mutator.Apply(ir.Root, edit)
	if err != nil {
		return Result{}, err
	}

	text, err := s.formatter.Format(root)
	if err != nil {
		return Result{}, errors.NewOutputError("failed to format document", err)
	}

	ops, err := patch.Encode(change)
	if err != nil {
		return Result{}, errors.NewOutputError("failed to encode patch", err)
	}

	next, err := snapshot.Build(root, snap.Path)
	if err != nil {
		return Result{}, err
	}

	s.doc.SetText(text, true)
	s.sel.SetSelected(next)

	return Result{Root: root, Text: text, Snapshot: next, Change: change, Patch: ops}, nil
}

// do runs fn under the lock and then notifies observers of the transitions
// fn made.
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	err := fn()
	events := s.pending
	s.pending = nil
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, ev := range events {
		for _, o := range observers {
			o(ev[0], ev[1])
		}
	}
	return err
}

// transition must be called with the lock held.
func (s *Session) transition(to State) error {
	if !allowed(s.state, to) {
		return s.invalid(to)
	}
	from := s.state
	s.state = to
	s.pending = append(s.pending, [2]State{from, to})
	s.logger.Debug("transition", "from", from, "to", to)
	return nil
}

func (s *Session) invalid(to State) error {
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.state, to)
}
