// Package store holds the collaborators an editor session works against:
// the document text, the current selection and dialog visibility.
package store

import (
	"os"
	"sync"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/snapshot"
)

// MemoryDocument keeps the document text in memory.
type MemoryDocument struct {
	mu    sync.RWMutex
	text  string
	dirty bool
}

// NewMemoryDocument creates a document holding text.
func NewMemoryDocument(text string) *MemoryDocument {
	return &MemoryDocument{text: text}
}

// Text returns the current document text.
func (d *MemoryDocument) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// SetText replaces the text and records whether it differs from the source.
func (d *MemoryDocument) SetText(text string, dirty bool) {
	d.mu.Lock()
	d.text = text
	d.dirty = dirty
	d.mu.Unlock()
}

// Dirty reports whether the text changed since it was last loaded or saved.
func (d *MemoryDocument) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// FileDocument is a MemoryDocument backed by a file. Edits stay in memory
// until Flush.
type FileDocument struct {
	MemoryDocument
	path string
}

// LoadFile reads the document at path.
func LoadFile(path string) (*FileDocument, error) {
	data, err := parser.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &FileDocument{MemoryDocument: MemoryDocument{text: string(data)}, path: path}, nil
}

// Path returns the file the document was loaded from.
func (d *FileDocument) Path() string { return d.path }

// Flush writes the text to target, or back to the source file when target
// is empty. A clean document is not written back to its source.
func (d *FileDocument) Flush(target string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if target == "" {
		if !d.dirty {
			return nil
		}
		target = d.path
	}
	text := d.text
	if len(text) > 0 && text[len(text)-1] != '\n' {
		text += "\n"
	}
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return errors.NewOutputError("failed to write document", err)
	}
	if target == d.path {
		d.dirty = false
	}
	return nil
}

// MemorySelection holds the selected node.
type MemorySelection struct {
	mu       sync.RWMutex
	selected snapshot.Snapshot
	ok       bool
}

// Selected returns the selected node, or false when nothing is selected.
func (s *MemorySelection) Selected() (snapshot.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.ok
}

// SetSelected replaces the selected node.
func (s *MemorySelection) SetSelected(snap snapshot.Snapshot) {
	s.mu.Lock()
	s.selected = snap
	s.ok = true
	s.mu.Unlock()
}

// MemoryVisibility records which dialogs are shown.
type MemoryVisibility struct {
	mu      sync.RWMutex
	visible map[string]bool
}

// SetVisible shows or hides dialog.
func (v *MemoryVisibility) SetVisible(dialog string, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.visible == nil {
		v.visible = map[string]bool{}
	}
	v.visible[dialog] = visible
}

// Visible reports whether dialog is shown.
func (v *MemoryVisibility) Visible(dialog string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visible[dialog]
}
