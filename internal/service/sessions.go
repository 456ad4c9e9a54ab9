package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
)

// Sessions keeps one editor per admin session. A session disappears as soon
// as its editor closes, including the automatic close after a save.
type Sessions struct {
	deps EditorDeps

	mu      sync.Mutex
	editors map[string]*Editor
}

func NewSessions(deps EditorDeps) *Sessions {
	return &Sessions{deps: deps, editors: make(map[string]*Editor)}
}

// Open starts a session editing the catalog record recipeID, or a new dish
// when recipeID is empty.
func (s *Sessions) Open(recipeID string) (string, *Editor, error) {
	var record *model.Recipe
	if recipeID != "" {
		if s.deps.Catalog == nil {
			return "", nil, ErrRecipeNotFound
		}
		found, err := s.deps.Catalog.Find(recipeID)
		if err != nil {
			return "", nil, err
		}
		record = &found
	}

	id := uuid.NewString()
	editor := NewEditor(s.deps, func() { s.remove(id) })
	editor.Open(record)

	s.mu.Lock()
	s.editors[id] = editor
	s.mu.Unlock()
	return id, editor, nil
}

func (s *Sessions) Get(id string) (*Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	editor, ok := s.editors[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return editor, nil
}

// Close closes the session's editor, which removes the session.
func (s *Sessions) Close(id string) error {
	editor, err := s.Get(id)
	if err != nil {
		return err
	}
	editor.Close()
	return nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.editors)
}

// Shutdown closes every editor and waits for background uploads.
func (s *Sessions) Shutdown() {
	s.mu.Lock()
	editors := make([]*Editor, 0, len(s.editors))
	for _, e := range s.editors {
		editors = append(editors, e)
	}
	s.mu.Unlock()

	for _, e := range editors {
		e.Close()
		e.Wait()
	}
}

func (s *Sessions) remove(id string) {
	s.mu.Lock()
	delete(s.editors, id)
	s.mu.Unlock()
}
