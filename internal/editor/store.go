package editor

import (
	"log/slog"
	"sync"

	"github.com/framecut/framecut/internal/config"
	"github.com/framecut/framecut/internal/timeline"
	"github.com/framecut/framecut/internal/trackops"
)

// Update is a pure function over the editor state. It must not mutate
// the input; it returns a new value (sharing unchanged structure).
type Update func(State) State

// Store is the single choke point for all state mutation. No component
// reads-then-writes outside SetState, which is what makes the
// double-invocation safety of the commit protocol sufficient.
type Store struct {
	mu      sync.Mutex
	state   State
	history *History
	logger  *slog.Logger

	nextSub int
	subs    map[int]func(State)
}

// NewStore builds a store around an initial document.
func NewStore(doc *timeline.Document, historyLimit int, logger *slog.Logger) *Store {
	return &Store{
		state:   NewState(doc),
		history: NewHistory(doc, historyLimit),
		logger:  logger,
		subs:    map[int]func(State){},
	}
}

// NewStoreFromConfig builds a store whose history depth and snap
// threshold come from the application configuration. Hosts embedding
// the engine construct their store here so the environment overrides
// actually reach the gestures.
func NewStoreFromConfig(doc *timeline.Document, cfg config.Config, logger *slog.Logger) *Store {
	s := NewStore(doc, cfg.HistoryLimit(), logger)
	s.state.Prefs.SnapThresholdPx = cfg.SnapThresholdPx()
	return s
}

// State returns the current state snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Doc returns the current undoable document.
func (s *Store) Doc() *timeline.Document {
	return s.State().Doc
}

// SetState applies the update and, when requested, commits the
// resulting document to history. The update is always applied first
// without committing; the commit is issued as a separate identity
// update that only pushes history. Applying the same update twice is
// therefore harmless: the mutation is idempotent by reference and the
// history push no-ops on the already-current snapshot, so one logical
// action yields exactly one history entry.
func (s *Store) SetState(update Update, commitToUndoStack bool) {
	s.apply(update, false)
	if commitToUndoStack {
		s.apply(func(st State) State { return st }, true)
	}
}

func (s *Store) apply(update Update, push bool) {
	s.mu.Lock()
	next := update(s.state)
	s.state = next
	if push {
		s.history.Push(next.Doc)
	}
	subs := make([]func(State), 0, len(s.subs))
	for _, cb := range s.subs {
		subs = append(subs, cb)
	}
	s.mu.Unlock()

	for _, cb := range subs {
		cb(next)
	}
}

// Undo restores the previous snapshot and filters the selection down
// to ids that still exist. No-op at the start of history.
func (s *Store) Undo() {
	s.restore((*History).Undo)
}

// Redo restores the next snapshot. No-op at the end of history.
func (s *Store) Redo() {
	s.restore((*History).Redo)
}

func (s *Store) restore(step func(*History) *timeline.Document) {
	s.mu.Lock()
	doc := step(s.history)
	if doc == nil {
		s.mu.Unlock()
		return
	}
	s.state.Doc = doc
	s.state = s.state.filterSelection()
	next := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, cb := range s.subs {
		subs = append(subs, cb)
	}
	s.mu.Unlock()

	for _, cb := range subs {
		cb(next)
	}
}

// History exposes the undo stack for tests and status surfaces.
func (s *Store) History() *History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}

// Subscribe registers a callback invoked after every state change and
// returns its unsubscribe function. Callers that only care about one
// slice of state pair this with a selector, comparing the selected
// value before reacting, so unrelated changes do not invalidate them.
func (s *Store) Subscribe(cb func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// DeleteSelected removes the current selection from the document as
// one undoable action, recording upload statuses for retired assets.
func (s *Store) DeleteSelected() {
	s.SetState(func(st State) State {
		ids := st.SelectedItems
		if len(ids) == 0 {
			return st
		}
		status := func(assetID string) string {
			return string(st.Uploads[assetID].Status)
		}
		st.Doc = trackops.DeleteItems(st.Doc, ids, status)
		st.SelectedItems = nil
		return st
	}, true)
}

// CutSelected removes the selection into the returned clipboard batch,
// leaving assets in place for a later paste.
func (s *Store) CutSelected() []*timeline.Item {
	var clipboard []*timeline.Item
	s.SetState(func(st State) State {
		if len(st.SelectedItems) == 0 {
			return st
		}
		st.Doc, clipboard = trackops.CutItems(st.Doc, st.SelectedItems)
		st.SelectedItems = nil
		return st
	}, true)
	return clipboard
}

// Paste inserts the clipboard at the playhead (or a pointer position)
// and selects the new items in paste order.
func (s *Store) Paste(clipboard []*timeline.Item, at *trackops.PastePoint) {
	s.SetState(func(st State) State {
		doc, newIDs := trackops.PasteItems(st.Doc, clipboard, st.PlayheadFrame, at)
		if len(newIDs) == 0 {
			return st
		}
		st.Doc = doc
		st.SelectedItems = newIDs
		return st
	}, true)
}

// DuplicateSelected copies the selection directly above the originals
// and selects the copies.
func (s *Store) DuplicateSelected() {
	s.SetState(func(st State) State {
		doc, newIDs := trackops.DuplicateItems(st.Doc, st.SelectedItems)
		if len(newIDs) == 0 {
			return st
		}
		st.Doc = doc
		st.SelectedItems = newIDs
		return st
	}, true)
}
