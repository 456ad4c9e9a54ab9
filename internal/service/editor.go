package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/observability"
	"github.com/pageza/afrocuisto-cms/backend/internal/storage"
	"github.com/pageza/afrocuisto-cms/backend/internal/store"
)

// EditorState is the lifecycle position of an editor.
type EditorState string

const (
	StateClosed     EditorState = "closed"
	StateClean      EditorState = "open"
	StateDirty      EditorState = "dirty"
	StateSaving     EditorState = "saving"
	StateSaved      EditorState = "saved"
	StateSaveFailed EditorState = "save-failed"
)

// Upload progress stages.
const (
	ProgressIdle     = 0
	ProgressStarted  = 10
	ProgressUploaded = 30
	ProgressStored   = 70
	ProgressDone     = 100
)

// SaveFailedMessage is what users see when the store rejects a save.
const SaveFailedMessage = "save failed, try again"

// Ingredient sub-fields accepted by UpdateIngredient.
const (
	IngredientItem   = "item"
	IngredientAmount = "amount"
)

// EditorDeps are the collaborators shared by every editor.
type EditorDeps struct {
	Store              store.RecordStore
	Storage            storage.ObjectStorage
	Catalog            *Catalog
	Log                *logger.Logger
	Metrics            *observability.Collector
	PathPrefix         string
	SaveCloseDelay     time.Duration
	ProgressResetDelay time.Duration
}

// EditorView is a point-in-time snapshot of an editor.
type EditorView struct {
	State          EditorState   `json:"state"`
	Recipe         *model.Recipe `json:"recipe,omitempty"`
	UploadProgress int           `json:"uploadProgress"`
	Uploading      bool          `json:"uploading"`
	UploadError    string        `json:"uploadError,omitempty"`
	SaveError      string        `json:"saveError,omitempty"`
}

// Editor holds one working copy of a recipe and moves it through
// open, dirty, saving, saved and closed. Network calls run outside the lock.
type Editor struct {
	deps    EditorDeps
	log     *logger.Logger
	onClose func()

	mu         sync.Mutex
	state      EditorState
	draft      model.Recipe
	generation uint64
	progress   int
	uploading  bool
	uploadErr  string
	saveErr    string
	closeTimer *time.Timer
	resetTimer *time.Timer
	inflight   sync.WaitGroup
}

// NewEditor creates a closed editor. onClose, when set, runs every time the
// editor closes.
func NewEditor(deps EditorDeps, onClose func()) *Editor {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Editor{
		deps:    deps,
		log:     log.With("service", "Editor"),
		onClose: onClose,
		state:   StateClosed,
	}
}

// Open starts editing a copy of record, or a fresh draft when record is nil.
func (e *Editor) Open(record *model.Recipe) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimersLocked()
	e.generation++
	if record != nil {
		e.draft = record.Clone()
	} else {
		e.draft = model.NewDraft()
	}
	e.state = StateClean
	e.progress = ProgressIdle
	e.uploading = false
	e.uploadErr = ""
	e.saveErr = ""
}

// Close discards the working copy. Closing a closed editor is a no-op.
// Uploads still in flight finish on their own and their result is dropped.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return
	}
	e.closeLocked()
	e.mu.Unlock()

	if e.onClose != nil {
		e.onClose()
	}
}

func (e *Editor) closeLocked() {
	e.stopTimersLocked()
	e.generation++
	e.state = StateClosed
	e.draft = model.Recipe{}
	e.progress = ProgressIdle
	e.uploading = false
	e.uploadErr = ""
	e.saveErr = ""
}

func (e *Editor) stopTimersLocked() {
	if e.closeTimer != nil {
		e.closeTimer.Stop()
		e.closeTimer = nil
	}
	if e.resetTimer != nil {
		e.resetTimer.Stop()
		e.resetTimer = nil
	}
}

// State reports the current lifecycle state.
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// View returns a snapshot safe to hand out.
func (e *Editor) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := EditorView{
		State:          e.state,
		UploadProgress: e.progress,
		Uploading:      e.uploading,
		UploadError:    e.uploadErr,
		SaveError:      e.saveErr,
	}
	if e.state != StateClosed {
		draft := e.draft.Clone()
		v.Recipe = &draft
	}
	return v
}

// Wait blocks until background uploads have finished.
func (e *Editor) Wait() {
	e.inflight.Wait()
}

func (e *Editor) editableLocked() error {
	switch e.state {
	case StateClosed:
		return ErrEditorClosed
	case StateSaving, StateSaved:
		return ErrNotEditable
	}
	return nil
}

func (e *Editor) mutate(apply func(r *model.Recipe) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	if err := apply(&e.draft); err != nil {
		return err
	}
	e.state = StateDirty
	return nil
}

// SetField replaces one text field of the working copy.
func (e *Editor) SetField(field Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return e.mutate(func(r *model.Recipe) error {
		return setStringField(r, field, value)
	})
}

// SetRating replaces the rating; nil clears it.
func (e *Editor) SetRating(rating *float64) error {
	return e.mutate(func(r *model.Recipe) error {
		if rating == nil {
			r.Rating = nil
			return nil
		}
		v := *rating
		r.Rating = &v
		return nil
	})
}

// SetSuggestedSides replaces the suggested side dishes.
func (e *Editor) SetSuggestedSides(sides []string) error {
	return e.mutate(func(r *model.Recipe) error {
		if sides == nil {
			r.SuggestedSides = nil
			return nil
		}
		r.SuggestedSides = append(model.StringList{}, sides...)
		return nil
	})
}

// AddIngredient appends a blank ingredient.
func (e *Editor) AddIngredient() error {
	return e.mutate(func(r *model.Recipe) error {
		r.Ingredients = append(r.Ingredients, model.Ingredient{Item: "", Amount: ""})
		return nil
	})
}

// UpdateIngredient sets the item or amount of the ingredient at index.
func (e *Editor) UpdateIngredient(index int, field, value string) error {
	if field != IngredientItem && field != IngredientAmount {
		return fmt.Errorf("%w: ingredient %s", ErrUnknownField, field)
	}
	return e.mutate(func(r *model.Recipe) error {
		if index < 0 || index >= len(r.Ingredients) {
			return fmt.Errorf("%w: ingredient %d", ErrIndexOutOfRange, index)
		}
		ings := append(model.IngredientList{}, r.Ingredients...)
		if field == IngredientItem {
			ings[index].Item = value
		} else {
			ings[index].Amount = value
		}
		r.Ingredients = ings
		return nil
	})
}

// RemoveIngredient drops the ingredient at index; later entries shift down.
func (e *Editor) RemoveIngredient(index int) error {
	return e.mutate(func(r *model.Recipe) error {
		if index < 0 || index >= len(r.Ingredients) {
			return fmt.Errorf("%w: ingredient %d", ErrIndexOutOfRange, index)
		}
		ings := make(model.IngredientList, 0, len(r.Ingredients)-1)
		ings = append(ings, r.Ingredients[:index]...)
		r.Ingredients = append(ings, r.Ingredients[index+1:]...)
		return nil
	})
}

// AddStep appends an empty step.
func (e *Editor) AddStep() error {
	return e.mutate(func(r *model.Recipe) error {
		r.Steps = append(r.Steps, "")
		return nil
	})
}

// UpdateStep replaces the step text at index.
func (e *Editor) UpdateStep(index int, value string) error {
	return e.mutate(func(r *model.Recipe) error {
		if index < 0 || index >= len(r.Steps) {
			return fmt.Errorf("%w: step %d", ErrIndexOutOfRange, index)
		}
		steps := append(model.StringList{}, r.Steps...)
		steps[index] = value
		r.Steps = steps
		return nil
	})
}

// RemoveStep drops the step at index; later steps shift down.
func (e *Editor) RemoveStep(index int) error {
	return e.mutate(func(r *model.Recipe) error {
		if index < 0 || index >= len(r.Steps) {
			return fmt.Errorf("%w: step %d", ErrIndexOutOfRange, index)
		}
		steps := make(model.StringList, 0, len(r.Steps)-1)
		steps = append(steps, r.Steps[:index]...)
		r.Steps = append(steps, r.Steps[index+1:]...)
		return nil
	})
}

// UploadImage stores the file and points the working copy's image at it.
// It blocks until the upload settles.
func (e *Editor) UploadImage(ctx context.Context, fileName string, data []byte) error {
	gen, err := e.beginUpload()
	if err != nil {
		return err
	}
	return e.runUpload(ctx, gen, fileName, data)
}

// StartUpload runs UploadImage in the background. Only the busy check is
// synchronous; the outcome shows up in View.
func (e *Editor) StartUpload(ctx context.Context, fileName string, data []byte) error {
	gen, err := e.beginUpload()
	if err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		_ = e.runUpload(ctx, gen, fileName, data)
	}()
	return nil
}

func (e *Editor) beginUpload() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return 0, err
	}
	if e.uploading {
		return 0, ErrUploadInProgress
	}
	if e.resetTimer != nil {
		e.resetTimer.Stop()
		e.resetTimer = nil
	}
	e.uploading = true
	e.uploadErr = ""
	e.progress = ProgressStarted
	return e.generation, nil
}

func (e *Editor) runUpload(ctx context.Context, gen uint64, fileName string, data []byte) error {
	url, err := e.push(ctx, gen, fileName, data)
	if e.deps.Metrics != nil {
		e.deps.Metrics.ObserveUpload(err)
	}
	if err != nil {
		e.log.Error("image upload failed", "file", fileName, "error", err)
		e.mu.Lock()
		if e.generation == gen {
			e.uploading = false
			e.progress = ProgressIdle
			e.uploadErr = err.Error()
		}
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		e.log.Debug("discarding upload for a closed editor", "url", url)
		return nil
	}
	e.uploading = false
	if e.editableLocked() != nil {
		e.progress = ProgressIdle
		e.log.Warn("discarding upload finished while saving", "url", url)
		return nil
	}
	e.draft.Image = url
	e.state = StateDirty
	e.progress = ProgressDone
	e.resetTimer = time.AfterFunc(e.deps.ProgressResetDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.generation == gen && !e.uploading && e.progress == ProgressDone {
			e.progress = ProgressIdle
		}
	})
	return nil
}

// push stores the bytes and resolves the public URL, advancing progress.
func (e *Editor) push(ctx context.Context, gen uint64, fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	contentType := mimetype.Detect(data).String()
	objectPath := storage.ObjectPath(e.deps.PathPrefix, fileName)

	e.setProgress(gen, ProgressUploaded)
	if err := e.deps.Storage.Upload(ctx, objectPath, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	e.setProgress(gen, ProgressStored)
	url, err := e.deps.Storage.PublicURL(ctx, objectPath)
	if err != nil {
		return "", fmt.Errorf("resolve image url: %w", err)
	}
	return url, nil
}

func (e *Editor) setProgress(gen uint64, progress int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation == gen {
		e.progress = progress
	}
}

// Save upserts the whole working copy, re-fetches the catalog and closes
// the editor after SaveCloseDelay. On failure the working copy is kept.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateClosed:
		e.mu.Unlock()
		return ErrEditorClosed
	case StateSaving:
		e.mu.Unlock()
		return ErrSaveInProgress
	case StateSaved:
		e.mu.Unlock()
		return ErrNotEditable
	}
	e.state = StateSaving
	e.saveErr = ""
	gen := e.generation
	snapshot := e.draft.Clone()
	e.mu.Unlock()

	_, err := e.deps.Store.Upsert(ctx, snapshot)
	if e.deps.Metrics != nil {
		e.deps.Metrics.ObserveSave(err)
	}
	if err != nil {
		e.log.Error("failed to save recipe", "id", snapshot.ID, "error", err)
		e.mu.Lock()
		if e.generation == gen {
			e.state = StateSaveFailed
			e.saveErr = SaveFailedMessage
		}
		e.mu.Unlock()
		return fmt.Errorf("save recipe %s: %w", snapshot.ID, err)
	}

	if e.deps.Catalog != nil {
		_ = e.deps.Catalog.FetchAll(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		return nil
	}
	e.state = StateSaved
	e.closeTimer = time.AfterFunc(e.deps.SaveCloseDelay, func() {
		e.mu.Lock()
		if e.generation != gen || e.state != StateSaved {
			e.mu.Unlock()
			return
		}
		e.closeLocked()
		e.mu.Unlock()
		if e.onClose != nil {
			e.onClose()
		}
	})
	return nil
}

// IsBusy reports errors that mean "try again later" rather than a bad request.
func IsBusy(err error) bool {
	return errors.Is(err, ErrSaveInProgress) || errors.Is(err, ErrUploadInProgress) || errors.Is(err, ErrNotEditable)
}
