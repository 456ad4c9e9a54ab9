package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/mocks"
	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/observability"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type editorFixture struct {
	editor  *Editor
	store   *mocks.MockRecordStore
	storage *mocks.MockObjectStorage
	catalog *Catalog
	closed  chan struct{}
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()
	f := &editorFixture{
		store:   new(mocks.MockRecordStore),
		storage: new(mocks.MockObjectStorage),
		closed:  make(chan struct{}, 1),
	}
	log := logger.NewNop()
	metrics := observability.NewCollector("test")
	f.catalog = NewCatalog(f.store, log, metrics)
	f.editor = NewEditor(EditorDeps{
		Store:              f.store,
		Storage:            f.storage,
		Catalog:            f.catalog,
		Log:                log,
		Metrics:            metrics,
		PathPrefix:         "recipes",
		SaveCloseDelay:     20 * time.Millisecond,
		ProgressResetDelay: 20 * time.Millisecond,
	}, func() { f.closed <- struct{}{} })
	t.Cleanup(f.editor.Wait)
	return f
}

func TestEditorOpenNewDraft(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	v := f.editor.View()
	require.NotNil(t, v.Recipe)
	assert.Equal(t, StateClean, v.State)
	assert.NotEmpty(t, v.Recipe.ID)
	assert.Equal(t, model.DefaultRegion, v.Recipe.Region)
	assert.Equal(t, model.DefaultCategory, v.Recipe.Category)
	assert.Equal(t, model.DefaultDifficulty, v.Recipe.Difficulty)
	assert.Equal(t, "20 min", v.Recipe.PrepTime)
	assert.Equal(t, "30 min", v.Recipe.CookTime)
	assert.Empty(t, v.Recipe.Ingredients)
	assert.Empty(t, v.Recipe.Steps)
	assert.Zero(t, v.UploadProgress)
}

func TestEditorWorksOnACopy(t *testing.T) {
	f := newEditorFixture(t)
	f.store.On("List", mock.Anything).Return(sampleRecipes(), nil).Once()
	require.NoError(t, f.catalog.FetchAll(context.Background()))

	record, err := f.catalog.Find("2")
	require.NoError(t, err)
	f.editor.Open(&record)

	require.NoError(t, f.editor.SetField(FieldName, "Amiwo rouge"))
	require.NoError(t, f.editor.AddStep())

	original, err := f.catalog.Find("2")
	require.NoError(t, err)
	assert.Equal(t, "Amiwo", original.Name)
	assert.Empty(t, original.Steps)
	assert.Equal(t, StateDirty, f.editor.State())
}

func TestEditorFields(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	require.NoError(t, f.editor.SetField(FieldVideoURL, "https://example.com/v"))
	require.NoError(t, f.editor.SetField(FieldDifficulty, string(model.DifficultyHard)))
	rating := 4.0
	require.NoError(t, f.editor.SetRating(&rating))
	require.NoError(t, f.editor.SetSuggestedSides([]string{"Piment", "Akassa"}))

	err := f.editor.SetField(Field("calories"), "12")
	assert.ErrorIs(t, err, ErrUnknownField)

	v := f.editor.View()
	assert.Equal(t, "https://example.com/v", v.Recipe.VideoURL)
	assert.Equal(t, model.DifficultyHard, v.Recipe.Difficulty)
	assert.Equal(t, 4.0, *v.Recipe.Rating)
	assert.Equal(t, model.StringList{"Piment", "Akassa"}, v.Recipe.SuggestedSides)

	rating = 1
	assert.Equal(t, 4.0, *f.editor.View().Recipe.Rating, "rating must be copied")
}

func TestEditorIngredients(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.editor.AddIngredient())
	}
	assert.Equal(t, model.Ingredient{}, f.editor.View().Recipe.Ingredients[2])

	require.NoError(t, f.editor.UpdateIngredient(0, IngredientItem, "maïs"))
	require.NoError(t, f.editor.UpdateIngredient(1, IngredientItem, "tomate"))
	require.NoError(t, f.editor.UpdateIngredient(1, IngredientAmount, "3"))
	require.NoError(t, f.editor.UpdateIngredient(2, IngredientItem, "oignon"))

	require.NoError(t, f.editor.RemoveIngredient(1))
	assert.Equal(t, model.IngredientList{{Item: "maïs"}, {Item: "oignon"}}, f.editor.View().Recipe.Ingredients)

	assert.ErrorIs(t, f.editor.RemoveIngredient(2), ErrIndexOutOfRange)
	assert.ErrorIs(t, f.editor.UpdateIngredient(-1, IngredientItem, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, f.editor.UpdateIngredient(0, "unit", "x"), ErrUnknownField)
}

func TestEditorSteps(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.editor.AddStep())
	}
	require.NoError(t, f.editor.UpdateStep(0, "Laver"))
	require.NoError(t, f.editor.UpdateStep(1, "Cuire"))
	require.NoError(t, f.editor.UpdateStep(2, "Servir"))
	require.NoError(t, f.editor.RemoveStep(0))

	assert.Equal(t, model.StringList{"Cuire", "Servir"}, f.editor.View().Recipe.Steps)
	assert.ErrorIs(t, f.editor.UpdateStep(5, "x"), ErrIndexOutOfRange)
}

func TestEditorClosedRejectsEverything(t *testing.T) {
	f := newEditorFixture(t)

	assert.ErrorIs(t, f.editor.SetField(FieldName, "x"), ErrEditorClosed)
	assert.ErrorIs(t, f.editor.AddStep(), ErrEditorClosed)
	assert.ErrorIs(t, f.editor.Save(context.Background()), ErrEditorClosed)
	assert.ErrorIs(t, f.editor.UploadImage(context.Background(), "a.png", pngBytes), ErrEditorClosed)
	assert.Nil(t, f.editor.View().Recipe)
}

func TestEditorSaveSuccess(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)
	require.NoError(t, f.editor.SetField(FieldName, "Dakouin"))
	draft := *f.editor.View().Recipe

	f.store.On("Upsert", mock.Anything, draft).Return([]model.Recipe{draft}, nil).Once()
	f.store.On("List", mock.Anything).Return([]model.Recipe{draft}, nil).Once()

	require.NoError(t, f.editor.Save(context.Background()))
	assert.Equal(t, StateSaved, f.editor.State())
	assert.Len(t, f.catalog.Records(), 1, "catalog is re-fetched after a save")
	assert.ErrorIs(t, f.editor.SetField(FieldName, "late"), ErrNotEditable)

	select {
	case <-f.closed:
	case <-time.After(time.Second):
		t.Fatal("editor did not auto-close after save")
	}
	assert.Equal(t, StateClosed, f.editor.State())
	f.store.AssertExpectations(t)
}

func TestEditorSaveFailureKeepsWorkingCopy(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)
	require.NoError(t, f.editor.SetField(FieldName, "Dakouin"))

	f.store.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("rls violation")).Once()

	err := f.editor.Save(context.Background())
	require.Error(t, err)

	v := f.editor.View()
	assert.Equal(t, StateSaveFailed, v.State)
	assert.Equal(t, SaveFailedMessage, v.SaveError)
	assert.Equal(t, "Dakouin", v.Recipe.Name)
	f.store.AssertNotCalled(t, "List", mock.Anything)

	require.NoError(t, f.editor.SetField(FieldName, "Dakouin 2"))
	assert.Equal(t, StateDirty, f.editor.State())
}

func TestEditorSaveIsSingleFlight(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	release := make(chan struct{})
	entered := make(chan struct{})
	f.store.On("Upsert", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil, errors.New("timeout")).Once()

	done := make(chan error)
	go func() { done <- f.editor.Save(context.Background()) }()
	<-entered

	assert.ErrorIs(t, f.editor.Save(context.Background()), ErrSaveInProgress)
	assert.ErrorIs(t, f.editor.AddIngredient(), ErrNotEditable)
	assert.Equal(t, StateSaving, f.editor.State())

	close(release)
	assert.Error(t, <-done)
	f.store.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestEditorUploadImage(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	var objectPath string
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").
		Run(func(args mock.Arguments) { objectPath = args.String(1) }).
		Return(nil).Once()
	f.storage.On("PublicURL", mock.Anything, mock.AnythingOfType("string")).
		Return("https://cdn.example.com/recipes/x.png", nil).Once()

	require.NoError(t, f.editor.UploadImage(context.Background(), "plat.png", pngBytes))
	assert.True(t, strings.HasPrefix(objectPath, "recipes/"))
	assert.True(t, strings.HasSuffix(objectPath, ".png"))
	f.storage.AssertCalled(t, "PublicURL", mock.Anything, objectPath)

	v := f.editor.View()
	assert.Equal(t, "https://cdn.example.com/recipes/x.png", v.Recipe.Image)
	assert.Equal(t, ProgressDone, v.UploadProgress)
	assert.Equal(t, StateDirty, v.State)

	assert.Eventually(t, func() bool {
		return f.editor.View().UploadProgress == ProgressIdle
	}, time.Second, 5*time.Millisecond)
}

func TestEditorUploadFailure(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)
	require.NoError(t, f.editor.SetField(FieldImage, "https://old.example.com/a.jpg"))

	f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket not found")).Once()

	err := f.editor.UploadImage(context.Background(), "plat.jpg", pngBytes)
	require.Error(t, err)

	v := f.editor.View()
	assert.Equal(t, "https://old.example.com/a.jpg", v.Recipe.Image)
	assert.Zero(t, v.UploadProgress)
	assert.Contains(t, v.UploadError, "bucket not found")
	assert.False(t, v.Uploading)
	f.storage.AssertNotCalled(t, "PublicURL", mock.Anything, mock.Anything)

	assert.ErrorIs(t, f.editor.UploadImage(context.Background(), "vide.jpg", nil), ErrEmptyUpload)
}

func TestEditorBackgroundUpload(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	release := make(chan struct{})
	entered := make(chan struct{})
	f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()
	f.storage.On("PublicURL", mock.Anything, mock.Anything).Return("https://cdn.example.com/a.png", nil).Once()

	require.NoError(t, f.editor.StartUpload(context.Background(), "a.png", pngBytes))
	<-entered

	assert.ErrorIs(t, f.editor.StartUpload(context.Background(), "b.png", pngBytes), ErrUploadInProgress)
	require.NoError(t, f.editor.SetField(FieldName, "edited while uploading"))
	v := f.editor.View()
	assert.True(t, v.Uploading)
	assert.Equal(t, ProgressUploaded, v.UploadProgress)

	close(release)
	f.editor.Wait()

	v = f.editor.View()
	assert.Equal(t, "https://cdn.example.com/a.png", v.Recipe.Image)
	assert.Equal(t, "edited while uploading", v.Recipe.Name)
}

func TestEditorDiscardsUploadAfterClose(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)

	release := make(chan struct{})
	entered := make(chan struct{})
	f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()
	f.storage.On("PublicURL", mock.Anything, mock.Anything).Return("https://cdn.example.com/a.png", nil).Once()

	require.NoError(t, f.editor.StartUpload(context.Background(), "a.png", pngBytes))
	<-entered
	f.editor.Close()
	<-f.closed

	close(release)
	f.editor.Wait()

	assert.Equal(t, StateClosed, f.editor.State())
	assert.Nil(t, f.editor.View().Recipe)
	assert.Zero(t, f.editor.View().UploadProgress)
}

func TestEditorReopenResetsState(t *testing.T) {
	f := newEditorFixture(t)
	f.editor.Open(nil)
	f.store.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	require.Error(t, f.editor.Save(context.Background()))

	f.editor.Open(nil)
	v := f.editor.View()
	assert.Equal(t, StateClean, v.State)
	assert.Empty(t, v.SaveError)
}
