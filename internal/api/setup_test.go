package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/mocks"
	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

type testEnv struct {
	router   *gin.Engine
	store    *mocks.MockRecordStore
	storage  *mocks.MockObjectStorage
	catalog  *service.Catalog
	sessions *service.Sessions
}

func testRecipes() []model.Recipe {
	a := model.NewDraft()
	a.ID, a.Name, a.Region = "a", "Amiwo", "Sud"
	b := model.NewDraft()
	b.ID, b.Name, b.Region, b.Category = "b", "Kuli-kuli", "Nord", "Protéines & Grillades"
	return []model.Recipe{a, b}
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		store:   new(mocks.MockRecordStore),
		storage: new(mocks.MockObjectStorage),
	}
	log := logger.NewNop()
	env.catalog = service.NewCatalog(env.store, log, nil)
	env.store.On("List", mock.Anything).Return(testRecipes(), nil).Once()
	require.NoError(t, env.catalog.FetchAll(context.Background()))

	env.sessions = service.NewSessions(service.EditorDeps{
		Store:              env.store,
		Storage:            env.storage,
		Catalog:            env.catalog,
		Log:                log,
		PathPrefix:         "recipes",
		SaveCloseDelay:     10 * time.Millisecond,
		ProgressResetDelay: 10 * time.Millisecond,
	})
	t.Cleanup(env.sessions.Shutdown)

	env.router = gin.New()
	v1 := env.router.Group("/api/v1")
	NewRecipeHandler(env.catalog).RegisterRoutes(v1)
	NewDashboardHandler(env.catalog).RegisterRoutes(v1)
	NewEditorHandler(env.sessions, nil).RegisterRoutes(v1)
	NewAuthHandler().RegisterRoutes(v1)
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
