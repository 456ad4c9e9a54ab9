package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

type recipesResponse struct {
	Recipes []model.Recipe `json:"recipes"`
	Loading bool           `json:"loading"`
}

func TestListRecipes(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/v1/recipes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var all recipesResponse
	decode(t, w, &all)
	assert.Len(t, all.Recipes, 2)
	assert.False(t, all.Loading)

	w = env.do(t, http.MethodGet, "/api/v1/recipes?q=NORD", nil)
	var filtered recipesResponse
	decode(t, w, &filtered)
	if assert.Len(t, filtered.Recipes, 1) {
		assert.Equal(t, "Kuli-kuli", filtered.Recipes[0].Name)
	}
	env.store.AssertNumberOfCalls(t, "List", 1)
}

func TestRefreshRecipesKeepsSetOnFailure(t *testing.T) {
	env := setupTestRouter(t)
	env.store.On("List", mock.Anything).Return(nil, errors.New("offline")).Once()

	w := env.do(t, http.MethodPost, "/api/v1/recipes/refresh", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp recipesResponse
	decode(t, w, &resp)
	assert.Len(t, resp.Recipes, 2)
}

func TestDeleteRecipe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := setupTestRouter(t)
		env.store.On("Delete", mock.Anything, "a").Return(nil).Once()
		env.store.On("List", mock.Anything).Return(testRecipes()[1:], nil).Once()

		w := env.do(t, http.MethodDelete, "/api/v1/recipes/a", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var resp recipesResponse
		decode(t, w, &resp)
		assert.Len(t, resp.Recipes, 1)
	})

	t.Run("failure is swallowed", func(t *testing.T) {
		env := setupTestRouter(t)
		env.store.On("Delete", mock.Anything, "a").Return(errors.New("denied")).Once()

		w := env.do(t, http.MethodDelete, "/api/v1/recipes/a", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var resp recipesResponse
		decode(t, w, &resp)
		assert.Len(t, resp.Recipes, 2)
	})
}

func TestDashboardStats(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var summary service.Summary
	decode(t, w, &summary)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Regions)
	assert.Equal(t, 2, summary.Categories)
	assert.Equal(t, 98, summary.Stats[3].Value)
}

func TestOptions(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/v1/options", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var opts model.Options
	decode(t, w, &opts)
	assert.Equal(t, model.Regions, opts.Regions)
	assert.Len(t, opts.Difficulties, 8)
}

func TestLogout(t *testing.T) {
	env := setupTestRouter(t)
	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListRecipesReportsLoading(t *testing.T) {
	env := setupTestRouter(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	env.store.On("List", mock.Anything).Return(testRecipes(), nil).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Once()

	refreshed := make(chan int, 1)
	go func() { refreshed <- env.do(t, http.MethodPost, "/api/v1/recipes/refresh", nil).Code }()
	<-entered

	var during recipesResponse
	decode(t, env.do(t, http.MethodGet, "/api/v1/recipes", nil), &during)
	assert.True(t, during.Loading)
	assert.Len(t, during.Recipes, 2, "the previous set stays visible while loading")

	close(release)
	assert.Equal(t, http.StatusOK, <-refreshed)

	var after recipesResponse
	decode(t, env.do(t, http.MethodGet, "/api/v1/recipes", nil), &after)
	assert.False(t, after.Loading)
}
